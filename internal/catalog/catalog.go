// Package catalog holds the built-in ingredient catalog and seeds it into the store.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	applog "larder/internal/log"
	"larder/models"
)

//go:embed ingredients.yaml
var builtin string

// Entry is a catalog ingredient.
type Entry struct {
	Name string `yaml:"name"`
	Unit string `yaml:"unit"`
}

type document struct {
	Ingredients []Entry `yaml:"ingredients"`
}

// Upserter stores catalog entries.
type Upserter interface {
	UpsertIngredient(ctx context.Context, name, unit string) (bool, error)
}

// Load returns the built-in catalog.
func Load() ([]Entry, error) {
	return Parse(strings.NewReader(builtin))
}

// Parse decodes a catalog document. Units are normalised and must be
// supported; names must be unique.
func Parse(r io.Reader) ([]Entry, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Ingredients))
	entries := make([]Entry, 0, len(doc.Ingredients))
	for i, entry := range doc.Ingredients {
		entry.Name = strings.TrimSpace(entry.Name)
		entry.Unit = models.NormalizeUnit(entry.Unit)
		if entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: name is empty", i)
		}
		if !models.ValidUnit(entry.Unit) {
			return nil, fmt.Errorf("catalog entry %q: unsupported unit %q", entry.Name, entry.Unit)
		}
		key := strings.ToLower(entry.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate name", entry.Name)
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Seed upserts entries and reports how many ingredients were created.
func Seed(ctx context.Context, store Upserter, entries []Entry) (int, error) {
	created := 0
	for _, entry := range entries {
		ok, err := store.UpsertIngredient(ctx, entry.Name, entry.Unit)
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", entry.Name, err)
		}
		if ok {
			created++
		}
	}
	applog.Info(ctx, "ingredient catalog seeded", "entries", len(entries), "created", created)
	return created, nil
}
