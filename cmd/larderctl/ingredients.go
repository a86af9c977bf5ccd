package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"larder/internal/catalog"
	applog "larder/internal/log"
	"larder/internal/store"
	"larder/models"
)

var cleanWhitespace = regexp.MustCompile(`\s+`)

func newSeedCmd(open openDatabase) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert the ingredient catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := loadCatalog(file)
			if err != nil {
				return err
			}
			database, err := open(cmd.Context())
			if err != nil {
				return err
			}
			created, err := catalog.Seed(cmd.Context(), store.New(database), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d ingredients (%d new)\n", len(entries), created)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to seed instead of the built-in one")
	return cmd
}

func loadCatalog(path string) ([]catalog.Entry, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Load()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()
	return catalog.Parse(file)
}

func newImportIngredientsCmd(open openDatabase) *cobra.Command {
	return &cobra.Command{
		Use:   "import-ingredients CSV_FILE",
		Short: "Upsert ingredients from a CSV file with name and unit columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, skipped, err := readIngredientsCSV(args[0])
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}
			for _, row := range skipped {
				applog.Warn(cmd.Context(), "skipping ingredient row", "row", row)
			}
			database, err := open(cmd.Context())
			if err != nil {
				return err
			}
			created, err := catalog.Seed(cmd.Context(), store.New(database), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ingredients from %s (%d new, %d skipped)\n",
				len(entries), filepath.Base(args[0]), created, len(skipped))
			return nil
		},
	}
}

// readIngredientsCSV reads rows with "name" and "unit" headers. Rows with a
// blank name or an unsupported unit are reported by line number and skipped.
func readIngredientsCSV(path string) ([]catalog.Entry, []int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return parseIngredientsCSV(file)
}

func parseIngredientsCSV(r io.Reader) ([]catalog.Entry, []int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("csv is empty")
	}

	nameCol, unitCol := -1, -1
	for idx, key := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			nameCol = idx
		case "unit":
			unitCol = idx
		}
	}
	if nameCol < 0 || unitCol < 0 {
		return nil, nil, errors.New(`csv header must contain "name" and "unit"`)
	}

	var (
		entries []catalog.Entry
		skipped []int
	)
	seen := make(map[string]struct{})
	for idx, row := range rows[1:] {
		line := idx + 2
		if nameCol >= len(row) || unitCol >= len(row) {
			skipped = append(skipped, line)
			continue
		}
		name := strings.TrimSpace(cleanWhitespace.ReplaceAllString(row[nameCol], " "))
		unit := models.NormalizeUnit(row[unitCol])
		if name == "" || !models.ValidUnit(unit) {
			skipped = append(skipped, line)
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			skipped = append(skipped, line)
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, catalog.Entry{Name: name, Unit: unit})
	}
	return entries, skipped, nil
}
