package imports

import (
	"regexp"
	"strconv"
	"strings"

	"larder/models"
)

// Candidate is an ingredient line read from a document.
type Candidate struct {
	Name   string
	Amount float64
	// Unit is empty when the line did not name a supported unit.
	Unit string
}

// Document is the parsed shape of a recipe document.
type Document struct {
	Title       string
	Description string
	Candidates  []Candidate
}

var linePattern = regexp.MustCompile(`^(?:[-*•]\s*)?(\d+(?:[.,]\d+)?(?:/\d+)?)\s*([\p{L}]+\.?)?\s+(.+)$`)

// Parse splits text into ingredient candidates and free text. The first
// free-text line is the title; the rest form the description.
func Parse(text string) Document {
	var (
		doc   Document
		prose []string
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if candidate, ok := parseLine(line); ok {
			doc.Candidates = append(doc.Candidates, candidate)
			continue
		}
		if doc.Title == "" {
			doc.Title = line
			continue
		}
		prose = append(prose, line)
	}
	doc.Description = strings.Join(prose, " ")
	return doc
}

func parseLine(line string) (Candidate, bool) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return Candidate{}, false
	}
	amount, ok := parseAmount(match[1])
	if !ok {
		return Candidate{}, false
	}
	name := strings.TrimSpace(match[3])
	unit := models.NormalizeUnit(strings.TrimSuffix(match[2], "."))
	if match[2] != "" && !models.ValidUnit(unit) {
		name = match[2] + " " + name
		unit = ""
	}
	if name == "" {
		return Candidate{}, false
	}
	return Candidate{Name: name, Amount: amount, Unit: unit}, true
}

func parseAmount(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, ",", ".")
	if numerator, denominator, found := strings.Cut(raw, "/"); found {
		n, err := strconv.ParseFloat(numerator, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(denominator, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return roundPortion(n / d), true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// roundPortion truncates fractions to two decimals, the precision of the
// portion table (1/3 is stored as 0.33).
func roundPortion(value float64) float64 {
	return float64(int(value*100)) / 100
}
