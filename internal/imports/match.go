package imports

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"larder/models"
)

// maxDistance is the largest edit distance accepted for a fuzzy match.
const maxDistance = 2

// Matcher resolves free-text ingredient names against the catalog.
type Matcher struct {
	ingredients []models.Ingredient
	folded      []string
}

// NewMatcher indexes ingredients. Earlier entries win ties.
func NewMatcher(ingredients []models.Ingredient) *Matcher {
	m := &Matcher{ingredients: ingredients, folded: make([]string, len(ingredients))}
	for i, ingredient := range ingredients {
		m.folded[i] = fold(ingredient.Name)
	}
	return m
}

// Match returns the catalog ingredient that name refers to. It tries an
// exact case-insensitive match, then a match ignoring accents and
// punctuation, then the closest name within a small edit distance.
func (m *Matcher) Match(name string) (models.Ingredient, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.Ingredient{}, false
	}
	for _, ingredient := range m.ingredients {
		if strings.EqualFold(ingredient.Name, trimmed) {
			return ingredient, true
		}
	}

	target := fold(trimmed)
	if target == "" {
		return models.Ingredient{}, false
	}
	for i, folded := range m.folded {
		if folded == target {
			return m.ingredients[i], true
		}
	}

	best, bestDistance := -1, maxDistance+1
	for i, folded := range m.folded {
		if distance := levenshteinDistance(folded, target); distance < bestDistance {
			best, bestDistance = i, distance
		}
	}
	if best < 0 {
		return models.Ingredient{}, false
	}
	return m.ingredients[best], true
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases value, strips diacritics and keeps only letters and digits.
func fold(value string) string {
	stripped, _, err := transform.String(stripMarks, strings.ToLower(value))
	if err != nil {
		stripped = strings.ToLower(value)
	}
	var builder strings.Builder
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
