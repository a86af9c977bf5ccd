package imports

import (
	"fmt"

	"larder/internal/forms"
	"larder/models"
)

// Draft is a recipe assembled from a document, ready for validation.
type Draft struct {
	Form      forms.RecipeForm `json:"recipe"`
	Unmatched []string         `json:"unmatched"`
	Warnings  []string         `json:"warnings"`
}

// Build resolves the document's candidates against the catalog. Repeated
// ingredients are merged by summing their amounts. nameHint and
// descriptionHint override the document's own title and prose.
func Build(doc Document, catalog []models.Ingredient, nameHint, descriptionHint string) Draft {
	draft := Draft{
		Form: forms.RecipeForm{
			Name:        firstNonEmpty(nameHint, doc.Title),
			Description: firstNonEmpty(descriptionHint, doc.Description),
		},
		Unmatched: make([]string, 0),
		Warnings:  make([]string, 0),
	}

	matcher := NewMatcher(catalog)
	positions := make(map[uint]int)
	for _, candidate := range doc.Candidates {
		ingredient, ok := matcher.Match(candidate.Name)
		if !ok {
			draft.Unmatched = append(draft.Unmatched, candidate.Name)
			continue
		}
		if candidate.Unit != "" && candidate.Unit != ingredient.Unit {
			draft.Warnings = append(draft.Warnings, fmt.Sprintf("%s is measured in %s, not %s", ingredient.Name, ingredient.Unit, candidate.Unit))
		}
		if idx, seen := positions[ingredient.ID]; seen {
			draft.Form.Ingredients[idx].Amount += candidate.Amount
			continue
		}
		positions[ingredient.ID] = len(draft.Form.Ingredients)
		draft.Form.Ingredients = append(draft.Form.Ingredients, forms.LineForm{IngredientID: ingredient.ID, Amount: candidate.Amount})
	}
	return draft
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
