// Package forms validates recipe, menu, shop and ingredient submissions
// before they reach the store.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"larder/internal/planner"
	"larder/models"
)

// ValidationError maps submitted field paths to human readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// IngredientForm is a catalog entry submission.
type IngredientForm struct {
	Name string `json:"name" validate:"required,max=80"`
	Unit string `json:"unit" validate:"required,unit"`
}

// LineForm is one recipe line.
type LineForm struct {
	IngredientID uint    `json:"ingredient_id" validate:"gt=0"`
	Amount       float64 `json:"amount" validate:"gte=0"`
}

// RecipeForm is a recipe submission.
type RecipeForm struct {
	Name        string     `json:"name" validate:"min=3,max=120"`
	Description string     `json:"description" validate:"min=10"`
	Ingredients []LineForm `json:"ingredients" validate:"min=1,unique=IngredientID,dive"`
}

// MenuForm is a menu submission.
type MenuForm struct {
	Name        string `json:"name" validate:"min=3,max=120"`
	Description string `json:"description" validate:"min=10"`
	RecipeIDs   []uint `json:"recipes" validate:"min=1,unique,dive,gt=0"`
}

// ShopForm selects the menus of the user's shop. Version carries the shop
// version the client last read; zero skips the staleness check.
type ShopForm struct {
	MenuIDs []uint `json:"menus" validate:"min=1,unique,dive,gt=0"`
	Version int    `json:"version" validate:"gte=0"`
}

// Lines converts the form into reconciler input.
func (f RecipeForm) Lines() []planner.LineInput {
	lines := make([]planner.LineInput, 0, len(f.Ingredients))
	for _, line := range f.Ingredients {
		lines = append(lines, planner.LineInput{IngredientID: line.IngredientID, Amount: line.Amount})
	}
	return lines
}

// IngredientIDs lists the ingredients the recipe references.
func (f RecipeForm) IngredientIDs() []uint {
	ids := make([]uint, 0, len(f.Ingredients))
	for _, line := range f.Ingredients {
		ids = append(ids, line.IngredientID)
	}
	return ids
}

var nouns = map[string]string{
	"ingredients": "ingredient",
	"recipes":     "recipe",
	"menus":       "menu",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return models.ValidUnit(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate normalises and checks form, which must be a pointer to one of the
// form types. Rule violations are reported as *ValidationError.
func Validate(form any) error {
	switch f := form.(type) {
	case *IngredientForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Unit = models.NormalizeUnit(f.Unit)
	case *RecipeForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Description = strings.TrimSpace(f.Description)
	case *MenuForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Description = strings.TrimSpace(f.Description)
	case *LoginForm:
		f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	case *SignupForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	result := &ValidationError{}
	for _, fieldErr := range fieldErrs {
		result.add(fieldPath(fieldErr), message(fieldErr))
	}
	return result
}

// CheckPortions rejects amounts of portion-unit ingredients that are not one
// of the known fractions. units maps ingredient IDs to their unit.
func CheckPortions(form RecipeForm, units map[uint]string) error {
	result := &ValidationError{}
	for i, line := range form.Ingredients {
		if units[line.IngredientID] != models.UnitPortion {
			continue
		}
		if !planner.ValidPortion(line.Amount) {
			result.add(fmt.Sprintf("ingredients[%d].amount", i), "Should be one of "+portionLabels())
		}
	}
	if len(result.Fields) == 0 {
		return nil
	}
	return result
}

func portionLabels() string {
	portions := planner.Portions()
	labels := make([]string, 0, len(portions))
	for _, portion := range portions {
		labels = append(labels, portion.Label)
	}
	return strings.Join(labels, ", ")
}

func fieldPath(fieldErr validator.FieldError) string {
	namespace := fieldErr.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fieldErr validator.FieldError) string {
	noun := nouns[fieldErr.Field()]
	switch fieldErr.Tag() {
	case "required":
		return "Is required"
	case "min":
		if fieldErr.Kind() == reflect.Slice {
			return fmt.Sprintf("Should be at least %s %s", fieldErr.Param(), noun)
		}
		return fmt.Sprintf("Should be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("Should be at most %s characters", fieldErr.Param())
	case "unique":
		return fmt.Sprintf("Should not repeat the %ss", noun)
	case "gt":
		if strings.HasSuffix(fieldErr.Field(), "ingredient_id") {
			return "Select an ingredient"
		}
		return "Select a " + nouns[parentField(fieldErr)]
	case "gte":
		return "Should not be negative"
	case "unit":
		return "Should be one of " + strings.Join(models.Units(), ", ")
	case "email":
		return "Should be a valid email address"
	case "eqfield":
		return "Should match the password"
	default:
		return fmt.Sprintf("Failed %s validation", fieldErr.Tag())
	}
}

// parentField returns the slice name for element errors such as "menus[1]".
func parentField(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	if idx := strings.Index(field, "["); idx >= 0 {
		return field[:idx]
	}
	return field
}
