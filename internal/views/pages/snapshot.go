package pages

import (
	"fmt"

	"larder/internal/planner"
)

// ShopRow is one line of the rendered shopping list.
type ShopRow struct {
	IngredientID uint
	Name         string
	Display      string
	Bought       bool
}

// DashboardSnapshot aggregates what the dashboard shows for a user.
type DashboardSnapshot struct {
	UserName      string
	Message       string
	HasShop       bool
	ShopVersion   int
	ShopMenuCount int
	Rows          []ShopRow
	MenuCount     int
	RecipeCount   int
}

// EmptyDashboardSnapshot returns a snapshot for a user without a shop.
func EmptyDashboardSnapshot(userName string) DashboardSnapshot {
	return DashboardSnapshot{UserName: userName, Rows: []ShopRow{}}
}

// WithShop returns a copy of s listing the shop's purchase lines in order.
func (s DashboardSnapshot) WithShop(version, menus int, lines []planner.PurchaseLine) DashboardSnapshot {
	rows := make([]ShopRow, 0, len(lines))
	for _, line := range lines {
		name := line.Ingredient.Name
		if name == "" {
			name = fmt.Sprintf("Ingredient #%d", line.Ingredient.ID)
		}
		rows = append(rows, ShopRow{
			IngredientID: line.Ingredient.ID,
			Name:         name,
			Display:      planner.FormatValue(line.Value, line.Ingredient.Unit),
			Bought:       line.Bought,
		})
	}
	s.HasShop = true
	s.ShopVersion = version
	s.ShopMenuCount = menus
	s.Rows = rows
	return s
}

// Remaining counts the rows not yet bought.
func (s DashboardSnapshot) Remaining() int {
	remaining := 0
	for _, row := range s.Rows {
		if !row.Bought {
			remaining++
		}
	}
	return remaining
}

// Greeting addresses the signed-in user.
func (s DashboardSnapshot) Greeting() string {
	if s.UserName == "" {
		return "Welcome back"
	}
	return "Welcome back, " + s.UserName
}
