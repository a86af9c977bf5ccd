package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"larder/internal/views/layout"
)

// Dashboard renders the full workspace page.
func Dashboard(snapshot DashboardSnapshot) templ.Component {
	return layout.Layout("Shopping list", true, DashboardPartial(snapshot))
}

// DashboardPartial renders the shopping list section for HTMX swaps.
func DashboardPartial(snapshot DashboardSnapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="dashboard">`)
		h.printf(`<h1>%s</h1>`, templ.EscapeString(snapshot.Greeting()))
		h.printf(`<p class="summary"><span data-count="recipes">%d recipes</span> <span data-count="menus">%d menus</span></p>`, snapshot.RecipeCount, snapshot.MenuCount)
		h.message("flash", snapshot.Message)
		if !snapshot.HasShop {
			h.raw(`<p class="empty">No shopping list yet. Pick some menus to build one.</p></section>`)
			return h.err
		}
		renderShop(h, snapshot)
		h.raw(`</section>`)
		return h.err
	})
}

func renderShop(h *htmlWriter, snapshot DashboardSnapshot) {
	h.printf(`<h2>Shopping list <small data-version="%d">%d menus, %d left</small></h2>`, snapshot.ShopVersion, snapshot.ShopMenuCount, snapshot.Remaining())
	if len(snapshot.Rows) == 0 {
		h.raw(`<p class="empty">The selected menus need no ingredients.</p>`)
		return
	}
	h.raw(`<form method="post" action="/app/shop/purchases" hx-post="/app/shop/purchases" hx-target="#dashboard" hx-swap="outerHTML"><ul class="purchases">`)
	for _, row := range snapshot.Rows {
		checked := ""
		if row.Bought {
			checked = " checked"
		}
		h.printf(`<li><input type="hidden" name="ingredient" value="%d"><input type="hidden" name="bought-%d" value="off"><label><input type="checkbox" name="bought-%d" value="on"%s> <span class="name">%s</span> <span class="value">%s</span></label></li>`,
			row.IngredientID, row.IngredientID, row.IngredientID, checked,
			templ.EscapeString(row.Name), templ.EscapeString(row.Display))
	}
	h.raw(`</ul><button type="submit">Save</button></form>`)
}
