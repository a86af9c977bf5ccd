package handlers

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/store"
	"larder/internal/views/pages"
)

// Dashboard renders the shopping list and planning overview once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		redirectToLogin(w, r)
		return
	}

	snapshot, err := loadDashboard(r.Context(), userID, currentUserName(r))
	if err != nil {
		applog.Error(r.Context(), "failed to load dashboard", "error", err, "user", userID)
		http.Error(w, "unable to load dashboard", http.StatusInternalServerError)
		return
	}
	renderDashboard(w, r, snapshot)
}

// ShopPurchases handles the shopping list checklist form.
func ShopPurchases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID, ok := currentUserID(r)
	if !ok || database == nil {
		redirectToLogin(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse purchases form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	bought, err := forms.ParseBought(r.PostForm)
	if err != nil {
		applog.Debug(r.Context(), "purchases form rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := dataStore().SetBought(r.Context(), userID, bought); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, "shopping list not found", http.StatusNotFound)
		case errors.Is(err, store.ErrInvalidReference):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			applog.Error(r.Context(), "failed to update purchases", "error", err, "user", userID)
			http.Error(w, "unable to update purchases", http.StatusInternalServerError)
		}
		return
	}
	applog.Debug(r.Context(), "purchases updated", "user", userID, "entries", len(bought))

	if !isHTMX(r) {
		http.Redirect(w, r, "/app", http.StatusSeeOther)
		return
	}
	snapshot, err := loadDashboard(r.Context(), userID, currentUserName(r))
	if err != nil {
		applog.Error(r.Context(), "failed to reload dashboard", "error", err, "user", userID)
		http.Error(w, "unable to load dashboard", http.StatusInternalServerError)
		return
	}
	snapshot.Message = "Shopping list saved."
	renderComponent(w, r, pages.DashboardPartial(snapshot))
}

// loadDashboard gathers the shop summary and planning counts concurrently.
func loadDashboard(ctx context.Context, userID uint, userName string) (pages.DashboardSnapshot, error) {
	if database == nil {
		return pages.EmptyDashboardSnapshot(userName), nil
	}

	data := dataStore()
	var (
		summary *store.ShopSummary
		menus   int
		recipes int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		loaded, err := data.GetShop(groupCtx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		summary = loaded
		return err
	})
	group.Go(func() error {
		loaded, err := data.ListMenus(groupCtx, userID)
		menus = len(loaded)
		return err
	})
	group.Go(func() error {
		loaded, err := data.ListRecipes(groupCtx, userID)
		recipes = len(loaded)
		return err
	})
	if err := group.Wait(); err != nil {
		return pages.DashboardSnapshot{}, err
	}

	snapshot := pages.EmptyDashboardSnapshot(userName)
	snapshot.MenuCount = menus
	snapshot.RecipeCount = recipes
	if summary != nil {
		snapshot = snapshot.WithShop(summary.Shop.Version, len(summary.Shop.Menus), summary.Lines)
	}
	return snapshot, nil
}

func renderDashboard(w http.ResponseWriter, r *http.Request, snapshot pages.DashboardSnapshot) {
	if isHTMX(r) {
		renderComponent(w, r, pages.DashboardPartial(snapshot))
		return
	}
	renderComponent(w, r, pages.Dashboard(snapshot))
}
