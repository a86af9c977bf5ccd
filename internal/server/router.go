package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"larder/internal/handlers"
	applog "larder/internal/log"
	"larder/internal/metrics"
)

func newRouter(m *metrics.Metrics) *mux.Router {
	router := mux.NewRouter()
	applog.Debug(context.Background(), "registering http routes")

	if m != nil {
		router.Use(m.Middleware)
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", handlers.Health).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/login", handlers.Login).Methods(http.MethodGet, http.MethodHead, http.MethodPost)
	router.HandleFunc("/signup", handlers.Signup).Methods(http.MethodGet, http.MethodHead, http.MethodPost)
	router.HandleFunc("/logout", handlers.Logout).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/", handlers.Home).Methods(http.MethodGet)

	app := router.PathPrefix("/app").Subrouter()
	app.Use(handlers.RequireAuthentication)
	app.HandleFunc("", handlers.Dashboard).Methods(http.MethodGet)
	app.HandleFunc("/", handlers.Dashboard).Methods(http.MethodGet)
	app.HandleFunc("/shop/purchases", handlers.ShopPurchases).Methods(http.MethodPost)

	api := app.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ingredients", handlers.ListIngredients).Methods(http.MethodGet)
	api.HandleFunc("/ingredients", handlers.CreateIngredient).Methods(http.MethodPost)
	api.HandleFunc("/ingredients/{id:[0-9]+}", handlers.ShowIngredient).Methods(http.MethodGet)
	api.HandleFunc("/ingredients/{id:[0-9]+}", handlers.UpdateIngredient).Methods(http.MethodPut)
	api.HandleFunc("/ingredients/{id:[0-9]+}", handlers.DeleteIngredient).Methods(http.MethodDelete)

	api.HandleFunc("/recipes", handlers.ListRecipes).Methods(http.MethodGet)
	api.HandleFunc("/recipes", handlers.CreateRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/import", handlers.ImportRecipe).Methods(http.MethodPost)
	api.HandleFunc("/recipes/{id:[0-9]+}", handlers.ShowRecipe).Methods(http.MethodGet)
	api.HandleFunc("/recipes/{id:[0-9]+}", handlers.UpdateRecipe).Methods(http.MethodPut)
	api.HandleFunc("/recipes/{id:[0-9]+}", handlers.DeleteRecipe).Methods(http.MethodDelete)

	api.HandleFunc("/menus", handlers.ListMenus).Methods(http.MethodGet)
	api.HandleFunc("/menus", handlers.CreateMenu).Methods(http.MethodPost)
	api.HandleFunc("/menus/{id:[0-9]+}", handlers.ShowMenu).Methods(http.MethodGet)
	api.HandleFunc("/menus/{id:[0-9]+}", handlers.UpdateMenu).Methods(http.MethodPut)
	api.HandleFunc("/menus/{id:[0-9]+}", handlers.DeleteMenu).Methods(http.MethodDelete)

	api.HandleFunc("/shop", handlers.ShowShop).Methods(http.MethodGet)
	api.HandleFunc("/shop", handlers.CreateShop).Methods(http.MethodPost)
	api.HandleFunc("/shop", handlers.UpdateShop).Methods(http.MethodPut)
	api.HandleFunc("/shop", handlers.DeleteShop).Methods(http.MethodDelete)
	api.HandleFunc("/shop/purchases", handlers.UpdatePurchases).Methods(http.MethodPatch)

	applog.Debug(context.Background(), "http routes registered", "metrics", m != nil)
	return router
}
