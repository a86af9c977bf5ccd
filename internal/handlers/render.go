package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "larder/internal/log"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/app/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err, "path", r.URL.Path)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
