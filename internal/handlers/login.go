package handlers

import (
	"net/http"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/views/pages"
)

const loginFailedMessage = "We were unable to sign you in. Please try again."

// Login renders the authentication view and processes sign-in submissions.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	applog.Debug(r.Context(), "handling login request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			applog.Debug(r.Context(), "active session detected, redirecting to app")
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderLogin(w, r, message, "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		form := forms.LoginForm{
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
		if err := forms.Validate(&form); err != nil {
			applog.Debug(r.Context(), "login form rejected", "error", err)
			renderLogin(w, r, "Email and password are required.", form.Email)
			return
		}

		if !authenticate(w, r, form.Email, form.Password) {
			applog.Debug(r.Context(), "authentication failed", "email", form.Email)
			message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if message == "" {
				message = loginFailedMessage
			}
			renderLogin(w, r, message, form.Email)
			return
		}

		applog.Info(r.Context(), "user signed in", "email", form.Email)
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	if isHTMX(r) {
		renderComponent(w, r, pages.LoginPartial(message, email))
		return
	}
	renderComponent(w, r, pages.Login(message, email))
}
