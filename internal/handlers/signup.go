package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/views/pages"
)

const signupFailedMessage = "We couldn't create your account right now. Please try again."

var signupFieldLabels = map[string]string{
	"email":            "Email",
	"name":             "Name",
	"password":         "Password",
	"confirm_password": "Password confirmation",
}

// Signup displays the account creation form and processes new registrations.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	applog.Debug(r.Context(), "handling signup request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", "", "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Debug(r.Context(), "registration dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse signup form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := forms.SignupForm{
			Name:     r.PostFormValue("name"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
			Confirm:  r.PostFormValue("confirm_password"),
		}
		if err := forms.Validate(&form); err != nil {
			applog.Debug(r.Context(), "signup form rejected", "error", err)
			renderSignup(w, r, signupMessage(err), form.Name, form.Email)
			return
		}

		if _, err := findUserByEmail(r, form.Email); err == nil {
			applog.Debug(r.Context(), "signup attempted with existing email", "email", form.Email)
			renderSignup(w, r, "An account with that email already exists.", form.Name, form.Email)
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Error(r.Context(), "failed to check existing user", "error", err)
			renderSignup(w, r, signupFailedMessage, form.Name, form.Email)
			return
		}

		user, err := createUser(r, form.Email, form.Name, form.Password)
		if err != nil {
			applog.Error(r.Context(), "failed to create user", "error", err)
			renderSignup(w, r, signupFailedMessage, form.Name, form.Email)
			return
		}

		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			renderSignup(w, r, "We couldn't sign you in after creating your account. Please try again.", form.Name, form.Email)
			return
		}

		applog.Info(r.Context(), "user registered", "userID", user.ID)
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func signupMessage(err error) string {
	for _, field := range []string{"email", "name", "password", "confirm_password"} {
		if message, ok := forms.FieldMessage(err, field); ok {
			return signupFieldLabels[field] + ": " + message
		}
	}
	return signupFailedMessage
}

func renderSignup(w http.ResponseWriter, r *http.Request, message, name, email string) {
	if isHTMX(r) {
		renderComponent(w, r, pages.SignupPartial(message, name, email))
		return
	}
	renderComponent(w, r, pages.Signup(message, name, email))
}
