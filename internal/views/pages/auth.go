package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"larder/internal/views/layout"
)

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Layout("Sign in", false, LoginPartial(message, email))
}

// LoginPartial renders the sign-in form for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="auth" class="auth-card"><h1>Sign in</h1>`)
		h.message("auth-message", message)
		h.raw(`<form method="post" action="/login" hx-post="/login" hx-target="#auth" hx-swap="outerHTML">`)
		h.printf(`<label>Email <input type="email" name="email" value="%s" required autocomplete="email"></label>`, templ.EscapeString(email))
		h.raw(`<label>Password <input type="password" name="password" required autocomplete="current-password"></label>`)
		h.raw(`<button type="submit">Sign in</button></form>`)
		h.raw(`<p>No account yet? <a href="/signup">Create one</a></p></section>`)
		return h.err
	})
}

// Signup renders the full registration page.
func Signup(message, name, email string) templ.Component {
	return layout.Layout("Create account", false, SignupPartial(message, name, email))
}

// SignupPartial renders the registration form for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="auth" class="auth-card"><h1>Create account</h1>`)
		h.message("auth-message", message)
		h.raw(`<form method="post" action="/signup" hx-post="/signup" hx-target="#auth" hx-swap="outerHTML">`)
		h.printf(`<label>Name <input type="text" name="name" value="%s" autocomplete="name"></label>`, templ.EscapeString(name))
		h.printf(`<label>Email <input type="email" name="email" value="%s" required autocomplete="email"></label>`, templ.EscapeString(email))
		h.raw(`<label>Password <input type="password" name="password" required minlength="8" autocomplete="new-password"></label>`)
		h.raw(`<label>Confirm password <input type="password" name="confirm_password" required minlength="8" autocomplete="new-password"></label>`)
		h.raw(`<button type="submit">Create account</button></form>`)
		h.raw(`<p>Already registered? <a href="/login">Sign in</a></p></section>`)
		return h.err
	})
}
