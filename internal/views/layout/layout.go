// Package layout renders the HTML document shell shared by every page.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Nav is a link in the workspace header.
type Nav struct {
	Href  string
	Label string
}

var workspaceNav = []Nav{
	{Href: "/app", Label: "Shopping list"},
	{Href: "/logout", Label: "Sign out"},
}

// Layout wraps content in the document shell. Authenticated pages get the
// workspace navigation.
func Layout(title string, authenticated bool, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><script src="https://unpkg.com/htmx.org@1.9.12"></script></head><body hx-boost="true">`, templ.EscapeString(title)); err != nil {
			return err
		}
		if authenticated {
			if err := renderNav(w, workspaceNav); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<main id="content">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func renderNav(w io.Writer, links []Nav) error {
	if _, err := io.WriteString(w, `<nav class="workspace-nav"><span class="brand">larder</span><ul>`); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, templ.EscapeString(link.Href), templ.EscapeString(link.Label)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</ul></nav>`)
	return err
}
