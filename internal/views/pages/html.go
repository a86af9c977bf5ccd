// Package pages renders the sign-in, registration and dashboard screens.
package pages

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(markup string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, markup)
}

// printf formats markup; string arguments must already be escaped.
func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) message(class, text string) {
	if text == "" {
		return
	}
	h.printf(`<p class="%s" role="status">%s</p>`, class, templ.EscapeString(text))
}
