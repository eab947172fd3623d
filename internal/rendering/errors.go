// Package rendering turns resume documents into paged HTML for the classic and modern templates.
package rendering

import (
	"errors"
	"fmt"
)

// RenderError reports markup that could not be produced. Page is 1-based; zero means the
// failure belongs to the whole document.
type RenderError struct {
	Template string
	Page     int
	Cause    error
}

func (e *RenderError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("render error: %s on page %d: %v", e.Template, e.Page, e.Cause)
	}
	return fmt.Sprintf("render error: %s: %v", e.Template, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// OnPage attributes a render failure to a 0-based page index.
func OnPage(err error, index int) error {
	var re *RenderError
	if errors.As(err, &re) {
		out := *re
		out.Page = index + 1
		return &out
	}
	return &RenderError{Template: "page", Page: index + 1, Cause: err}
}
