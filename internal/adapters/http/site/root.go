// Package site serves the embedded loan calculator page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the calculator page at / to mux. Paths not present in
// the embedded tree answer 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", http.FileServer(FS()))
}
