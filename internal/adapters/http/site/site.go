// Package site serves the embedded map viewer.
package site

import (
	"context"
	"net/http"
)

// Prefix is where the viewer is mounted.
const Prefix = "/map/"

// Register attaches the embedded viewer routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("GET "+Prefix, http.StripPrefix(Prefix, http.FileServer(FS())))
	mux.Handle("GET /map", http.RedirectHandler(Prefix, http.StatusMovedPermanently))
}
