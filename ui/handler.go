// Package ui serves the profile onboarding page.
package ui

import (
	"io/fs"
	"net/http"
)

// Handler serves the UI files. Unknown paths fall back to index.html.
func Handler() http.Handler {
	return handlerFor(DistFS())
}

func handlerFor(dist fs.FS) http.Handler {
	files := http.FileServerFS(dist)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[1:]
		if name != "" {
			if _, err := fs.Stat(dist, name); err != nil {
				http.ServeFileFS(w, r, dist, "index.html")
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
