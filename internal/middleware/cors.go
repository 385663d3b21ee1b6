package middleware

import (
	"net/http"
	"strings"
)

// CORS POLICY:
// Reads are public — any origin may GET the campsite catalogue, so those
// routes answer with a wildcard. Writes carry credentials and are only
// allowed from the configured front-end origins, so those routes echo the
// origin back (a wildcard is invalid with credentials per the CORS spec)
// and only when it is on the allow-list.
//
// Both variants answer OPTIONS preflights themselves with a plain 200 —
// the preflight never reaches the auth gates, which is required: browsers
// send preflights without the Authorization header.

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Content-Type, Authorization"
)

// CORSAllowAll opens a route to every origin. For the public read routes.
func CORSAllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if r.Method == http.MethodOptions {
			preflight(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORSAllowList restricts a route to the configured origins, with
// credentials. An unlisted origin gets no CORS headers at all — the
// browser then blocks the response on its side; non-browser clients are
// unaffected, as with any CORS policy.
func CORSAllowList(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[strings.TrimRight(origin, "/")] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				// Caches must key on Origin or they'd serve one origin's
				// headers to another
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				preflight(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func preflight(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", corsMethods)
	w.Header().Set("Access-Control-Allow-Headers", corsHeaders)
	w.WriteHeader(http.StatusOK)
}
