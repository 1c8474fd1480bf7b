package middleware

import (
	"log"
	"net/http"
	"time"
)

var allowed = map[string]struct{}{
	"http://localhost:5173": {},
	"http://localhost:8081": {},
	"capacitor://localhost": {},
	"ionic://localhost":     {},
	"http://localhost":      {},
}

// CORSMiddleware echoes the origin back only if it is on the allow-list
// (the app shell's webview origins plus local dev servers).
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request in the same bracketed style as
// the rest of the core.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[httpapi] %s %s %dms", r.Method, r.URL.Path, time.Since(start).Milliseconds())
	})
}
