package http

import (
	"net/http"
)

// InputValidation returns middleware that rejects oversized request lines
// before routing:
//   - URI path longer than 2KB -> 414
//   - raw query longer than 4KB -> 414 (long search queries)
func InputValidation() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > 2048 {
				writeRejection(w, http.StatusRequestURITooLong, `{"error":"URI too long"}`)
				return
			}
			if len(r.URL.RawQuery) > 4096 {
				writeRejection(w, http.StatusRequestURITooLong, `{"error":"query too long"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRejection(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
