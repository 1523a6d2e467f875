package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

const panicResponse = `{"code":"INTERNAL_ERROR","message":"an internal error occurred"}`

// Recovery turns a handler panic into a 500 response. The panic value and
// stack go to the log only, never to the client.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(panicResponse))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
