package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry instruments every request with otelhttp: a server span plus
// duration, size and in-flight metrics.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("trackd-api",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)(next)
}
