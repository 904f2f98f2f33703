package httpmiddleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryProviders is the subset of the application telemetry the
// instrumentation needs. *app.Telemetry from go-faster/sdk satisfies it.
type TelemetryProviders interface {
	TracerProvider() trace.TracerProvider
	MeterProvider() metric.MeterProvider
}

// Instrument returns a middleware that traces every request via otelhttp
// and counts requests per method and path on the service meter.
func Instrument(serviceName string, t TelemetryProviders) Middleware {
	meter := t.MeterProvider().Meter(serviceName)
	requests, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of HTTP requests received"),
	)

	return func(next http.Handler) http.Handler {
		counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err == nil {
				requests.Add(r.Context(), 1, metric.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				))
			}
			next.ServeHTTP(w, r)
		})

		return otelhttp.NewHandler(counted, serviceName,
			otelhttp.WithTracerProvider(t.TracerProvider()),
			otelhttp.WithMeterProvider(t.MeterProvider()),
		)
	}
}
