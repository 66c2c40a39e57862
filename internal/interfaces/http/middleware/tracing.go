package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig configures request tracing
type TracingConfig struct {
	ServiceName string
	// Provider defaults to the global tracer provider
	Provider trace.TracerProvider
	// Propagator defaults to the global text map propagator
	Propagator propagation.TextMapPropagator
}

// Tracing opens a server span per request (named after the route pattern)
// and annotates it with the request ID, the authenticated user and the
// response outcome once the handlers have run.
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	var opts []otelgin.Option
	if cfg.Provider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.Provider))
	}
	if cfg.Propagator != nil {
		opts = append(opts, otelgin.WithPropagators(cfg.Propagator))
	}
	return []gin.HandlerFunc{otelgin.Middleware(cfg.ServiceName, opts...), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if userID := GetJWTUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
	if role := GetJWTRole(c); role != "" {
		span.SetAttributes(attribute.String("user_role", role))
	}

	if status := c.Writer.Status(); status >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
