package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/dna-testing-api/internal/server"
)

// Middlewares bundles every middleware component so the router builds
// them once.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	RateLimit       *RateLimitMiddleware
	RequestLog      *RequestLogMiddleware
}

// NewMiddlewares builds the middleware bundle. versions backs the
// AuthUser.Version lookup; request logs go to s.Job when it is set.
func NewMiddlewares(s *server.Server, versions UserVersionReader) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	var recorder RequestLogRecorder
	if s.Job != nil {
		recorder = s.Job
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, versions),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
		RequestLog:      NewRequestLogMiddleware(s, recorder),
	}
}
