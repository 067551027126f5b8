// Package handler is the HTTP layer between the router and the services.
//
// Handlers bind and validate requests through the validation package, read
// the authenticated user and uploaded files from the echo context, call the
// service layer and return any error to the global error handler.
package handler

import (
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
)

type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Index    *IndexHandler
	Reviews  *ReviewHandler
	Payments *PaymentHandler
	Logs     *LogHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Index:    NewIndexHandler(s),
		Reviews:  NewReviewHandler(s, services.Reviews),
		Payments: NewPaymentHandler(s, services.Payments),
		Logs:     NewLogHandler(s, services.Logs),
	}
}
