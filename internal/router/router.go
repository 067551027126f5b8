// Package router builds the echo instance: global middleware in order,
// system routes and the authenticated /api/v1 group.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/handler"
	"github.com/deppfellow/dna-testing-api/internal/middleware"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
)

func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	var versions middleware.UserVersionReader
	if services.Auth != nil {
		versions = services.Auth
	}
	middlewares := middleware.NewMiddlewares(s, versions)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// The outer Recover covers the middleware below it, the inner one the
	// handlers. The rate limiter sits inside the loggers so a 429 is logged.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Global.Recover(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RequestLog.Capture(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h, s.Config.App.DocsPath)

	v1 := router.Group("/api/v1", middlewares.Auth.RequireAuth)
	registerReviewRoutes(v1, h)
	registerPaymentRoutes(v1, h)
	registerLogRoutes(v1, h, middlewares.Auth)

	return router
}

func registerReviewRoutes(g *echo.Group, h *handler.Handlers) {
	reviews := g.Group("/reviews")

	reviews.POST("", handler.Handle(h.Reviews.Handler, h.Reviews.CreateReview, http.StatusCreated, &model.CreateReviewRequest{}))
	reviews.PUT("/:id", handler.Handle(h.Reviews.Handler, h.Reviews.UpdateReview, http.StatusOK, &model.UpdateReviewRequest{}))
}

func registerPaymentRoutes(g *echo.Group, h *handler.Handlers) {
	payments := g.Group("/sample-payments")

	payments.POST("", handler.Handle(h.Payments.Handler, h.Payments.CreatePayment, http.StatusCreated, &model.CreateSamplePaymentRequest{}))
	payments.POST("/:id/receipt",
		handler.Handle(h.Payments.Handler, h.Payments.UploadReceipt, http.StatusOK, &model.UploadReceiptRequest{}),
		middleware.SingleFile(handler.ReceiptField, model.MaxReceiptSize),
	)
	payments.GET("/:id/receipt", handler.HandleFile(h.Payments.Handler, h.Payments.DownloadReceipt, http.StatusOK, &model.UploadReceiptRequest{}))
}

func registerLogRoutes(g *echo.Group, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	logs := g.Group("/logs", auth.RequireRole(model.RoleAdmin, model.RoleManager))

	logs.GET("/statistics", handler.Handle(h.Logs.Handler, h.Logs.GetStatistics, http.StatusOK, &model.GetLogStatisticsRequest{}))
}
