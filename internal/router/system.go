package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/config"
	"github.com/deppfellow/dna-testing-api/internal/handler"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/static"
)

// registerSystemRoutes registers the routes outside the versioned API:
// index, docs, embedded static assets and the health check.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, docsPath string) {
	if docsPath == "" {
		docsPath = config.DefaultDocsPath
	}

	r.GET("/", handler.Handle(h.Index.Handler, h.Index.Index, http.StatusOK, &model.EmptyRequest{}))
	r.GET("/api-docs", h.Index.ApiDocs)

	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.Files)

	r.GET(docsPath, h.OpenAPI.ServeOpenAPIUI)
}
