package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

type IndexHandler struct {
	Handler
}

func NewIndexHandler(s *server.Server) *IndexHandler {
	return &IndexHandler{
		Handler: NewHandler(s),
	}
}

// Index godoc
//
//	@Summary	Service information
//	@Tags		App
//	@Produce	json
//	@Success	200	{object}	model.IndexResponse
//	@Router		/ [get]
func (h *IndexHandler) Index(c echo.Context, _ *model.EmptyRequest) (*model.IndexResponse, error) {
	return &model.IndexResponse{
		Message:       h.server.Config.App.Name,
		Version:       h.server.Config.App.Version,
		Documentation: h.server.Config.App.DocsPath,
	}, nil
}

// ApiDocs godoc
//
//	@Summary	Redirect to the API documentation
//	@Tags		App
//	@Success	302
//	@Router		/api-docs [get]
func (h *IndexHandler) ApiDocs(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.server.Config.App.DocsPath)
}
