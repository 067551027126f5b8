package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
)

type LogHandler struct {
	Handler
	logs *service.LogService
}

func NewLogHandler(s *server.Server, logs *service.LogService) *LogHandler {
	return &LogHandler{
		Handler: NewHandler(s),
		logs:    logs,
	}
}

// GetStatistics godoc
//
//	@Summary	Aggregate request logs
//	@Tags		Logs
//	@Produce	json
//	@Security	BearerAuth
//	@Param		startDate	query		string	false	"ISO 8601 date or timestamp"
//	@Param		endDate		query		string	false	"ISO 8601 date or timestamp, a date covers the whole day"
//	@Success	200			{object}	model.LogStatistics
//	@Failure	400			{object}	errs.HTTPError
//	@Failure	403			{object}	errs.HTTPError
//	@Router		/api/v1/logs/statistics [get]
func (h *LogHandler) GetStatistics(c echo.Context, req *model.GetLogStatisticsRequest) (*model.LogStatistics, error) {
	return h.logs.GetStatistics(c.Request().Context(), req)
}
