package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/middleware"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

const defaultHealthCheckTimeout = 5 * time.Second

var errNotConfigured = errors.New("not configured")

// HealthHandler reports liveness and the reachability of PostgreSQL and
// Redis for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]healthCheck `json:"checks"`
}

// CheckHealth godoc
//
//	@Summary	Health check
//	@Tags		App
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse
//	@Router		/status [get]
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]healthCheck{},
	}

	probes := map[string]func(ctx context.Context) error{
		"database": func(ctx context.Context) error {
			if h.server.DB == nil {
				return errNotConfigured
			}
			return h.server.DB.Pool.Ping(ctx)
		},
		"redis": func(ctx context.Context) error {
			if h.server.Redis == nil {
				return errNotConfigured
			}
			return h.server.Redis.Ping(ctx).Err()
		},
	}

	for name, probe := range probes {
		if !h.checkEnabled(name) {
			continue
		}

		check := h.runCheck(c.Request().Context(), name, probe)
		response.Checks[name] = check

		if check.Status != "healthy" {
			response.Status = "unhealthy"
			logger.Error().
				Str("check", name).
				Str("error", check.Error).
				Str("response_time", check.ResponseTime).
				Msg("health check failed")
		}
	}

	if response.Status != "healthy" {
		h.recordFailure("overall", "overall_unhealthy", time.Since(start), "")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkEnabled(name string) bool {
	obs := h.server.Config.Observability
	if obs == nil {
		return true
	}
	return obs.HealthCheckEnabled(name)
}

func (h *HealthHandler) runCheck(ctx context.Context, name string, probe func(ctx context.Context) error) healthCheck {
	timeout := defaultHealthCheckTimeout
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.recordFailure(name, name+"_unhealthy", elapsed, err.Error())
		return healthCheck{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return healthCheck{Status: "healthy", ResponseTime: elapsed.String()}
}

func (h *HealthHandler) recordFailure(checkType, errorType string, elapsed time.Duration, message string) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       errorType,
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    message,
	})
}
