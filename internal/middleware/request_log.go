package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

const requestLogEnqueueTimeout = 2 * time.Second

// RequestLogRecorder schedules a served request for persistence.
type RequestLogRecorder interface {
	EnqueueRequestLog(ctx context.Context, entry *model.RequestLog) error
}

// RequestLogMiddleware records every served API request for the log
// statistics endpoint.
type RequestLogMiddleware struct {
	server   *server.Server
	recorder RequestLogRecorder
}

func NewRequestLogMiddleware(s *server.Server, recorder RequestLogRecorder) *RequestLogMiddleware {
	return &RequestLogMiddleware{
		server:   s,
		recorder: recorder,
	}
}

func skipRequestLog(path string) bool {
	return path == "/status" || strings.HasPrefix(path, "/static")
}

// Capture enqueues a request log after the handler has run. Enqueue
// failures are logged and never change the response.
func (rl *RequestLogMiddleware) Capture() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.recorder == nil || skipRequestLog(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}

			req := c.Request()
			entry := &model.RequestLog{
				ID:        uuid.New(),
				RequestID: GetRequestID(c),
				Method:    req.Method,
				Path:      req.URL.Path,
				Route:     c.Path(),
				Status:    status,
				LatencyMs: float64(latency.Microseconds()) / 1000,
				IP:        c.RealIP(),
				UserAgent: req.UserAgent(),
				CreatedAt: start.UTC(),
			}
			if userID := GetUserID(c); userID != "" {
				entry.UserID = &userID
			}

			ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), requestLogEnqueueTimeout)
			defer cancel()

			if enqueueErr := rl.recorder.EnqueueRequestLog(ctx, entry); enqueueErr != nil {
				GetLogger(c).Error().
					Err(enqueueErr).
					Str("function", "RequestLog").
					Msg("failed to enqueue request log")
			}

			return err
		}
	}
}
