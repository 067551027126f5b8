package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dna-testing-api/internal/config"
	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()

	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server: config.ServerConfig{
				Port:               "8080",
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          config.DefaultRateLimit,
				RateLimitBurst:     config.DefaultRateBurst,
			},
		},
		Logger: &logger,
	}
}

// newTestEcho returns an echo instance using the global error handler.
func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
