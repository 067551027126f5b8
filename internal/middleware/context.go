package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dna-testing-api/internal/logger"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

// Echo context keys. Values stored under them are set once by middleware
// and treated as read-only afterwards.
const (
	UserIDKey        = "user_id"
	UserRoleKey      = "user_role"
	AuthUserKey      = "auth_user"
	UploadedFileKey  = "uploaded_file"
	UploadedFilesKey = "uploaded_files"
	LoggerKey        = "logger"
)

// ContextEnhancer attaches a request-scoped logger carrying request_id,
// method, path, ip, trace ids and, once known, the user.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if user := GetAuthUser(c); user != nil {
				contextLogger = withUser(contextLogger, user)
			}

			setLogger(c, contextLogger)

			return next(c)
		}
	}
}

func withUser(l zerolog.Logger, user *model.AuthUser) zerolog.Logger {
	return l.With().
		Str("user_id", user.ID).
		Str("user_role", string(user.Role)).
		Logger()
}

// setLogger stores l on the echo context and on the request context, where
// services pick it up through zerolog.Ctx.
func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// GetUserID returns the authenticated user's id, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetAuthUser returns the user attached by RequireAuth, or nil on routes
// without authentication.
func GetAuthUser(c echo.Context) *model.AuthUser {
	if user, ok := c.Get(AuthUserKey).(*model.AuthUser); ok {
		return user
	}
	return nil
}

// GetUploadedFile returns the file attached by SingleFile, or nil.
func GetUploadedFile(c echo.Context) *model.UploadedFile {
	if file, ok := c.Get(UploadedFileKey).(*model.UploadedFile); ok {
		return file
	}
	return nil
}

// GetUploadedFiles returns the files attached by MultipleFiles, or nil.
func GetUploadedFiles(c echo.Context) []*model.UploadedFile {
	if files, ok := c.Get(UploadedFilesKey).([]*model.UploadedFile); ok {
		return files
	}
	return nil
}

// GetLogger returns the request-scoped logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
