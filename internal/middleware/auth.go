package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

// UserVersionReader looks up the version stored for a user.
type UserVersionReader interface {
	GetUserVersion(ctx context.Context, userID string) (int, error)
}

// AuthMiddleware authenticates Clerk bearer tokens and enforces roles.
type AuthMiddleware struct {
	server   *server.Server
	versions UserVersionReader
}

func NewAuthMiddleware(s *server.Server, versions UserVersionReader) *AuthMiddleware {
	return &AuthMiddleware{
		server:   s,
		versions: versions,
	}
}

// RequireAuth verifies the Authorization header with Clerk and attaches the
// resulting model.AuthUser to the context. Missing or invalid tokens get a
// 401.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		))(
		func(c echo.Context) error {
			claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
			if !ok {
				GetLogger(c).Warn().
					Str("function", "RequireAuth").
					Msg("could not get session claims from context")

				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			auth.attachUser(c, userFromClaims(claims))

			return next(c)
		})
}

// writeUnauthorized runs outside echo, so it encodes the error body itself.
func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireAuth").
		Str("request_id", r.Header.Get(RequestIDHeader)).
		Msg("rejected invalid session token")
}

func userFromClaims(claims *clerk.SessionClaims) *model.AuthUser {
	return &model.AuthUser{
		ID:   claims.Subject,
		Role: model.ParseRole(claims.ActiveOrganizationRole),
	}
}

// attachUser resolves the user's version and publishes the user to the
// echo context, the request logger and the tracing attributes.
func (auth *AuthMiddleware) attachUser(c echo.Context, user *model.AuthUser) {
	if auth.versions != nil {
		version, err := auth.versions.GetUserVersion(c.Request().Context(), user.ID)
		if err != nil {
			GetLogger(c).Error().Err(err).Str("user_id", user.ID).Msg("failed to read user version")
		}
		user.Version = version
	}

	c.Set(AuthUserKey, user)
	c.Set(UserIDKey, user.ID)
	c.Set(UserRoleKey, string(user.Role))

	setLogger(c, withUser(*GetLogger(c), user))

	GetLogger(c).Debug().
		Str("function", "RequireAuth").
		Int("user_version", user.Version).
		Msg("user authenticated successfully")
}

// RequireRole allows the request through only when the authenticated user
// holds one of roles. It must run after RequireAuth.
func (auth *AuthMiddleware) RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetAuthUser(c)
			if user == nil {
				return errs.NewUnauthorizedError("Unauthorized", false)
			}

			if !slices.Contains(roles, user.Role) {
				GetLogger(c).Warn().
					Str("function", "RequireRole").
					Msg("insufficient role")
				return errs.NewForbiddenError("You do not have permission to access this resource", false)
			}

			return next(c)
		}
	}
}
