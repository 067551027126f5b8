package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/redis/go-redis/v9"

	"github.com/deppfellow/dna-testing-api/internal/server"
)

// UserVersionKeyPrefix prefixes the Redis key holding a user's version.
const UserVersionKeyPrefix = "auth:user_version:"

func UserVersionKey(userID string) string {
	return UserVersionKeyPrefix + userID
}

type versionStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// AuthService configures Clerk and reads per-user versions from Redis.
//
// The counter under UserVersionKey is incremented by whatever revokes a
// user's access (e.g. `redis-cli INCR auth:user_version:<id>` from the
// admin tooling); this service only reads it.
type AuthService struct {
	redis versionStore
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)

	service := &AuthService{}
	if s.Redis != nil {
		service.redis = s.Redis
	}
	return service
}

// GetUserVersion returns the stored version for userID, or 0 when none
// has been recorded.
func (a *AuthService) GetUserVersion(ctx context.Context, userID string) (int, error) {
	if a.redis == nil {
		return 0, nil
	}

	raw, err := a.redis.Get(ctx, UserVersionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read user version: %w", err)
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid user version %q: %w", raw, err)
	}
	return version, nil
}

