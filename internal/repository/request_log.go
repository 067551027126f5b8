package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/dna-testing-api/internal/model"
)

type RequestLogRepository struct {
	db DBTX
}

func NewRequestLogRepository(db DBTX) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

func (r *RequestLogRepository) CreateRequestLog(ctx context.Context, entry *model.RequestLog) error {
	stmt := `
		INSERT INTO request_logs (id, request_id, method, path, route, status, latency_ms, ip, user_agent, user_id, created_at)
		VALUES (@id, @request_id, @method, @path, @route, @status, @latency_ms, @ip, @user_agent, @user_id, @created_at)
		ON CONFLICT (id) DO NOTHING
	`

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{
		"id":         id,
		"request_id": entry.RequestID,
		"method":     entry.Method,
		"path":       entry.Path,
		"route":      entry.Route,
		"status":     entry.Status,
		"latency_ms": entry.LatencyMs,
		"ip":         entry.IP,
		"user_agent": entry.UserAgent,
		"user_id":    entry.UserID,
		"created_at": createdAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}

	return nil
}

// GetDailyStatistics aggregates request logs per UTC day within the
// inclusive bounds. Nil bounds are open.
func (r *RequestLogRepository) GetDailyStatistics(ctx context.Context, from, to *time.Time) ([]model.DailyLogStatistics, error) {
	stmt := `
		SELECT
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status < 400) AS success,
			COUNT(*) FILTER (WHERE status >= 400 AND status < 500) AS client_errors,
			COUNT(*) FILTER (WHERE status >= 500) AS server_errors,
			COALESCE(AVG(latency_ms), 0)::DOUBLE PRECISION AS average_latency_ms
		FROM request_logs
		WHERE (@from::TIMESTAMPTZ IS NULL OR created_at >= @from::TIMESTAMPTZ)
			AND (@to::TIMESTAMPTZ IS NULL OR created_at <= @to::TIMESTAMPTZ)
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"from": from,
		"to":   to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute request log statistics query: %w", err)
	}

	daily, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.DailyLogStatistics])
	if err != nil {
		return nil, fmt.Errorf("failed to collect request log statistics: %w", err)
	}

	return daily, nil
}
