// Package repository holds the SQL for every table and maps rows onto the
// model types.
//
// Errors are returned annotated with their table (sqlerr.WithTable) so the
// global error handler can turn a missing row into "Review not found".
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/dna-testing-api/internal/server"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories groups every repository.
type Repositories struct {
	Reviews     *ReviewRepository
	Payments    *PaymentRepository
	RequestLogs *RequestLogRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Reviews:     NewReviewRepository(s.DB.Pool),
		Payments:    NewPaymentRepository(s.DB.Pool),
		RequestLogs: NewRequestLogRepository(s.DB.Pool),
	}
}
