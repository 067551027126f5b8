package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/dna-testing-api/internal/validation"
)

// GetLogStatisticsRequest filters the request log aggregation.
//
// Both bounds are optional. A date-only endDate covers that whole day.
type GetLogStatisticsRequest struct {
	StartDate string `query:"startDate" validate:"omitempty,isodate"`
	EndDate   string `query:"endDate" validate:"omitempty,isodate"`
}

func (r *GetLogStatisticsRequest) Validate() error {
	if err := validation.Validator().Struct(r); err != nil {
		return err
	}

	from, to := r.Range()
	if from != nil && to != nil && from.After(*to) {
		return validation.CustomValidationErrors{
			{Field: "endDate", Message: "must not be before startDate"},
		}
	}

	return nil
}

// Range returns the inclusive bounds described by the request. Missing
// bounds are nil.
func (r *GetLogStatisticsRequest) Range() (from, to *time.Time) {
	if t, ok := validation.ParseISODate(r.StartDate); ok {
		from = &t
	}

	if t, ok := validation.ParseISODate(r.EndDate); ok {
		if validation.IsDateOnly(r.EndDate) {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		to = &t
	}

	return from, to
}

// LogStatistics aggregates persisted request logs.
type LogStatistics struct {
	StartDate        *time.Time           `json:"start_date"`
	EndDate          *time.Time           `json:"end_date"`
	Total            int64                `json:"total"`
	Success          int64                `json:"success"`
	ClientErrors     int64                `json:"client_errors"`
	ServerErrors     int64                `json:"server_errors"`
	AverageLatencyMs float64              `json:"average_latency_ms"`
	Daily            []DailyLogStatistics `json:"daily"`
}

// DailyLogStatistics is one UTC day of LogStatistics.
type DailyLogStatistics struct {
	Date             string  `json:"date" db:"date"`
	Total            int64   `json:"total" db:"total"`
	Success          int64   `json:"success" db:"success"`
	ClientErrors     int64   `json:"client_errors" db:"client_errors"`
	ServerErrors     int64   `json:"server_errors" db:"server_errors"`
	AverageLatencyMs float64 `json:"average_latency_ms" db:"average_latency_ms"`
}

// RequestLog is one served HTTP request.
type RequestLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RequestID string    `json:"request_id" db:"request_id"`
	Method    string    `json:"method" db:"method"`
	Path      string    `json:"path" db:"path"`
	Route     string    `json:"route" db:"route"`
	Status    int       `json:"status" db:"status"`
	LatencyMs float64   `json:"latency_ms" db:"latency_ms"`
	IP        string    `json:"ip" db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	UserID    *string   `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
