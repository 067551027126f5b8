package service

import (
	"context"
	"math"
	"time"

	"github.com/deppfellow/dna-testing-api/internal/model"
)

type RequestLogStatsStore interface {
	GetDailyStatistics(ctx context.Context, from, to *time.Time) ([]model.DailyLogStatistics, error)
}

type LogService struct {
	logs RequestLogStatsStore
}

func NewLogService(logs RequestLogStatsStore) *LogService {
	return &LogService{logs: logs}
}

func (s *LogService) GetStatistics(ctx context.Context, req *model.GetLogStatisticsRequest) (*model.LogStatistics, error) {
	from, to := req.Range()

	daily, err := s.logs.GetDailyStatistics(ctx, from, to)
	if err != nil {
		return nil, err
	}

	stats := Summarize(daily)
	stats.StartDate = from
	stats.EndDate = to
	return stats, nil
}

// Summarize folds daily buckets into overall totals. The average latency
// is weighted by each day's request count.
func Summarize(daily []model.DailyLogStatistics) *model.LogStatistics {
	stats := &model.LogStatistics{Daily: []model.DailyLogStatistics{}}

	var latencySum float64
	for _, day := range daily {
		stats.Total += day.Total
		stats.Success += day.Success
		stats.ClientErrors += day.ClientErrors
		stats.ServerErrors += day.ServerErrors
		latencySum += day.AverageLatencyMs * float64(day.Total)
		stats.Daily = append(stats.Daily, day)
	}

	if stats.Total > 0 {
		stats.AverageLatencyMs = math.Round(latencySum/float64(stats.Total)*100) / 100
	}

	return stats
}
