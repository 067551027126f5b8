// Package job runs background work on Asynq.
//
// Producers enqueue tasks through JobService; the worker side (Start)
// records request logs and sends notification emails.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dna-testing-api/internal/config"
)

// Queue names, weighted 6:3:1 by the worker.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService holds the Asynq client (enqueue) and server (workers).
type JobService struct {
	Client *asynq.Client

	server   *asynq.Server
	enqueuer enqueuer
	logger   *zerolog.Logger

	emailClient       EmailSender
	requestLogs       RequestLogStore
	notificationEmail string
}

// NewJobService creates a JobService backed by the Redis from cfg.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client:   client,
		server:   server,
		enqueuer: client,
		logger:   logger,
	}
}

// Start registers the task handlers and starts the workers. It does not
// block. InitHandlers must be called first.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.mux()); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	return nil
}

// Stop waits for in-flight tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

func (j *JobService) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRequestLog, j.handleRequestLogTask)
	mux.HandleFunc(TaskPaymentNotification, j.handlePaymentNotificationTask)
	return mux
}

func (j *JobService) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("type", task.Type()).
		Str("queue", info.Queue).
		Msg("task enqueued")

	return nil
}

// asynqLogger routes asynq's own logs through zerolog.
type asynqLogger struct {
	logger zerolog.Logger
}

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
