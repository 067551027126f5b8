// Package service contains the business logic.
//
// It sits between the handler and repository layers: handlers pass in
// validated requests and the authenticated user, services enforce the
// ownership rules and call the repositories.
package service

import (
	"github.com/deppfellow/dna-testing-api/internal/lib/job"
	"github.com/deppfellow/dna-testing-api/internal/repository"
	"github.com/deppfellow/dna-testing-api/internal/server"
)

type Services struct {
	Auth     *AuthService
	Job      *job.JobService
	Reviews  *ReviewService
	Payments *PaymentService
	Logs     *LogService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	return &Services{
		Job:      s.Job,
		Auth:     authService,
		Reviews:  NewReviewService(repos.Reviews),
		Payments: NewPaymentService(repos.Payments, s.Job),
		Logs:     NewLogService(repos.RequestLogs),
	}, nil
}
