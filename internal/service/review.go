package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) (*model.Review, error)
	GetReviewByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	UpdateReview(ctx context.Context, review *model.Review) (*model.Review, error)
}

type ReviewService struct {
	reviews ReviewStore
}

func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// CreateReview records a review. The customer defaults to the caller and
// only staff may review on behalf of someone else.
func (s *ReviewService) CreateReview(ctx context.Context, user *model.AuthUser, req *model.CreateReviewRequest) (*model.Review, error) {
	customerID := req.CustomerID
	if customerID == "" {
		customerID = user.ID
	}

	if customerID != user.ID && !user.Role.IsStaff() {
		return nil, errs.NewForbiddenError("You can only review your own appointments", true)
	}

	return s.reviews.CreateReview(ctx, &model.Review{
		CustomerID:    customerID,
		AppointmentID: req.AppointmentID,
		Rating:        *req.Rating,
		Comment:       req.Comment,
		CreatedBy:     user.ID,
	})
}

// UpdateReview changes a review owned by the caller. Staff may edit any review.
func (s *ReviewService) UpdateReview(ctx context.Context, user *model.AuthUser, req *model.UpdateReviewRequest) (*model.Review, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewNotFoundError("Review not found", true, nil)
	}

	existing, err := s.reviews.GetReviewByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.CustomerID != user.ID && !user.Role.IsStaff() {
		return nil, errs.NewForbiddenError("You can only update your own reviews", true)
	}

	existing.AppointmentID = req.AppointmentID
	existing.Rating = *req.Rating
	existing.Comment = req.Comment

	return s.reviews.UpdateReview(ctx, existing)
}
