package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
)

type ReviewHandler struct {
	Handler
	reviews *service.ReviewService
}

func NewReviewHandler(s *server.Server, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		Handler: NewHandler(s),
		reviews: reviews,
	}
}

// CreateReview godoc
//
//	@Summary	Create a review for an appointment
//	@Tags		Reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		model.CreateReviewRequest	true	"Review"
//	@Success	201		{object}	model.Review
//	@Failure	400		{object}	errs.HTTPError
//	@Failure	401		{object}	errs.HTTPError
//	@Failure	403		{object}	errs.HTTPError
//	@Router		/api/v1/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	user, err := authUser(c)
	if err != nil {
		return nil, err
	}

	return h.reviews.CreateReview(c.Request().Context(), user, req)
}

// UpdateReview godoc
//
//	@Summary	Update a review
//	@Tags		Reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Review ID"	format(uuid)
//	@Param		body	body		model.UpdateReviewRequest	true	"Review"
//	@Success	200		{object}	model.Review
//	@Failure	400		{object}	errs.HTTPError
//	@Failure	403		{object}	errs.HTTPError
//	@Failure	404		{object}	errs.HTTPError
//	@Router		/api/v1/reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c echo.Context, req *model.UpdateReviewRequest) (*model.Review, error) {
	user, err := authUser(c)
	if err != nil {
		return nil, err
	}

	return h.reviews.UpdateReview(c.Request().Context(), user, req)
}
