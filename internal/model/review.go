package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/dna-testing-api/internal/validation"
)

// CreateReviewRequest is the body of POST /reviews. CustomerID defaults to
// the caller.
type CreateReviewRequest struct {
	Rating        *float64 `json:"rating" validate:"required"`
	Comment       string   `json:"comment" validate:"required"`
	AppointmentID string   `json:"appointment_id" validate:"required"`
	CustomerID    string   `json:"customer_id" validate:"omitempty"`
}

func (r *CreateReviewRequest) Validate() error {
	return validation.Validator().Struct(r)
}

// UpdateReviewRequest replaces the rating, comment and appointment of the
// review named by the path id.
type UpdateReviewRequest struct {
	ID            string   `param:"id" json:"-" validate:"required,uuid"`
	Rating        *float64 `json:"rating" validate:"required"`
	Comment       string   `json:"comment" validate:"required"`
	AppointmentID string   `json:"appointment_id" validate:"required"`
}

func (r *UpdateReviewRequest) Validate() error {
	return validation.Validator().Struct(r)
}

// Review is a customer's feedback on an appointment.
type Review struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CustomerID    string    `json:"customer_id" db:"customer_id"`
	AppointmentID string    `json:"appointment_id" db:"appointment_id"`
	Rating        float64   `json:"rating" db:"rating"`
	Comment       string    `json:"comment" db:"comment"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
