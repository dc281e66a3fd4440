package dto

import (
	"time"

	"artbook_backend/internal/models"
)

type CreateJobRequest struct {
	Title       string    `json:"title" binding:"required" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Category    string    `json:"category" binding:"required" validate:"required,max=50"`
	City        string    `json:"city" validate:"max=100"`
	EventDate   time.Time `json:"event_date" binding:"required" validate:"required"`

	BudgetMin float64 `json:"budget_min" binding:"required" validate:"required,gt=0"`
	BudgetMax float64 `json:"budget_max" binding:"required" validate:"required,gtfield=BudgetMin"`
	Currency  string  `json:"currency" validate:"omitempty,len=3"`

	MaxApplications     int        `json:"max_applications" validate:"omitempty,min=1,max=20"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Images              []string   `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type UpdateJobRequest struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description         *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category            *string    `json:"category,omitempty" validate:"omitempty,max=50"`
	City                *string    `json:"city,omitempty" validate:"omitempty,max=100"`
	EventDate           *time.Time `json:"event_date,omitempty"`
	BudgetMin           *float64   `json:"budget_min,omitempty" validate:"omitempty,gt=0"`
	BudgetMax           *float64   `json:"budget_max,omitempty" validate:"omitempty,gt=0"`
	MaxApplications     *int       `json:"max_applications,omitempty" validate:"omitempty,min=1,max=20"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	AcceptingApps       *bool      `json:"accepting_applications,omitempty"`
}

// JobResponse is the read projection. Status carries the effective
// status, so an open job past its event date reads as expired.
type JobResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	EventDate   time.Time `json:"event_date"`

	BudgetMin float64 `json:"budget_min"`
	BudgetMax float64 `json:"budget_max"`
	Currency  string  `json:"currency"`

	Status                models.JobStatus `json:"status"`
	AcceptingApplications bool             `json:"accepting_applications"`
	MaxApplications       int              `json:"max_applications"`
	ProposalsCount        int              `json:"proposals_count"`

	AssignedArtistID   *string `json:"assigned_artist_id,omitempty"`
	SelectedProposalID *string `json:"selected_proposal_id,omitempty"`

	ApplicationDeadline time.Time `json:"application_deadline"`
	ExpiresAt           time.Time `json:"expires_at"`
	Views               int       `json:"views"`
	Images              []string  `json:"images,omitempty"`

	Proposals []ProposalSummary `json:"proposals,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
