package dto

import (
	"time"

	"artbook_backend/internal/models"
)

type SubmitProposalRequest struct {
	Message           string  `json:"message" binding:"required" validate:"required,min=50,max=1000"`
	Price             float64 `json:"price" binding:"required" validate:"required,min=10"`
	Currency          string  `json:"currency" validate:"omitempty,len=3"`
	EstimatedDuration string  `json:"estimated_duration" validate:"max=100"`
}

type UpdateProposalRequest struct {
	Message           *string  `json:"message,omitempty" validate:"omitempty,min=50,max=1000"`
	Price             *float64 `json:"price,omitempty" validate:"omitempty,min=10"`
	EstimatedDuration *string  `json:"estimated_duration,omitempty" validate:"omitempty,max=100"`
}

type RejectProposalRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

type ProposalSummary struct {
	ID         string                `json:"id"`
	ArtistID   string                `json:"artist_id"`
	ArtistName string                `json:"artist_name,omitempty"`
	Price      float64               `json:"price"`
	Currency   string                `json:"currency"`
	Status     models.ProposalStatus `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
}

type ProposalResponse struct {
	ID                string                `json:"id"`
	JobID             string                `json:"job_id"`
	ArtistID          string                `json:"artist_id"`
	Message           string                `json:"message"`
	Price             float64               `json:"price"`
	Currency          string                `json:"currency"`
	EstimatedDuration string                `json:"estimated_duration,omitempty"`
	Status            models.ProposalStatus `json:"status"`
	ResponseMessage   string                `json:"response_message,omitempty"`
	RespondedBy       *string               `json:"responded_by,omitempty"`
	RespondedAt       *time.Time            `json:"responded_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}
