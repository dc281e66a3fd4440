package dto

import (
	"time"

	"artbook_backend/internal/models"
)

type CreateReviewRequest struct {
	JobID   string `json:"job_id" binding:"required" validate:"required"`
	Rating  int    `json:"rating" binding:"required" validate:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required" validate:"required,min=10,max=1000"`

	RatingBreakdown map[string]int `json:"rating_breakdown,omitempty" validate:"omitempty,dive,min=1,max=5"`
	WouldRecommend  *bool          `json:"would_recommend,omitempty"`
	WouldHireAgain  *bool          `json:"would_hire_again,omitempty"`
	Images          []string       `json:"images,omitempty" validate:"omitempty,dive,url"`

	VerificationMethod string `json:"verification_method,omitempty" validate:"omitempty,oneof=booking_confirmed manual none"`
}

type UpdateReviewRequest struct {
	Rating          *int           `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment         *string        `json:"comment,omitempty" validate:"omitempty,min=10,max=1000"`
	RatingBreakdown map[string]int `json:"rating_breakdown,omitempty" validate:"omitempty,dive,min=1,max=5"`
	WouldRecommend  *bool          `json:"would_recommend,omitempty"`
	WouldHireAgain  *bool          `json:"would_hire_again,omitempty"`
	Images          []string       `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type ModerateReviewRequest struct {
	Action string `json:"action" binding:"required" validate:"required,oneof=approve reject hide"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type FlagReviewRequest struct {
	Type   string `json:"type" binding:"required" validate:"required,oneof=spam offensive fake other"`
	Reason string `json:"reason" validate:"max=1000"`
}

type ReviewResponse struct {
	ID         string `json:"id"`
	ReviewerID string `json:"reviewer_id"`
	RevieweeID string `json:"reviewee_id"`
	JobID      string `json:"job_id"`

	Rating          int            `json:"rating"`
	RatingBreakdown map[string]int `json:"rating_breakdown,omitempty"`
	Comment         string         `json:"comment"`
	WouldRecommend  *bool          `json:"would_recommend,omitempty"`
	WouldHireAgain  *bool          `json:"would_hire_again,omitempty"`
	Images          []string       `json:"images,omitempty"`

	Status        models.ReviewStatus `json:"status"`
	QualityScore  int                 `json:"quality_score"`
	IsHighQuality bool                `json:"is_high_quality"`
	IsVerified    bool                `json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingResponse struct {
	ArtistID string  `json:"artist_id"`
	Average  float64 `json:"average"`
	Count    int64   `json:"count"`
}
