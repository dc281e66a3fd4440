package models

import (
	"time"
)

const (
	ProposalMessageMinLen = 50
	ProposalMessageMaxLen = 1000
	ProposalMinPrice      = 10
)

// Proposal is one artist's bid against one job. There is exactly one
// per (job, artist) pair, enforced by a unique index, and proposals
// are never physically deleted.
type Proposal struct {
	BaseModel
	JobID    string `gorm:"not null;index;uniqueIndex:idx_proposals_job_artist" json:"job_id"`
	ArtistID string `gorm:"not null;index;uniqueIndex:idx_proposals_job_artist" json:"artist_id"`

	Message           string  `gorm:"not null" json:"message"`
	Currency          string  `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Price             float64 `gorm:"not null" json:"price"`
	EstimatedDuration string  `json:"estimated_duration"`

	Status ProposalStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Client response, filled on accept/reject.
	ResponseMessage string     `json:"response_message,omitempty"`
	RespondedBy     *string    `json:"responded_by,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`

	// Relations
	Job    Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Artist User `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}

// IsMutable reports whether the artist may still edit the bid.
func (p *Proposal) IsMutable() bool {
	return p.Status == ProposalStatusPending
}
