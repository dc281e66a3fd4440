package models

import (
	"time"

	"gorm.io/datatypes"
)

// Defaults derived from the event date when the client does not set
// them explicitly.
const (
	DefaultApplicationWindow = 7 * 24 * time.Hour // deadline = eventDate - 7d
	DefaultExpiryGrace       = 24 * time.Hour     // expiresAt = eventDate + 1d
	MaxApplicationsCap       = 20
)

type Job struct {
	BaseModel
	ClientID    string `gorm:"not null;index" json:"client_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"index" json:"category"`
	City        string `json:"city"`

	EventDate time.Time `gorm:"not null" json:"event_date"`
	BudgetMin float64   `gorm:"not null" json:"budget_min"`
	BudgetMax float64   `gorm:"not null" json:"budget_max"`
	Currency  string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	Status                JobStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	AcceptingApplications bool      `gorm:"default:true" json:"accepting_applications"`
	MaxApplications       int       `gorm:"default:20" json:"max_applications"`
	ProposalsCount        int       `gorm:"default:0" json:"proposals_count"`

	// Set together on accept, or not at all.
	AssignedArtistID   *string `gorm:"index" json:"assigned_artist_id,omitempty"`
	SelectedProposalID *string `json:"selected_proposal_id,omitempty"`

	ApplicationDeadline time.Time `json:"application_deadline"`
	ExpiresAt           time.Time `json:"expires_at"`

	Views    int            `gorm:"default:0" json:"views"`
	ViewedBy datatypes.JSON `gorm:"type:jsonb" json:"-"` // [{"artist_id": "...", "at": "..."}]
	Images   datatypes.JSON `gorm:"type:jsonb" json:"images"`

	// Relations
	Client    User       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Proposals []Proposal `gorm:"foreignKey:JobID" json:"proposals,omitempty"`
}

// ApplyDefaults derives the application deadline and expiry from the
// event date when unset.
func (j *Job) ApplyDefaults() {
	if j.ApplicationDeadline.IsZero() {
		j.ApplicationDeadline = j.EventDate.Add(-DefaultApplicationWindow)
	}
	if j.ExpiresAt.IsZero() {
		j.ExpiresAt = j.EventDate.Add(DefaultExpiryGrace)
	}
	if j.MaxApplications <= 0 || j.MaxApplications > MaxApplicationsCap {
		j.MaxApplications = MaxApplicationsCap
	}
}

// EffectiveStatus is the status every read path must report: a job
// whose event date has passed while still open is expired, whether or
// not the sweep has persisted that yet.
func (j *Job) EffectiveStatus(now time.Time) JobStatus {
	if j.Status == JobStatusOpen && now.After(j.EventDate) {
		return JobStatusExpired
	}
	return j.Status
}

// CanAcceptProposals reports whether new proposals may be submitted
// right now. The per-artist uniqueness check lives in the service.
func (j *Job) CanAcceptProposals(now time.Time) bool {
	if j.EffectiveStatus(now) != JobStatusOpen {
		return false
	}
	if !j.AcceptingApplications {
		return false
	}
	if !now.Before(j.ApplicationDeadline) {
		return false
	}
	return j.ProposalsCount < j.MaxApplications
}

// IsAssignable reports whether the job is in a state from which an
// accept may transition it to assigned.
func (j *Job) IsAssignable(now time.Time) bool {
	s := j.EffectiveStatus(now)
	return s == JobStatusOpen || s == JobStatusInReview
}
