package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeNewJob         = "new_job"
	NotificationTypeNewProposal    = "new_proposal"
	NotificationTypeProposalStatus = "proposal_status"
	NotificationTypeNewReview      = "new_review"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"`
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"` // {"job_id": "...", "proposal_id": "..."}
	IsRead  bool           `gorm:"default:false" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}
