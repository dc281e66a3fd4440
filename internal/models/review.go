package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	ReviewCommentMinLen     = 10
	ReviewCommentMaxLen     = 1000
	HighQualityThreshold    = 80
	VerificationBookingConf = "booking_confirmed"
)

// Review is one client's evaluation of a completed job. QualityScore
// and IsHighQuality are recomputed on every save from the fields
// below; the same inputs always yield the same score.
type Review struct {
	BaseModel
	ReviewerID string `gorm:"not null;index;uniqueIndex:idx_reviews_reviewer_job" json:"reviewer_id"` // client
	RevieweeID string `gorm:"not null;index" json:"reviewee_id"`                                      // artist
	JobID      string `gorm:"not null;index;uniqueIndex:idx_reviews_reviewer_job" json:"job_id"`

	RatingOverall   int            `gorm:"not null;check:rating_overall >= 1 AND rating_overall <= 5" json:"rating_overall"`
	RatingBreakdown datatypes.JSON `gorm:"type:jsonb" json:"rating_breakdown,omitempty"` // {"professionalism": 5, ...} each 1..5
	Comment         string         `json:"comment"`

	WouldRecommend *bool `json:"would_recommend,omitempty"`
	WouldHireAgain *bool `json:"would_hire_again,omitempty"`

	Images datatypes.JSON `gorm:"type:jsonb" json:"images,omitempty"` // opaque URLs from file storage

	Status             ReviewStatus `gorm:"type:varchar(20);default:'submitted';index" json:"status"`
	QualityScore       int          `gorm:"default:0" json:"quality_score"`
	IsHighQuality      bool         `gorm:"default:false" json:"is_high_quality"`
	IsVerified         bool         `gorm:"default:false" json:"is_verified"`
	VerificationMethod string       `json:"verification_method,omitempty"`

	ModeratorID     *string    `json:"moderator_id,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at,omitempty"`
	ModerationNotes string     `json:"moderation_notes,omitempty"`

	Flags datatypes.JSON `gorm:"type:jsonb" json:"-"` // [{"reporter_id", "type", "reason", "at"}]

	// Relations
	Reviewer User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee User `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`
	Job      Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
}

// ReviewFlag is one report against a published review.
type ReviewFlag struct {
	ReporterID string    `json:"reporter_id"`
	Type       string    `json:"type"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

// ComputeQualityScore derives the 0..100 completeness score:
// 30 for the overall rating, up to 25 for comment length, 3 per rated
// breakdown category (max 20), up to 15 for images, 5 per experience
// flag. Capped at 100.
func (r *Review) ComputeQualityScore() int {
	score := 0

	if r.RatingOverall >= 1 {
		score += 30
	}

	switch n := len([]rune(r.Comment)); {
	case n >= 50:
		score += 25
	case n >= 25:
		score += 15
	case n >= ReviewCommentMinLen:
		score += 10
	}

	if breakdown := r.BreakdownCount(); breakdown > 0 {
		pts := breakdown * 3
		if pts > 20 {
			pts = 20
		}
		score += pts
	}

	if images := r.ImageCount(); images > 0 {
		score += 10
		if images > 1 {
			score += 5
		}
	}

	if r.WouldRecommend != nil {
		score += 5
	}
	if r.WouldHireAgain != nil {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// RecomputeQuality refreshes the derived quality fields. Idempotent
// for unchanged input.
func (r *Review) RecomputeQuality() {
	r.QualityScore = r.ComputeQualityScore()
	r.IsHighQuality = r.QualityScore >= HighQualityThreshold
}

// ShouldAutoPublish reports whether a submitted review clears the
// auto-publication gate.
func (r *Review) ShouldAutoPublish() bool {
	return r.Status == ReviewStatusSubmitted && r.IsHighQuality && r.IsVerified
}

// BreakdownCount returns how many per-category ratings were given.
func (r *Review) BreakdownCount() int {
	if len(r.RatingBreakdown) == 0 {
		return 0
	}
	var breakdown map[string]int
	if err := json.Unmarshal(r.RatingBreakdown, &breakdown); err != nil {
		return 0
	}
	return len(breakdown)
}

// ImageCount returns how many image URLs are attached.
func (r *Review) ImageCount() int {
	if len(r.Images) == 0 {
		return 0
	}
	var images []string
	if err := json.Unmarshal(r.Images, &images); err != nil {
		return 0
	}
	return len(images)
}

// FlagList decodes the accumulated flags.
func (r *Review) FlagList() []ReviewFlag {
	if len(r.Flags) == 0 {
		return nil
	}
	var flags []ReviewFlag
	if err := json.Unmarshal(r.Flags, &flags); err != nil {
		return nil
	}
	return flags
}

// AppendFlag adds one flag record to the JSONB list.
func (r *Review) AppendFlag(flag ReviewFlag) error {
	flags := append(r.FlagList(), flag)
	raw, err := json.Marshal(flags)
	if err != nil {
		return err
	}
	r.Flags = datatypes.JSON(raw)
	return nil
}
