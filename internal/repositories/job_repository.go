package repositories

import (
	"errors"
	"time"

	"artbook_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	FindByClient(db *gorm.DB, clientID string) ([]models.Job, error)
	Update(db *gorm.DB, job *models.Job) error
	Delete(db *gorm.DB, id string) error

	RecordView(db *gorm.DB, jobID, viewerArtistID string, now time.Time) error
	IncrementProposalsCount(db *gorm.DB, jobID string) error
	AssignArtistCAS(db *gorm.DB, jobID, artistID, proposalID string) (bool, error)
	ExpireOverdue(db *gorm.DB, now time.Time) (int64, error)
}

type jobRepository struct{}

func NewJobRepository() JobRepository {
	return &jobRepository{}
}

func (r *jobRepository) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *jobRepository) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindByClient(db *gorm.DB, clientID string) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) Update(db *gorm.DB, job *models.Job) error {
	return db.Save(job).Error
}

func (r *jobRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// RecordView bumps the view counter and, for authenticated artists,
// appends a deduplicated viewed-by entry. Raw UPDATEs on purpose:
// high-frequency view traffic must not run model hooks or validation,
// and must not be blocked by unrelated constraint failures on legacy
// rows.
func (r *jobRepository) RecordView(db *gorm.DB, jobID, viewerArtistID string, now time.Time) error {
	if err := db.Exec(`UPDATE jobs SET views = views + 1 WHERE id = ?`, jobID).Error; err != nil {
		return err
	}

	if viewerArtistID == "" {
		return nil
	}

	return db.Exec(`
		UPDATE jobs
		SET viewed_by = COALESCE(viewed_by, '[]'::jsonb) ||
			jsonb_build_array(jsonb_build_object('artist_id', ?::text, 'at', ?::text))
		WHERE id = ?
		AND NOT COALESCE(viewed_by, '[]'::jsonb) @>
			jsonb_build_array(jsonb_build_object('artist_id', ?::text))
	`, viewerArtistID, now.UTC().Format(time.RFC3339), jobID, viewerArtistID).Error
}

func (r *jobRepository) IncrementProposalsCount(db *gorm.DB, jobID string) error {
	return db.Model(&models.Job{}).
		Where("id = ?", jobID).
		UpdateColumn("proposals_count", gorm.Expr("proposals_count + 1")).Error
}

// AssignArtistCAS is the linearization point of proposal acceptance:
// the job moves to assigned only if it is still open or in review.
// Returns false when a concurrent accept already won.
func (r *jobRepository) AssignArtistCAS(db *gorm.DB, jobID, artistID, proposalID string) (bool, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", jobID, []models.JobStatus{models.JobStatusOpen, models.JobStatusInReview}).
		Updates(map[string]interface{}{
			"status":                 models.JobStatusAssigned,
			"assigned_artist_id":     artistID,
			"selected_proposal_id":   proposalID,
			"accepting_applications": false,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExpireOverdue persists the lazy-expiry rule: open jobs whose event
// date has passed become expired.
func (r *jobRepository) ExpireOverdue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Job{}).
		Where("status = ? AND event_date < ?", models.JobStatusOpen, now).
		Update("status", models.JobStatusExpired)
	return result.RowsAffected, result.Error
}
