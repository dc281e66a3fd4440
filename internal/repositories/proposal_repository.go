package repositories

import (
	"errors"
	"time"

	"artbook_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrProposalAlreadyExists = errors.New("proposal already exists for this job and artist")
)

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByID(db *gorm.DB, id string) (*models.Proposal, error)
	FindByJobAndArtist(db *gorm.DB, jobID, artistID string) (*models.Proposal, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Proposal, error)
	FindByArtist(db *gorm.DB, artistID string) ([]models.Proposal, error)
	Update(db *gorm.DB, proposal *models.Proposal) error
	MarkAccepted(db *gorm.DB, proposalID string) error
	RejectPendingSiblings(db *gorm.DB, jobID, winnerID, responderID, message string, now time.Time) (int64, error)
	CountAccepted(db *gorm.DB, jobID string) (int64, error)
}

type proposalRepository struct{}

func NewProposalRepository() ProposalRepository {
	return &proposalRepository{}
}

func (r *proposalRepository) Create(db *gorm.DB, proposal *models.Proposal) error {
	// Precheck keeps the common path on a clean error; the unique
	// index on (job_id, artist_id) closes the race.
	var existing models.Proposal
	err := db.Where("job_id = ? AND artist_id = ?", proposal.JobID, proposal.ArtistID).
		First(&existing).Error
	if err == nil {
		return ErrProposalAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProposalAlreadyExists
		}
		return err
	}
	return nil
}

func (r *proposalRepository) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Preload("Job").First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByJobAndArtist(db *gorm.DB, jobID, artistID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Where("job_id = ? AND artist_id = ?", jobID, artistID).First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByJob(db *gorm.DB, jobID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("Artist").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) FindByArtist(db *gorm.DB, artistID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Preload("Job").
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) Update(db *gorm.DB, proposal *models.Proposal) error {
	return db.Save(proposal).Error
}

func (r *proposalRepository) MarkAccepted(db *gorm.DB, proposalID string) error {
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", proposalID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusAccepted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// RejectPendingSiblings force-rejects every still-pending proposal on
// the job except the winner, recording the auto-generated client
// response. Terminal siblings (withdrawn, already rejected) keep
// their state.
func (r *proposalRepository) RejectPendingSiblings(db *gorm.DB, jobID, winnerID, responderID, message string, now time.Time) (int64, error) {
	result := db.Model(&models.Proposal{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, winnerID, models.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":           models.ProposalStatusRejected,
			"response_message": message,
			"responded_by":     responderID,
			"responded_at":     now,
		})
	return result.RowsAffected, result.Error
}

func (r *proposalRepository) CountAccepted(db *gorm.DB, jobID string) (int64, error) {
	var count int64
	err := db.Model(&models.Proposal{}).
		Where("job_id = ? AND status = ?", jobID, models.ProposalStatusAccepted).
		Count(&count).Error
	return count, err
}
