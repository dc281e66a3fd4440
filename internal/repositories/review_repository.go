package repositories

import (
	"errors"
	"math"

	"artbook_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this job")
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.Review, error)
	FindPublishedByReviewee(db *gorm.DB, revieweeID string) ([]models.Review, error)
	FindByReviewer(db *gorm.DB, reviewerID string) ([]models.Review, error)
	Update(db *gorm.DB, review *models.Review) error
	Delete(db *gorm.DB, id string) error

	// Rating aggregation. UpdateArtistRating is the only write path
	// for the cached pair on artist_profiles.
	CalculatePublishedRating(db *gorm.DB, revieweeID string) (float64, int64, error)
	UpdateArtistRating(db *gorm.DB, revieweeID string, average float64, count int64) error
	CachedArtistRating(db *gorm.DB, revieweeID string) (float64, int64, error)
}

type reviewRepository struct{}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *models.Review) error {
	var existing models.Review
	err := db.Where("job_id = ? AND reviewer_id = ?", review.JobID, review.ReviewerID).
		First(&existing).Error
	if err == nil {
		return ErrReviewAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("job_id = ? AND reviewer_id = ?", jobID, reviewerID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindPublishedByReviewee(db *gorm.DB, revieweeID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("reviewee_id = ? AND status = ?", revieweeID, models.ReviewStatusPublished).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByReviewer(db *gorm.DB, reviewerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Update(db *gorm.DB, review *models.Review) error {
	return db.Save(review).Error
}

func (r *reviewRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// CalculatePublishedRating recomputes the mean and count over
// published reviews from scratch. The mean is rounded to 1 decimal.
func (r *reviewRepository) CalculatePublishedRating(db *gorm.DB, revieweeID string) (float64, int64, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := db.Model(&models.Review{}).
		Where("reviewee_id = ? AND status = ?", revieweeID, models.ReviewStatusPublished).
		Select("COALESCE(AVG(rating_overall), 0) AS average, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return RoundRating(row.Average), row.Count, nil
}

func (r *reviewRepository) UpdateArtistRating(db *gorm.DB, revieweeID string, average float64, count int64) error {
	return db.Model(&models.ArtistProfile{}).
		Where("user_id = ?", revieweeID).
		Updates(map[string]interface{}{
			"rating_average": average,
			"rating_count":   count,
		}).Error
}

func (r *reviewRepository) CachedArtistRating(db *gorm.DB, revieweeID string) (float64, int64, error) {
	var profile models.ArtistProfile
	err := db.Select("rating_average", "rating_count").
		First(&profile, "user_id = ?", revieweeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrProfileNotFound
		}
		return 0, 0, err
	}
	return profile.RatingAverage, int64(profile.RatingCount), nil
}

// RoundRating rounds a mean rating to 1 decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
