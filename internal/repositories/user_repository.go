package repositories

import (
	"encoding/json"
	"errors"

	"artbook_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("artist profile not found")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)

	CreateArtistProfile(db *gorm.DB, profile *models.ArtistProfile) error
	FindArtistProfile(db *gorm.DB, userID string) (*models.ArtistProfile, error)
	FindArtistIDsByCategory(db *gorm.DB, category string) ([]string, error)
	FindArtistIDsWithRatings(db *gorm.DB) ([]string, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("ArtistProfile").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CreateArtistProfile(db *gorm.DB, profile *models.ArtistProfile) error {
	return db.Create(profile).Error
}

func (r *userRepository) FindArtistProfile(db *gorm.DB, userID string) (*models.ArtistProfile, error) {
	var profile models.ArtistProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindArtistIDsByCategory returns user IDs of active artists whose
// profile lists the category. Used by the new-job fan-out.
func (r *userRepository) FindArtistIDsByCategory(db *gorm.DB, category string) ([]string, error) {
	needle, err := json.Marshal([]string{category})
	if err != nil {
		return nil, err
	}

	var ids []string
	err = db.Model(&models.ArtistProfile{}).
		Joins("JOIN users ON users.id = artist_profiles.user_id AND users.status = ?", models.UserStatusActive).
		Where("artist_profiles.categories @> ?", string(needle)).
		Pluck("artist_profiles.user_id", &ids).Error
	return ids, err
}

// FindArtistIDsWithRatings returns artists that either have published
// reviews or carry a non-zero cached rating. Drives reconciliation.
func (r *userRepository) FindArtistIDsWithRatings(db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.Raw(`
		SELECT reviewee_id FROM reviews WHERE status = ?
		UNION
		SELECT user_id FROM artist_profiles WHERE rating_count > 0
	`, models.ReviewStatusPublished).Scan(&ids).Error
	return ids, err
}
