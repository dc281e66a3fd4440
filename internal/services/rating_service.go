package services

import (
	"artbook_backend/internal/logger"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"

	"gorm.io/gorm"
)

// RatingService owns the cached rating pair on artist profiles. The
// pair is always recomputed from the published review set, never
// incremented, so a lost trigger can only delay convergence, not
// corrupt the value.
type RatingService interface {
	Recompute(db *gorm.DB, artistID string) error
	GetArtistRating(db *gorm.DB, artistID string) (*dto.RatingResponse, error)
	Reconcile(db *gorm.DB) (int, error)
}

type ratingService struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
}

func NewRatingService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
) RatingService {
	return &ratingService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
	}
}

// Recompute scans the artist's published reviews and writes the mean
// (1 decimal) and count into the profile.
func (s *ratingService) Recompute(db *gorm.DB, artistID string) error {
	average, count, err := s.reviewRepo.CalculatePublishedRating(db, artistID)
	if err != nil {
		return err
	}
	return s.reviewRepo.UpdateArtistRating(db, artistID, average, count)
}

func (s *ratingService) GetArtistRating(db *gorm.DB, artistID string) (*dto.RatingResponse, error) {
	average, count, err := s.reviewRepo.CachedArtistRating(db, artistID)
	if err != nil {
		return nil, err
	}
	return &dto.RatingResponse{
		ArtistID: artistID,
		Average:  average,
		Count:    count,
	}, nil
}

// Reconcile sweeps every artist with rating state and repairs cached
// values that drifted from the underlying review set. Returns the
// number of repaired profiles.
func (s *ratingService) Reconcile(db *gorm.DB) (int, error) {
	artistIDs, err := s.userRepo.FindArtistIDsWithRatings(db)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, artistID := range artistIDs {
		computedAvg, computedCount, err := s.reviewRepo.CalculatePublishedRating(db, artistID)
		if err != nil {
			logger.Error("rating reconcile: recompute failed", "artist_id", artistID, "error", err)
			continue
		}

		cachedAvg, cachedCount, err := s.reviewRepo.CachedArtistRating(db, artistID)
		if err != nil {
			logger.Error("rating reconcile: cached read failed", "artist_id", artistID, "error", err)
			continue
		}

		if cachedAvg == computedAvg && cachedCount == computedCount {
			continue
		}

		if err := s.reviewRepo.UpdateArtistRating(db, artistID, computedAvg, computedCount); err != nil {
			logger.Error("rating reconcile: repair failed", "artist_id", artistID, "error", err)
			continue
		}
		logger.Warn("rating reconcile: repaired drifted rating",
			"artist_id", artistID,
			"cached_avg", cachedAvg, "computed_avg", computedAvg,
			"cached_count", cachedCount, "computed_count", computedCount,
		)
		repaired++
	}

	return repaired, nil
}
