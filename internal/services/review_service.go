package services

import (
	"encoding/json"
	"errors"

	"artbook_backend/internal/logger"
	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	UpdateReview(db *gorm.DB, reviewID, reviewerID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(db *gorm.DB, reviewID, reviewerID string) error
	GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	GetArtistReviews(db *gorm.DB, artistID string) ([]dto.ReviewResponse, error)
	GetMyReviews(db *gorm.DB, reviewerID string) ([]dto.ReviewResponse, error)

	ModerateReview(db *gorm.DB, reviewID, moderatorID string, req *dto.ModerateReviewRequest) error
	FlagReview(db *gorm.DB, reviewID, reporterID string, req *dto.FlagReviewRequest) error
}

type reviewService struct {
	reviewRepo          repositories.ReviewRepository
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	ratingService       RatingService
	notificationService NotificationService
	now                 nowFunc
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	ratingService RatingService,
	notificationService NotificationService,
) ReviewService {
	return &reviewService{
		reviewRepo:          reviewRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		ratingService:       ratingService,
		notificationService: notificationService,
		now:                 defaultNow,
	}
}

// CreateReview records a client's review of the artist assigned to a
// completed job. High-quality verified reviews publish immediately;
// publication triggers a rating recompute for the artist.
func (s *reviewService) CreateReview(db *gorm.DB, reviewerID string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	job, err := s.jobRepo.FindByID(db, req.JobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if job.ClientID != reviewerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperrors.ErrJobNotCompleted
	}
	if job.AssignedArtistID == nil {
		return nil, apperrors.ErrInvalidOperation("review", "Job has no assigned artist to review")
	}

	review := &models.Review{
		ReviewerID:         reviewerID,
		RevieweeID:         *job.AssignedArtistID,
		JobID:              job.ID,
		RatingOverall:      req.Rating,
		Comment:            req.Comment,
		WouldRecommend:     req.WouldRecommend,
		WouldHireAgain:     req.WouldHireAgain,
		Status:             models.ReviewStatusSubmitted,
		VerificationMethod: req.VerificationMethod,
	}

	if err := setReviewJSON(review, req.RatingBreakdown, req.Images); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Reviews on jobs the platform itself assigned are verified.
	if req.VerificationMethod == models.VerificationBookingConf {
		review.IsVerified = true
	}

	review.RecomputeQuality()
	if review.ShouldAutoPublish() {
		review.Status = models.ReviewStatusPublished
	}

	if err := s.reviewRepo.Create(db, review); err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.ErrReviewAlreadyExists
		}
		return nil, err
	}

	if review.Status.IsPublished() {
		s.recomputeRating(db, review.RevieweeID)
	}

	if err := s.notificationService.NotifyNewReview(db, review.RevieweeID, job.Title); err != nil {
		logger.Error("new-review notification failed", "review_id", review.ID, "error", err)
	}

	return buildReviewResponse(review), nil
}

func (s *reviewService) UpdateReview(db *gorm.DB, reviewID, reviewerID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if review.ReviewerID != reviewerID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	switch review.Status {
	case models.ReviewStatusDraft, models.ReviewStatusSubmitted:
	default:
		return nil, apperrors.ErrReviewNotEditable
	}

	if req.Rating != nil {
		review.RatingOverall = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if req.WouldRecommend != nil {
		review.WouldRecommend = req.WouldRecommend
	}
	if req.WouldHireAgain != nil {
		review.WouldHireAgain = req.WouldHireAgain
	}
	if err := setReviewJSON(review, req.RatingBreakdown, req.Images); err != nil {
		return nil, apperrors.InternalError(err)
	}

	review.RecomputeQuality()
	if review.ShouldAutoPublish() {
		review.Status = models.ReviewStatusPublished
	}

	if err := s.reviewRepo.Update(db, review); err != nil {
		return nil, err
	}

	if review.Status.IsPublished() {
		s.recomputeRating(db, review.RevieweeID)
	}

	return buildReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(db *gorm.DB, reviewID, reviewerID string) error {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if review.ReviewerID != reviewerID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.reviewRepo.Delete(db, reviewID); err != nil {
		return err
	}

	if review.Status.IsPublished() {
		s.recomputeRating(db, review.RevieweeID)
	}
	return nil
}

func (s *reviewService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildReviewResponse(review), nil
}

func (s *reviewService) GetArtistReviews(db *gorm.DB, artistID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindPublishedByReviewee(db, artistID)
	if err != nil {
		return nil, err
	}
	return buildReviewResponses(reviews), nil
}

func (s *reviewService) GetMyReviews(db *gorm.DB, reviewerID string) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByReviewer(db, reviewerID)
	if err != nil {
		return nil, err
	}
	return buildReviewResponses(reviews), nil
}

// ModerateReview applies a moderator decision. Approve publishes,
// reject removes, hide conceals without deleting. Any transition that
// changes published visibility retriggers the artist rating.
func (s *reviewService) ModerateReview(db *gorm.DB, reviewID, moderatorID string, req *dto.ModerateReviewRequest) error {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	wasPublished := review.Status.IsPublished()

	switch req.Action {
	case "approve":
		review.Status = models.ReviewStatusPublished
	case "reject":
		review.Status = models.ReviewStatusRemoved
	case "hide":
		review.Status = models.ReviewStatusHidden
	default:
		return apperrors.ErrInvalidOperation("review", "Unknown moderation action: "+req.Action)
	}

	now := s.now()
	review.ModeratorID = &moderatorID
	review.ModeratedAt = &now
	review.ModerationNotes = req.Notes

	if err := s.reviewRepo.Update(db, review); err != nil {
		return err
	}

	if wasPublished != review.Status.IsPublished() {
		s.recomputeRating(db, review.RevieweeID)
	}

	logger.Info("review moderated",
		"review_id", review.ID,
		"moderator_id", moderatorID,
		"action", req.Action,
	)
	return nil
}

// FlagReview records a report against a published review and demotes
// it to flagged so it drops out of the artist's rating until a
// moderator rules on it.
func (s *reviewService) FlagReview(db *gorm.DB, reviewID, reporterID string, req *dto.FlagReviewRequest) error {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if !review.Status.IsPublished() && review.Status != models.ReviewStatusFlagged {
		return apperrors.ErrInvalidStatus("review", "Only published reviews can be flagged")
	}

	if err := review.AppendFlag(models.ReviewFlag{
		ReporterID: reporterID,
		Type:       req.Type,
		Reason:     req.Reason,
		At:         s.now(),
	}); err != nil {
		return apperrors.InternalError(err)
	}

	wasPublished := review.Status.IsPublished()
	review.Status = models.ReviewStatusFlagged

	if err := s.reviewRepo.Update(db, review); err != nil {
		return err
	}

	if wasPublished {
		s.recomputeRating(db, review.RevieweeID)
	}
	return nil
}

// recomputeRating refreshes the artist's cached aggregate. A failure
// here never fails the review write; the reconciliation worker will
// repair the cache.
func (s *reviewService) recomputeRating(db *gorm.DB, artistID string) {
	if err := s.ratingService.Recompute(db, artistID); err != nil {
		logger.Error("rating recompute failed", "artist_id", artistID, "error", err)
	}
}

func setReviewJSON(review *models.Review, breakdown map[string]int, images []string) error {
	if breakdown != nil {
		raw, err := json.Marshal(breakdown)
		if err != nil {
			return err
		}
		review.RatingBreakdown = datatypes.JSON(raw)
	}
	if images != nil {
		raw, err := json.Marshal(images)
		if err != nil {
			return err
		}
		review.Images = datatypes.JSON(raw)
	}
	return nil
}

func buildReviewResponse(r *models.Review) *dto.ReviewResponse {
	resp := &dto.ReviewResponse{
		ID:             r.ID,
		ReviewerID:     r.ReviewerID,
		RevieweeID:     r.RevieweeID,
		JobID:          r.JobID,
		Rating:         r.RatingOverall,
		Comment:        r.Comment,
		WouldRecommend: r.WouldRecommend,
		WouldHireAgain: r.WouldHireAgain,
		Status:         r.Status,
		QualityScore:   r.QualityScore,
		IsHighQuality:  r.IsHighQuality,
		IsVerified:     r.IsVerified,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if len(r.RatingBreakdown) > 0 {
		var breakdown map[string]int
		if err := json.Unmarshal(r.RatingBreakdown, &breakdown); err == nil {
			resp.RatingBreakdown = breakdown
		}
	}
	if len(r.Images) > 0 {
		var images []string
		if err := json.Unmarshal(r.Images, &images); err == nil {
			resp.Images = images
		}
	}
	return resp
}

func buildReviewResponses(reviews []models.Review) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *buildReviewResponse(&reviews[i]))
	}
	return responses
}
