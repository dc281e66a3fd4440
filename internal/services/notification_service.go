package services

import (
	"encoding/json"
	"fmt"

	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService is the fan-out collaborator: it turns job and
// proposal events into per-recipient notification records. Callers
// treat failures as non-fatal.
type NotificationService interface {
	NotifyArtistsOfNewJob(db *gorm.DB, job *models.Job) ([]models.Notification, error)
	NotifyNewProposal(db *gorm.DB, clientID, jobID, proposalID, artistName string) error
	NotifyProposalStatus(db *gorm.DB, artistID, jobTitle string, status models.ProposalStatus) error
	NotifyNewReview(db *gorm.DB, artistID, jobTitle string) error

	GetUserNotifications(db *gorm.DB, userID string, limit int) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	now              nowFunc
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		now:              defaultNow,
	}
}

// NotifyArtistsOfNewJob creates one notification per active artist in
// the job's category and returns the created records.
func (s *notificationService) NotifyArtistsOfNewJob(db *gorm.DB, job *models.Job) ([]models.Notification, error) {
	artistIDs, err := s.userRepo.FindArtistIDsByCategory(db, job.Category)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]string{"job_id": job.ID})
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(artistIDs))
	for _, artistID := range artistIDs {
		notifications = append(notifications, models.Notification{
			UserID:  artistID,
			Type:    models.NotificationTypeNewJob,
			Title:   "New job in your category",
			Message: fmt.Sprintf("A new job was posted: %s", job.Title),
			Data:    datatypes.JSON(data),
		})
	}

	if err := s.notificationRepo.CreateBulk(db, notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *notificationService) NotifyNewProposal(db *gorm.DB, clientID, jobID, proposalID, artistName string) error {
	data, err := json.Marshal(map[string]string{"job_id": jobID, "proposal_id": proposalID})
	if err != nil {
		return err
	}

	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  clientID,
		Type:    models.NotificationTypeNewProposal,
		Title:   "New proposal received",
		Message: fmt.Sprintf("%s submitted a proposal for your job", artistName),
		Data:    datatypes.JSON(data),
	})
}

func (s *notificationService) NotifyProposalStatus(db *gorm.DB, artistID, jobTitle string, status models.ProposalStatus) error {
	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  artistID,
		Type:    models.NotificationTypeProposalStatus,
		Title:   "Proposal status updated",
		Message: fmt.Sprintf("Your proposal for %q is now %s", jobTitle, status),
	})
}

func (s *notificationService) NotifyNewReview(db *gorm.DB, artistID, jobTitle string) error {
	return s.notificationRepo.Create(db, &models.Notification{
		UserID:  artistID,
		Type:    models.NotificationTypeNewReview,
		Title:   "You received a review",
		Message: fmt.Sprintf("A client reviewed your work on %q", jobTitle),
	})
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, limit int) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.FindByUser(db, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationRepo.UnreadCount(db, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
		if len(n.Data) > 0 {
			var data map[string]interface{}
			if err := json.Unmarshal(n.Data, &data); err == nil {
				resp.Data = data
			}
		}
		responses = append(responses, resp)
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	return s.notificationRepo.MarkRead(db, userID, notificationID, s.now())
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	return s.notificationRepo.MarkAllRead(db, userID, s.now())
}
