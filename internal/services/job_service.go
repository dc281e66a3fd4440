package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artbook_backend/internal/cache"
	"artbook_backend/internal/logger"
	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobService interface {
	CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(db *gorm.DB, jobID, requesterID string, requesterRole models.UserRole) (*dto.JobResponse, error)
	GetClientJobs(db *gorm.DB, clientID, requesterID string) ([]*dto.JobResponse, error)
	UpdateJob(db *gorm.DB, jobID, requesterID string, req *dto.UpdateJobRequest) error
	CancelJob(db *gorm.DB, jobID, requesterID string) error
	CompleteJob(db *gorm.DB, jobID, requesterID string) error
	DeleteJob(db *gorm.DB, jobID, requesterID string) error

	CanArtistApply(db *gorm.DB, jobID, artistID string) (bool, error)
}

type jobService struct {
	jobRepo             repositories.JobRepository
	proposalRepo        repositories.ProposalRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	viewDeduper         *cache.ViewDeduper // nil disables dedup
	now                 nowFunc
}

func NewJobService(
	jobRepo repositories.JobRepository,
	proposalRepo repositories.ProposalRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	viewDeduper *cache.ViewDeduper,
) JobService {
	return &jobService{
		jobRepo:             jobRepo,
		proposalRepo:        proposalRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		viewDeduper:         viewDeduper,
		now:                 defaultNow,
	}
}

func (s *jobService) CreateJob(db *gorm.DB, clientID string, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	client, err := s.userRepo.FindByID(db, clientID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if client.Role != models.UserRoleClient {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := validateJobCreate(req, s.now()); err != nil {
		return nil, err
	}

	job := &models.Job{
		ClientID:        clientID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		City:            req.City,
		EventDate:       req.EventDate,
		BudgetMin:       req.BudgetMin,
		BudgetMax:       req.BudgetMax,
		Currency:        req.Currency,
		Status:          models.JobStatusOpen,
		MaxApplications: req.MaxApplications,
	}
	if req.Currency == "" {
		job.Currency = "USD"
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = *req.ApplicationDeadline
	}
	if len(req.Images) > 0 {
		raw, err := json.Marshal(req.Images)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal images: %w", err)
		}
		job.Images = datatypes.JSON(raw)
	}
	job.ApplyDefaults()

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, err
	}

	// Fan-out is best effort: a notification failure never rolls back
	// the job.
	if _, err := s.notificationService.NotifyArtistsOfNewJob(db, job); err != nil {
		logger.Error("new-job fan-out failed", "job_id", job.ID, "error", err)
	}

	return s.buildJobResponse(job, false, nil), nil
}

func (s *jobService) GetJob(db *gorm.DB, jobID, requesterID string, requesterRole models.UserRole) (*dto.JobResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	isOwner := requesterID == job.ClientID

	if !isOwner {
		s.recordView(db, job.ID, requesterID, requesterRole)
	}

	var proposals []models.Proposal
	if isOwner {
		proposals, _ = s.proposalRepo.FindByJob(db, job.ID)
	}

	return s.buildJobResponse(job, isOwner, proposals), nil
}

func (s *jobService) GetClientJobs(db *gorm.DB, clientID, requesterID string) ([]*dto.JobResponse, error) {
	if clientID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	jobs, err := s.jobRepo.FindByClient(db, clientID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, s.buildJobResponse(&jobs[i], true, nil))
	}
	return responses, nil
}

func (s *jobService) UpdateJob(db *gorm.DB, jobID, requesterID string, req *dto.UpdateJobRequest) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if job.ClientID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}

	status := job.EffectiveStatus(s.now())
	if status != models.JobStatusDraft && status != models.JobStatusOpen {
		return apperrors.ErrInvalidJobStatus
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.EventDate != nil {
		if !req.EventDate.After(s.now()) {
			return apperrors.ValidationError(map[string]string{
				"event_date": "Event date must be in the future",
			})
		}
		job.EventDate = *req.EventDate
	}
	if req.BudgetMin != nil {
		job.BudgetMin = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = *req.BudgetMax
	}
	if job.BudgetMax <= job.BudgetMin {
		return apperrors.ValidationError(map[string]string{
			"budget_max": "Maximum budget must be greater than minimum budget",
		})
	}
	if req.MaxApplications != nil {
		job.MaxApplications = *req.MaxApplications
	}
	if req.ApplicationDeadline != nil {
		job.ApplicationDeadline = *req.ApplicationDeadline
	}
	if req.AcceptingApps != nil {
		job.AcceptingApplications = *req.AcceptingApps
	}

	return s.jobRepo.Update(db, job)
}

func (s *jobService) CancelJob(db *gorm.DB, jobID, requesterID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if job.ClientID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}

	switch job.EffectiveStatus(s.now()) {
	case models.JobStatusCompleted, models.JobStatusCancelled, models.JobStatusExpired:
		return apperrors.ErrInvalidJobStatus
	}

	job.Status = models.JobStatusCancelled
	job.AcceptingApplications = false
	return s.jobRepo.Update(db, job)
}

func (s *jobService) CompleteJob(db *gorm.DB, jobID, requesterID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if job.ClientID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}

	status := job.EffectiveStatus(s.now())
	if status != models.JobStatusAssigned && status != models.JobStatusInProgress {
		return apperrors.ErrInvalidJobStatus
	}

	job.Status = models.JobStatusCompleted
	return s.jobRepo.Update(db, job)
}

func (s *jobService) DeleteJob(db *gorm.DB, jobID, requesterID string) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if job.ClientID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}

	if job.Status != models.JobStatusDraft {
		return apperrors.ErrInvalidJobStatus
	}

	return s.jobRepo.Delete(db, jobID)
}

// CanArtistApply combines the job-side policy with the per-artist
// uniqueness rule.
func (s *jobService) CanArtistApply(db *gorm.DB, jobID, artistID string) (bool, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return false, apperrors.ErrNotFound(err)
	}

	if !job.CanAcceptProposals(s.now()) {
		return false, nil
	}

	_, err = s.proposalRepo.FindByJobAndArtist(db, job.ID, artistID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrProposalNotFound) {
		return false, err
	}
	return true, nil
}

// recordView bumps the atomic view counter; the redis deduper keeps
// repeat views by the same artist inside the TTL from counting twice.
func (s *jobService) recordView(db *gorm.DB, jobID, requesterID string, requesterRole models.UserRole) {
	viewerArtistID := ""
	if requesterRole == models.UserRoleArtist {
		viewerArtistID = requesterID
	}

	if s.viewDeduper != nil && viewerArtistID != "" {
		if !s.viewDeduper.ShouldCount(context.Background(), jobID, viewerArtistID) {
			return
		}
	}

	if err := s.jobRepo.RecordView(db, jobID, viewerArtistID, s.now()); err != nil {
		logger.Error("failed to record job view", "job_id", jobID, "error", err)
	}
}

func validateJobCreate(req *dto.CreateJobRequest, now time.Time) error {
	details := map[string]string{}

	if req.BudgetMax <= req.BudgetMin {
		details["budget_max"] = "Maximum budget must be greater than minimum budget"
	}
	if !req.EventDate.After(now) {
		details["event_date"] = "Event date must be in the future"
	}

	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}
	return nil
}

func (s *jobService) buildJobResponse(job *models.Job, includeProposals bool, proposals []models.Proposal) *dto.JobResponse {
	var images []string
	if len(job.Images) > 0 {
		_ = json.Unmarshal(job.Images, &images)
	}

	resp := &dto.JobResponse{
		ID:                    job.ID,
		ClientID:              job.ClientID,
		Title:                 job.Title,
		Description:           job.Description,
		Category:              job.Category,
		City:                  job.City,
		EventDate:             job.EventDate,
		BudgetMin:             job.BudgetMin,
		BudgetMax:             job.BudgetMax,
		Currency:              job.Currency,
		Status:                job.EffectiveStatus(s.now()),
		AcceptingApplications: job.AcceptingApplications,
		MaxApplications:       job.MaxApplications,
		ProposalsCount:        job.ProposalsCount,
		AssignedArtistID:      job.AssignedArtistID,
		SelectedProposalID:    job.SelectedProposalID,
		ApplicationDeadline:   job.ApplicationDeadline,
		ExpiresAt:             job.ExpiresAt,
		Views:                 job.Views,
		Images:                images,
		CreatedAt:             job.CreatedAt,
		UpdatedAt:             job.UpdatedAt,
	}

	if includeProposals && len(proposals) > 0 {
		summaries := make([]dto.ProposalSummary, 0, len(proposals))
		for _, p := range proposals {
			summaries = append(summaries, dto.ProposalSummary{
				ID:         p.ID,
				ArtistID:   p.ArtistID,
				ArtistName: p.Artist.Name,
				Price:      p.Price,
				Currency:   p.Currency,
				Status:     p.Status,
				CreatedAt:  p.CreatedAt,
			})
		}
		resp.Proposals = summaries
	}

	return resp
}
