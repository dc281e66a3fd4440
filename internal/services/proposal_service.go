package services

import (
	"errors"

	"artbook_backend/internal/logger"
	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const autoRejectMessage = "Another proposal was selected for this job."

type ProposalService interface {
	Submit(db *gorm.DB, jobID, artistID string, req *dto.SubmitProposalRequest) (*dto.ProposalResponse, error)
	Update(db *gorm.DB, proposalID, artistID string, req *dto.UpdateProposalRequest) error
	Accept(db *gorm.DB, proposalID, clientID string) error
	Reject(db *gorm.DB, proposalID, clientID string, req *dto.RejectProposalRequest) error
	Withdraw(db *gorm.DB, proposalID, artistID string) error

	GetProposal(db *gorm.DB, proposalID, requesterID string) (*dto.ProposalResponse, error)
	GetJobProposals(db *gorm.DB, jobID, requesterID string) ([]dto.ProposalResponse, error)
	GetArtistProposals(db *gorm.DB, artistID, requesterID string) ([]dto.ProposalResponse, error)
}

type proposalService struct {
	proposalRepo        repositories.ProposalRepository
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	now                 nowFunc
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ProposalService {
	return &proposalService{
		proposalRepo:        proposalRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		now:                 defaultNow,
	}
}

func (s *proposalService) Submit(db *gorm.DB, jobID, artistID string, req *dto.SubmitProposalRequest) (*dto.ProposalResponse, error) {
	artist, err := s.userRepo.FindByID(db, artistID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if artist.Role != models.UserRoleArtist {
		return nil, apperrors.ErrInvalidUserRole
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	now := s.now()
	if job.EffectiveStatus(now) != models.JobStatusOpen {
		return nil, apperrors.ErrInvalidJobStatus
	}
	if !job.AcceptingApplications {
		return nil, apperrors.ErrJobNotAcceptingProposals
	}
	if !now.Before(job.ApplicationDeadline) {
		return nil, apperrors.ErrJobNotAcceptingProposals
	}
	if job.ProposalsCount >= job.MaxApplications {
		return nil, apperrors.ErrProposalLimitReached
	}

	proposal := &models.Proposal{
		JobID:             jobID,
		ArtistID:          artistID,
		Message:           req.Message,
		Price:             req.Price,
		Currency:          req.Currency,
		EstimatedDuration: req.EstimatedDuration,
		Status:            models.ProposalStatusPending,
	}
	if req.Currency == "" {
		proposal.Currency = job.Currency
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.proposalRepo.Create(tx, proposal); err != nil {
			return err
		}
		return s.jobRepo.IncrementProposalsCount(tx, jobID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrProposalAlreadyExists) {
			return nil, apperrors.ErrProposalAlreadyExists
		}
		return nil, err
	}

	if err := s.notificationService.NotifyNewProposal(db, job.ClientID, job.ID, proposal.ID, artist.Name); err != nil {
		logger.Error("new-proposal notification failed", "proposal_id", proposal.ID, "error", err)
	}

	return buildProposalResponse(proposal), nil
}

func (s *proposalService) Update(db *gorm.DB, proposalID, artistID string, req *dto.UpdateProposalRequest) error {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if proposal.ArtistID != artistID {
		return apperrors.ErrInsufficientPermissions
	}
	if !proposal.IsMutable() {
		return apperrors.ErrProposalNotPending
	}

	if req.Message != nil {
		proposal.Message = *req.Message
	}
	if req.Price != nil {
		proposal.Price = *req.Price
	}
	if req.EstimatedDuration != nil {
		proposal.EstimatedDuration = *req.EstimatedDuration
	}

	return s.proposalRepo.Update(db, proposal)
}

// Accept selects the winning proposal. The job moves to assigned,
// the winner to accepted, and pending siblings to rejected, all in
// one transaction. The job-status CAS is the linearization point:
// of two concurrent accepts on the same job, exactly one sees
// RowsAffected == 1.
func (s *proposalService) Accept(db *gorm.DB, proposalID, clientID string) error {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	job := &proposal.Job
	if job.ClientID != clientID {
		return apperrors.ErrInsufficientPermissions
	}
	if proposal.Status != models.ProposalStatusPending {
		return apperrors.ErrProposalNotPending
	}
	if !job.IsAssignable(s.now()) {
		return apperrors.ErrInvalidJobStatus
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		won, err := s.jobRepo.AssignArtistCAS(tx, job.ID, proposal.ArtistID, proposal.ID)
		if err != nil {
			return err
		}
		if !won {
			return apperrors.ErrJobAlreadyAssigned
		}

		if err := s.proposalRepo.MarkAccepted(tx, proposal.ID); err != nil {
			return err
		}

		now := s.now()
		rejected, err := s.proposalRepo.RejectPendingSiblings(tx, job.ID, proposal.ID, clientID, autoRejectMessage, now)
		if err != nil {
			return err
		}
		logger.Info("proposal accepted",
			"job_id", job.ID,
			"proposal_id", proposal.ID,
			"rejected_siblings", rejected,
		)
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.notificationService.NotifyProposalStatus(db, proposal.ArtistID, job.Title, models.ProposalStatusAccepted); err != nil {
		logger.Error("accept notification failed", "proposal_id", proposal.ID, "error", err)
	}

	return nil
}

func (s *proposalService) Reject(db *gorm.DB, proposalID, clientID string, req *dto.RejectProposalRequest) error {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if proposal.Job.ClientID != clientID {
		return apperrors.ErrInsufficientPermissions
	}
	if proposal.Status != models.ProposalStatusPending {
		return apperrors.ErrProposalNotPending
	}

	now := s.now()
	proposal.Status = models.ProposalStatusRejected
	proposal.ResponseMessage = req.Message
	proposal.RespondedBy = &clientID
	proposal.RespondedAt = &now

	if err := s.proposalRepo.Update(db, proposal); err != nil {
		return err
	}

	if err := s.notificationService.NotifyProposalStatus(db, proposal.ArtistID, proposal.Job.Title, models.ProposalStatusRejected); err != nil {
		logger.Error("reject notification failed", "proposal_id", proposal.ID, "error", err)
	}

	return nil
}

// Withdraw lets the artist retract a pending bid. No effect on the
// job.
func (s *proposalService) Withdraw(db *gorm.DB, proposalID, artistID string) error {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}

	if proposal.ArtistID != artistID {
		return apperrors.ErrInsufficientPermissions
	}
	if proposal.Status != models.ProposalStatusPending {
		return apperrors.ErrProposalNotPending
	}

	proposal.Status = models.ProposalStatusWithdrawn
	return s.proposalRepo.Update(db, proposal)
}

func (s *proposalService) GetProposal(db *gorm.DB, proposalID, requesterID string) (*dto.ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if proposal.ArtistID != requesterID && proposal.Job.ClientID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	return buildProposalResponse(proposal), nil
}

func (s *proposalService) GetJobProposals(db *gorm.DB, jobID, requesterID string) ([]dto.ProposalResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if job.ClientID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	proposals, err := s.proposalRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, *buildProposalResponse(&proposals[i]))
	}
	return responses, nil
}

func (s *proposalService) GetArtistProposals(db *gorm.DB, artistID, requesterID string) ([]dto.ProposalResponse, error) {
	if artistID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	proposals, err := s.proposalRepo.FindByArtist(db, artistID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, *buildProposalResponse(&proposals[i]))
	}
	return responses, nil
}

func buildProposalResponse(p *models.Proposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:                p.ID,
		JobID:             p.JobID,
		ArtistID:          p.ArtistID,
		Message:           p.Message,
		Price:             p.Price,
		Currency:          p.Currency,
		EstimatedDuration: p.EstimatedDuration,
		Status:            p.Status,
		ResponseMessage:   p.ResponseMessage,
		RespondedBy:       p.RespondedBy,
		RespondedAt:       p.RespondedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
