package services

import (
	"testing"
	"time"

	"artbook_backend/internal/models"
	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB wraps gorm around a sqlmock connection so db.Transaction
// really begins and commits. The repository stubs below never touch
// the connection, so only Begin/Commit/Rollback need expectations.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

type rejectSiblingsCall struct {
	jobID       string
	winnerID    string
	responderID string
	message     string
}

type proposalRepoStub struct {
	proposal *models.Proposal
	findErr  error

	createErr      error
	created        []*models.Proposal
	updated        []*models.Proposal
	markedAccepted []string

	rejectCalls  []rejectSiblingsCall
	rejectReturn int64

	byJobAndArtistErr error
}

func (r *proposalRepoStub) Create(db *gorm.DB, p *models.Proposal) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, p)
	return nil
}

func (r *proposalRepoStub) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.proposal, nil
}

func (r *proposalRepoStub) FindByJobAndArtist(db *gorm.DB, jobID, artistID string) (*models.Proposal, error) {
	if r.byJobAndArtistErr != nil {
		return nil, r.byJobAndArtistErr
	}
	return r.proposal, nil
}

func (r *proposalRepoStub) FindByJob(db *gorm.DB, jobID string) ([]models.Proposal, error) {
	return nil, nil
}

func (r *proposalRepoStub) FindByArtist(db *gorm.DB, artistID string) ([]models.Proposal, error) {
	return nil, nil
}

func (r *proposalRepoStub) Update(db *gorm.DB, p *models.Proposal) error {
	r.updated = append(r.updated, p)
	return nil
}

func (r *proposalRepoStub) MarkAccepted(db *gorm.DB, proposalID string) error {
	r.markedAccepted = append(r.markedAccepted, proposalID)
	return nil
}

func (r *proposalRepoStub) RejectPendingSiblings(db *gorm.DB, jobID, winnerID, responderID, message string, now time.Time) (int64, error) {
	r.rejectCalls = append(r.rejectCalls, rejectSiblingsCall{jobID, winnerID, responderID, message})
	return r.rejectReturn, nil
}

func (r *proposalRepoStub) CountAccepted(db *gorm.DB, jobID string) (int64, error) {
	return 0, nil
}

type jobRepoStub struct {
	job     *models.Job
	findErr error

	casWon   bool
	casCalls int

	incremented []string
}

func (r *jobRepoStub) Create(db *gorm.DB, job *models.Job) error { return nil }

func (r *jobRepoStub) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.job, nil
}

func (r *jobRepoStub) FindByClient(db *gorm.DB, clientID string) ([]models.Job, error) {
	return nil, nil
}

func (r *jobRepoStub) Update(db *gorm.DB, job *models.Job) error { return nil }
func (r *jobRepoStub) Delete(db *gorm.DB, id string) error       { return nil }

func (r *jobRepoStub) RecordView(db *gorm.DB, jobID, viewerArtistID string, now time.Time) error {
	return nil
}

func (r *jobRepoStub) IncrementProposalsCount(db *gorm.DB, jobID string) error {
	r.incremented = append(r.incremented, jobID)
	return nil
}

func (r *jobRepoStub) AssignArtistCAS(db *gorm.DB, jobID, artistID, proposalID string) (bool, error) {
	r.casCalls++
	return r.casWon, nil
}

func (r *jobRepoStub) ExpireOverdue(db *gorm.DB, now time.Time) (int64, error) {
	return 0, nil
}

type userRepoStub struct {
	user    *models.User
	findErr error
}

func (r *userRepoStub) Create(db *gorm.DB, user *models.User) error { return nil }

func (r *userRepoStub) FindByID(db *gorm.DB, id string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.user, nil
}

func (r *userRepoStub) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.user, nil
}

func (r *userRepoStub) CreateArtistProfile(db *gorm.DB, profile *models.ArtistProfile) error {
	return nil
}

func (r *userRepoStub) FindArtistProfile(db *gorm.DB, userID string) (*models.ArtistProfile, error) {
	return nil, repositories.ErrProfileNotFound
}

func (r *userRepoStub) FindArtistIDsByCategory(db *gorm.DB, category string) ([]string, error) {
	return nil, nil
}

func (r *userRepoStub) FindArtistIDsWithRatings(db *gorm.DB) ([]string, error) {
	return nil, nil
}

type notifierStub struct {
	newProposals   int
	statusNotices  []models.ProposalStatus
	notifiedUserID string
}

func (n *notifierStub) NotifyArtistsOfNewJob(db *gorm.DB, job *models.Job) ([]models.Notification, error) {
	return nil, nil
}

func (n *notifierStub) NotifyNewProposal(db *gorm.DB, clientID, jobID, proposalID, artistName string) error {
	n.newProposals++
	n.notifiedUserID = clientID
	return nil
}

func (n *notifierStub) NotifyProposalStatus(db *gorm.DB, artistID, jobTitle string, status models.ProposalStatus) error {
	n.statusNotices = append(n.statusNotices, status)
	n.notifiedUserID = artistID
	return nil
}

func (n *notifierStub) NotifyNewReview(db *gorm.DB, artistID, jobTitle string) error { return nil }

func (n *notifierStub) GetUserNotifications(db *gorm.DB, userID string, limit int) (*dto.NotificationListResponse, error) {
	return nil, nil
}

func (n *notifierStub) MarkAsRead(db *gorm.DB, userID, notificationID string) error { return nil }
func (n *notifierStub) MarkAllAsRead(db *gorm.DB, userID string) error              { return nil }

var testClock = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func openJob(clientID string) *models.Job {
	job := &models.Job{
		ClientID:              clientID,
		Title:                 "Wedding photographer",
		Category:              "photographer",
		EventDate:             testClock.Add(30 * 24 * time.Hour),
		ApplicationDeadline:   testClock.Add(23 * 24 * time.Hour),
		ExpiresAt:             testClock.Add(31 * 24 * time.Hour),
		Currency:              "EUR",
		Status:                models.JobStatusOpen,
		AcceptingApplications: true,
		MaxApplications:       20,
	}
	job.ID = "job-1"
	return job
}

func pendingProposal(job *models.Job, artistID string) *models.Proposal {
	p := &models.Proposal{
		JobID:    job.ID,
		ArtistID: artistID,
		Message:  "I have shot over forty weddings and can cover the full day.",
		Price:    900,
		Currency: "EUR",
		Status:   models.ProposalStatusPending,
		Job:      *job,
	}
	p.ID = "proposal-1"
	return p
}

func newProposalServiceForTest(proposalRepo *proposalRepoStub, jobRepo *jobRepoStub, userRepo *userRepoStub, notifier *notifierStub) *proposalService {
	return &proposalService{
		proposalRepo:        proposalRepo,
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		notificationService: notifier,
		now:                 func() time.Time { return testClock },
	}
}

func TestProposalService_Accept(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{
		proposal:     pendingProposal(job, "artist-1"),
		rejectReturn: 2,
	}
	jobRepo := &jobRepoStub{job: job, casWon: true}
	notifier := &notifierStub{}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{}, notifier)

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Accept(db, "proposal-1", "client-1")
	require.NoError(t, err)

	assert.Equal(t, 1, jobRepo.casCalls)
	assert.Equal(t, []string{"proposal-1"}, proposalRepo.markedAccepted)

	require.Len(t, proposalRepo.rejectCalls, 1)
	call := proposalRepo.rejectCalls[0]
	assert.Equal(t, "job-1", call.jobID)
	assert.Equal(t, "proposal-1", call.winnerID)
	assert.Equal(t, "client-1", call.responderID)
	assert.Equal(t, autoRejectMessage, call.message)

	assert.Equal(t, []models.ProposalStatus{models.ProposalStatusAccepted}, notifier.statusNotices)
	assert.Equal(t, "artist-1", notifier.notifiedUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Accept_LosesAssignRace(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{proposal: pendingProposal(job, "artist-1")}
	jobRepo := &jobRepoStub{job: job, casWon: false}
	notifier := &notifierStub{}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{}, notifier)

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := svc.Accept(db, "proposal-1", "client-1")
	assert.ErrorIs(t, err, apperrors.ErrJobAlreadyAssigned)

	assert.Empty(t, proposalRepo.markedAccepted)
	assert.Empty(t, proposalRepo.rejectCalls)
	assert.Empty(t, notifier.statusNotices)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Accept_NotJobOwner(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{proposal: pendingProposal(job, "artist-1")}
	jobRepo := &jobRepoStub{job: job, casWon: true}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{}, &notifierStub{})

	err := svc.Accept(nil, "proposal-1", "client-2")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Equal(t, 0, jobRepo.casCalls)
}

func TestProposalService_Accept_ProposalNotPending(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposal := pendingProposal(job, "artist-1")
	proposal.Status = models.ProposalStatusWithdrawn

	proposalRepo := &proposalRepoStub{proposal: proposal}
	jobRepo := &jobRepoStub{job: job, casWon: true}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{}, &notifierStub{})

	err := svc.Accept(nil, "proposal-1", "client-1")
	assert.ErrorIs(t, err, apperrors.ErrProposalNotPending)
	assert.Equal(t, 0, jobRepo.casCalls)
}

func TestProposalService_Accept_JobNotAssignable(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	job.Status = models.JobStatusCompleted

	proposalRepo := &proposalRepoStub{proposal: pendingProposal(job, "artist-1")}
	jobRepo := &jobRepoStub{job: job, casWon: true}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{}, &notifierStub{})

	err := svc.Accept(nil, "proposal-1", "client-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidJobStatus)
	assert.Equal(t, 0, jobRepo.casCalls)
}

func activeArtist(id string) *models.User {
	u := &models.User{
		Name:   "Jane",
		Email:  "jane@example.com",
		Role:   models.UserRoleArtist,
		Status: models.UserStatusActive,
	}
	u.ID = id
	return u
}

func TestProposalService_Submit(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{}
	jobRepo := &jobRepoStub{job: job}
	notifier := &notifierStub{}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{user: activeArtist("artist-1")}, notifier)

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	req := &dto.SubmitProposalRequest{
		Message: "I have shot over forty weddings and can cover the full day.",
		Price:   900,
	}
	resp, err := svc.Submit(db, "job-1", "artist-1", req)
	require.NoError(t, err)

	// Currency falls back to the job's currency when the bid omits it.
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, models.ProposalStatusPending, resp.Status)
	assert.Equal(t, []string{"job-1"}, jobRepo.incremented)
	assert.Equal(t, 1, notifier.newProposals)
	assert.Equal(t, "client-1", notifier.notifiedUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Submit_Duplicate(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{createErr: repositories.ErrProposalAlreadyExists}
	jobRepo := &jobRepoStub{job: job}
	notifier := &notifierStub{}
	svc := newProposalServiceForTest(proposalRepo, jobRepo, &userRepoStub{user: activeArtist("artist-1")}, notifier)

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	req := &dto.SubmitProposalRequest{
		Message: "I have shot over forty weddings and can cover the full day.",
		Price:   900,
	}
	_, err := svc.Submit(db, "job-1", "artist-1", req)
	assert.ErrorIs(t, err, apperrors.ErrProposalAlreadyExists)

	assert.Empty(t, jobRepo.incremented)
	assert.Equal(t, 0, notifier.newProposals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProposalService_Submit_DeadlinePassed(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	job.ApplicationDeadline = testClock.Add(-time.Hour)

	svc := newProposalServiceForTest(&proposalRepoStub{}, &jobRepoStub{job: job}, &userRepoStub{user: activeArtist("artist-1")}, &notifierStub{})

	req := &dto.SubmitProposalRequest{
		Message: "I have shot over forty weddings and can cover the full day.",
		Price:   900,
	}
	_, err := svc.Submit(nil, "job-1", "artist-1", req)
	assert.ErrorIs(t, err, apperrors.ErrJobNotAcceptingProposals)
}

func TestProposalService_Submit_JobFull(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	job.ProposalsCount = job.MaxApplications

	svc := newProposalServiceForTest(&proposalRepoStub{}, &jobRepoStub{job: job}, &userRepoStub{user: activeArtist("artist-1")}, &notifierStub{})

	req := &dto.SubmitProposalRequest{
		Message: "I have shot over forty weddings and can cover the full day.",
		Price:   900,
	}
	_, err := svc.Submit(nil, "job-1", "artist-1", req)
	assert.ErrorIs(t, err, apperrors.ErrProposalLimitReached)
}
