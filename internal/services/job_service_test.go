package services

import (
	"testing"
	"time"

	"artbook_backend/internal/repositories"
	"artbook_backend/internal/services/dto"
	"artbook_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	valid := &dto.CreateJobRequest{
		Title:     "Wedding photographer",
		Category:  "photographer",
		EventDate: now.Add(30 * 24 * time.Hour),
		BudgetMin: 100,
		BudgetMax: 500,
	}
	assert.NoError(t, validateJobCreate(valid, now))
}

func TestValidateJobCreate_BudgetInverted(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	req := &dto.CreateJobRequest{
		EventDate: now.Add(24 * time.Hour),
		BudgetMin: 500,
		BudgetMax: 100,
	}

	err := validateJobCreate(req, now)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "budget_max")
}

func TestValidateJobCreate_EventDateInPast(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	req := &dto.CreateJobRequest{
		EventDate: now.Add(-time.Hour),
		BudgetMin: 100,
		BudgetMax: 500,
	}

	err := validateJobCreate(req, now)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "event_date")
}

func TestValidateJobCreate_ReportsAllFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	req := &dto.CreateJobRequest{
		EventDate: now,
		BudgetMin: 500,
		BudgetMax: 500,
	}

	err := validateJobCreate(req, now)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func newJobServiceForTest(jobRepo *jobRepoStub, proposalRepo *proposalRepoStub) *jobService {
	return &jobService{
		jobRepo:      jobRepo,
		proposalRepo: proposalRepo,
		now:          func() time.Time { return testClock },
	}
}

func TestCanArtistApply(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{byJobAndArtistErr: repositories.ErrProposalNotFound}
	svc := newJobServiceForTest(&jobRepoStub{job: job}, proposalRepo)

	canApply, err := svc.CanArtistApply(nil, "job-1", "artist-1")
	require.NoError(t, err)
	assert.True(t, canApply)
}

func TestCanArtistApply_ExistingProposal(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	proposalRepo := &proposalRepoStub{proposal: pendingProposal(job, "artist-1")}
	svc := newJobServiceForTest(&jobRepoStub{job: job}, proposalRepo)

	canApply, err := svc.CanArtistApply(nil, "job-1", "artist-1")
	require.NoError(t, err)
	assert.False(t, canApply)
}

func TestCanArtistApply_JobClosed(t *testing.T) {
	t.Parallel()

	job := openJob("client-1")
	job.AcceptingApplications = false
	proposalRepo := &proposalRepoStub{byJobAndArtistErr: repositories.ErrProposalNotFound}
	svc := newJobServiceForTest(&jobRepoStub{job: job}, proposalRepo)

	canApply, err := svc.CanArtistApply(nil, "job-1", "artist-1")
	require.NoError(t, err)
	assert.False(t, canApply)
}
