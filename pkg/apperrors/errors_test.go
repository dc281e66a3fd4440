package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapsAndUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("row not found")
	appErr := ErrNotFound(cause)

	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.True(t, errors.Is(appErr, cause))

	var target *AppError
	require.True(t, As(appErr, &target))
	assert.Equal(t, appErr, target)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	t.Parallel()

	details := map[string]string{"email": "Must be a valid email address"}
	appErr := ValidationError(details)

	assert.Equal(t, CodeValidationFailed, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Equal(t, details, appErr.Details)
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	t.Parallel()

	appErr := InternalError(errors.New("pq: connection refused"))

	raw, err := json.Marshal(appErr)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "connection refused")
	assert.NotContains(t, body, "HTTPCode")
	assert.Contains(t, body, string(CodeInternalError))
}

func TestPredefinedErrorsMapToConflict(t *testing.T) {
	t.Parallel()

	for _, appErr := range []*AppError{
		ErrJobAlreadyAssigned,
		ErrProposalNotPending,
		ErrProposalAlreadyExists,
		ErrReviewAlreadyExists,
		ErrJobNotCompleted,
		ErrInvalidJobStatus,
		ErrJobNotAcceptingProposals,
		ErrProposalLimitReached,
	} {
		assert.Equal(t, http.StatusConflict, appErr.HTTPCode, appErr.Message)
	}

	assert.Equal(t, http.StatusForbidden, ErrInsufficientPermissions.HTTPCode)
	assert.Equal(t, http.StatusUnauthorized, ErrInvalidCredentials.HTTPCode)
}

func TestErrorStringIncludesDomainAndCode(t *testing.T) {
	t.Parallel()

	appErr := New(CodeConflict, "proposal", "already accepted", http.StatusConflict)
	msg := appErr.Error()

	assert.Contains(t, msg, "proposal")
	assert.Contains(t, msg, string(CodeConflict))
	assert.Contains(t, msg, "already accepted")
}
