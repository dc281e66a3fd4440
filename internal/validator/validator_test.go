package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email   string  `json:"email" validate:"required,email"`
	Message string  `json:"message" validate:"required,min=50,max=1000"`
	Price   float64 `json:"price" validate:"required,min=10"`
	Role    string  `json:"role" validate:"omitempty,oneof=client artist"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sampleRequest{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)

	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "message")
	assert.Contains(t, vErr.Errors, "price")
	assert.NotContains(t, vErr.Errors, "Email")
}

func TestValidate_MessagePerTag(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sampleRequest{
		Email:   "not-an-email",
		Message: "too short",
		Price:   5,
		Role:    "moderator",
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)

	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors["message"], "at least 50")
	assert.Contains(t, vErr.Errors["price"], "at least 10")
	assert.Contains(t, vErr.Errors["role"], "client, artist")
}

func TestValidate_PassesValidStruct(t *testing.T) {
	t.Parallel()

	v := New()
	err := v.Validate(&sampleRequest{
		Email:   "artist@example.com",
		Message: "I would love to play at your event, here is my detailed pitch for it.",
		Price:   150,
		Role:    "artist",
	})
	assert.NoError(t, err)
}

func TestValidationError_ErrorString(t *testing.T) {
	t.Parallel()

	vErr := &ValidationError{Errors: map[string]string{"email": "This field is required"}}
	assert.Contains(t, vErr.Error(), "email")
	assert.Contains(t, vErr.Error(), "This field is required")
}
