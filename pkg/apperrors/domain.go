package apperrors

import (
	"net/http"
)

// Factories and predefined variables for the domain errors the
// services return. Handlers never build these themselves.

// ErrNotFound converts a repository not-found error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus reports an operation not permitted in the current
// lifecycle state (409).
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidOperation reports a logically impossible request (400).
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- Jobs ---

var ErrInvalidJobStatus = New(
	CodeInvalidStatus,
	"job",
	"Operation not allowed for the current job status",
	http.StatusConflict,
)

var ErrJobNotAcceptingProposals = New(
	CodeInvalidStatus,
	"job",
	"Job is not accepting proposals",
	http.StatusConflict,
)

var ErrJobExpired = New(
	CodeInvalidStatus,
	"job",
	"Job event date has passed",
	http.StatusConflict,
)

var ErrProposalLimitReached = New(
	CodeLimitExceeded,
	"job",
	"Job has reached its proposal limit",
	http.StatusConflict,
)

// --- Proposals ---

var ErrProposalAlreadyExists = New(
	CodeConflict,
	"proposal",
	"Artist already submitted a proposal for this job",
	http.StatusConflict,
)

var ErrProposalNotPending = New(
	CodeInvalidStatus,
	"proposal",
	"Proposal is no longer pending",
	http.StatusConflict,
)

var ErrJobAlreadyAssigned = New(
	CodeInvalidStatus,
	"proposal",
	"Job already has an accepted proposal",
	http.StatusConflict,
)

// --- Reviews ---

var ErrReviewAlreadyExists = New(
	CodeConflict,
	"review",
	"A review for this job already exists",
	http.StatusConflict,
)

var ErrJobNotCompleted = New(
	CodeInvalidStatus,
	"review",
	"Job must be completed before it can be reviewed",
	http.StatusConflict,
)

var ErrReviewNotEditable = New(
	CodeInvalidStatus,
	"review",
	"Review can no longer be edited",
	http.StatusConflict,
)
