package models

type UserStatus string
type UserRole string
type JobStatus string
type ProposalStatus string
type ReviewStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleClient    UserRole = "client"
	UserRoleArtist    UserRole = "artist"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	JobStatusDraft      JobStatus = "draft"
	JobStatusOpen       JobStatus = "open"
	JobStatusInReview   JobStatus = "in_review"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusExpired    JobStatus = "expired"

	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusAccepted  ProposalStatus = "accepted"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusWithdrawn ProposalStatus = "withdrawn"

	ReviewStatusDraft     ReviewStatus = "draft"
	ReviewStatusSubmitted ReviewStatus = "submitted"
	ReviewStatusPublished ReviewStatus = "published"
	ReviewStatusFlagged   ReviewStatus = "flagged"
	ReviewStatusRemoved   ReviewStatus = "removed"
	ReviewStatusHidden    ReviewStatus = "hidden"
)

// IsTerminal reports whether a proposal status permits no further
// transitions. pending -> {accepted, rejected, withdrawn}; all three
// are final.
func (s ProposalStatus) IsTerminal() bool {
	switch s {
	case ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusWithdrawn:
		return true
	}
	return false
}

// CanTransitionTo reports whether the proposal state machine allows
// moving from s to next.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	if s != ProposalStatusPending {
		return false
	}
	return next.IsTerminal()
}

// IsPublished reports whether a review in this status counts toward
// the artist's aggregate rating.
func (s ReviewStatus) IsPublished() bool {
	return s == ReviewStatusPublished
}
