package handlers

// AppHandlers groups all HTTP handlers for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	JobHandler          *JobHandler
	ProposalHandler     *ProposalHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
}
