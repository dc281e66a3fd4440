package services

// ServiceContainer bundles all services for handler wiring.
type ServiceContainer struct {
	AuthService         AuthService
	JobService          JobService
	ProposalService     ProposalService
	ReviewService       ReviewService
	RatingService       RatingService
	NotificationService NotificationService
}
