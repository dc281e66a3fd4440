package handlers

import (
	"net/http"

	"artbook_backend/internal/middleware"
	"artbook_backend/internal/models"
	"artbook_backend/internal/services"
	"artbook_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
	ratingService services.RatingService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService, ratingService services.RatingService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
		ratingService: ratingService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/reviews")
	{
		public.GET("/:reviewId", h.GetReview)
		public.GET("/artists/:artistId", h.GetArtistReviews)
	}
	r.GET("/artists/:artistId/rating", h.GetArtistRating)

	// Protected routes
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("/:reviewId/flag", h.FlagReview)

		clientOnly := reviews.Group("")
		clientOnly.Use(middleware.RequireRoles(models.UserRoleClient))
		{
			clientOnly.POST("", h.CreateReview)
			clientOnly.GET("/my", h.GetMyReviews)
			clientOnly.PUT("/:reviewId", h.UpdateReview)
			clientOnly.DELETE("/:reviewId", h.DeleteReview)
		}
	}

	// Moderation routes
	admin := r.Group("/admin/reviews")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleModerator, models.UserRoleAdmin))
	{
		admin.POST("/:reviewId/moderate", h.ModerateReview)
	}
}

// --- Public handlers ---

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID := c.Param("reviewId")

	review, err := h.reviewService.GetReview(h.GetDB(c), reviewID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) GetArtistReviews(c *gin.Context) {
	artistID := c.Param("artistId")

	reviews, err := h.reviewService.GetArtistReviews(h.GetDB(c), artistID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

func (h *ReviewHandler) GetArtistRating(c *gin.Context) {
	artistID := c.Param("artistId")

	rating, err := h.ratingService.GetArtistRating(h.GetDB(c), artistID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// --- Client handlers ---

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(h.GetDB(c), reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.GetMyReviews(h.GetDB(c), reviewerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.UpdateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(h.GetDB(c), reviewID, reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	if err := h.reviewService.DeleteReview(h.GetDB(c), reviewID, reviewerID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	reporterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.FlagReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.reviewService.FlagReview(h.GetDB(c), reviewID, reporterID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review flagged for moderation"})
}

// --- Moderation handlers ---

func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	moderatorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	reviewID := c.Param("reviewId")

	var req dto.ModerateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.reviewService.ModerateReview(h.GetDB(c), reviewID, moderatorID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review moderated"})
}
