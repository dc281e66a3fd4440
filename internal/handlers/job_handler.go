package handlers

import (
	"net/http"

	"artbook_backend/internal/middleware"
	"artbook_backend/internal/models"
	"artbook_backend/internal/services"
	"artbook_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.GET("/:jobId", h.GetJob)
		jobs.GET("/my", h.GetMyJobs)
		jobs.GET("/:jobId/can-apply", middleware.RequireRoles(models.UserRoleArtist), h.CanApply)

		clientOnly := jobs.Group("")
		clientOnly.Use(middleware.RequireRoles(models.UserRoleClient))
		{
			clientOnly.POST("", h.CreateJob)
			clientOnly.PUT("/:jobId", h.UpdateJob)
			clientOnly.POST("/:jobId/cancel", h.CancelJob)
			clientOnly.POST("/:jobId/complete", h.CompleteJob)
			clientOnly.DELETE("/:jobId", h.DeleteJob)
		}
	}
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(h.GetDB(c), clientID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	job, err := h.jobService.GetJob(h.GetDB(c), jobID, requesterID, h.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) GetMyJobs(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.GetClientJobs(h.GetDB(c), requesterID, requesterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *JobHandler) CanApply(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	canApply, err := h.jobService.CanArtistApply(h.GetDB(c), jobID, artistID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"can_apply": canApply})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	var req dto.UpdateJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.jobService.UpdateJob(h.GetDB(c), jobID, requesterID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job updated successfully"})
}

func (h *JobHandler) CancelJob(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	if err := h.jobService.CancelJob(h.GetDB(c), jobID, requesterID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job cancelled successfully"})
}

func (h *JobHandler) CompleteJob(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	if err := h.jobService.CompleteJob(h.GetDB(c), jobID, requesterID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job completed successfully"})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	if err := h.jobService.DeleteJob(h.GetDB(c), jobID, requesterID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
