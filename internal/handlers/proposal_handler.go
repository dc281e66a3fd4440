package handlers

import (
	"net/http"

	"artbook_backend/internal/middleware"
	"artbook_backend/internal/models"
	"artbook_backend/internal/services"
	"artbook_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("/:jobId/proposals", middleware.RequireRoles(models.UserRoleArtist), h.SubmitProposal)
		jobs.GET("/:jobId/proposals", middleware.RequireRoles(models.UserRoleClient), h.GetJobProposals)
	}

	proposals := r.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.GET("/my", middleware.RequireRoles(models.UserRoleArtist), h.GetMyProposals)
		proposals.GET("/:proposalId", h.GetProposal)

		artistOnly := proposals.Group("")
		artistOnly.Use(middleware.RequireRoles(models.UserRoleArtist))
		{
			artistOnly.PUT("/:proposalId", h.UpdateProposal)
			artistOnly.POST("/:proposalId/withdraw", h.WithdrawProposal)
		}

		clientOnly := proposals.Group("")
		clientOnly.Use(middleware.RequireRoles(models.UserRoleClient))
		{
			clientOnly.POST("/:proposalId/accept", h.AcceptProposal)
			clientOnly.POST("/:proposalId/reject", h.RejectProposal)
		}
	}
}

func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	var req dto.SubmitProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.Submit(h.GetDB(c), jobID, artistID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

func (h *ProposalHandler) GetJobProposals(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	jobID := c.Param("jobId")

	proposals, err := h.proposalService.GetJobProposals(h.GetDB(c), jobID, requesterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

func (h *ProposalHandler) GetMyProposals(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	proposals, err := h.proposalService.GetArtistProposals(h.GetDB(c), artistID, artistID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	requesterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	proposalID := c.Param("proposalId")

	proposal, err := h.proposalService.GetProposal(h.GetDB(c), proposalID, requesterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	proposalID := c.Param("proposalId")

	var req dto.UpdateProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.proposalService.Update(h.GetDB(c), proposalID, artistID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proposal updated successfully"})
}

func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	proposalID := c.Param("proposalId")

	if err := h.proposalService.Accept(h.GetDB(c), proposalID, clientID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proposal accepted"})
}

func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	clientID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	proposalID := c.Param("proposalId")

	var req dto.RejectProposalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.proposalService.Reject(h.GetDB(c), proposalID, clientID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proposal rejected"})
}

func (h *ProposalHandler) WithdrawProposal(c *gin.Context) {
	artistID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	proposalID := c.Param("proposalId")

	if err := h.proposalService.Withdraw(h.GetDB(c), proposalID, artistID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Proposal withdrawn"})
}
