package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
	"skillswap/api/internal/service"
)

type swapResponse struct {
	ID           string                  `json:"id"`
	Requester    *repository.UserSummary `json:"requester,omitempty"`
	Requested    *repository.UserSummary `json:"requested,omitempty"`
	RequesterID  string                  `json:"requesterId"`
	RequestedID  string                  `json:"requestedId"`
	SkillOffered models.SkillSnapshot    `json:"skillOffered"`
	SkillWanted  models.SkillSnapshot    `json:"skillWanted"`
	Message      string                  `json:"message"`
	Status       string                  `json:"status"`
	ProposedDate *time.Time              `json:"proposedDate,omitempty"`
	Duration     string                  `json:"duration"`
	CompletedAt  *time.Time              `json:"completedAt,omitempty"`

	RequesterRating *models.SwapRating `json:"requesterRating,omitempty"`
	RequestedRating *models.SwapRating `json:"requestedRating,omitempty"`

	IsReported bool      `json:"isReported"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toSwapResponse(swap models.SwapRequest, summaries map[string]repository.UserSummary) swapResponse {
	resp := swapResponse{
		ID:              swap.ID,
		RequesterID:     swap.RequesterID,
		RequestedID:     swap.RequestedID,
		SkillOffered:    swap.SkillOffered,
		SkillWanted:     swap.SkillWanted,
		Message:         swap.Message,
		Status:          string(swap.Status),
		ProposedDate:    swap.ProposedDate,
		Duration:        swap.Duration,
		CompletedAt:     swap.CompletedAt,
		RequesterRating: swap.RequesterRating,
		RequestedRating: swap.RequestedRating,
		IsReported:      swap.IsReported,
		CreatedAt:       swap.CreatedAt,
	}
	if s, ok := summaries[swap.RequesterID]; ok {
		resp.Requester = &s
	}
	if s, ok := summaries[swap.RequestedID]; ok {
		resp.Requested = &s
	}
	return resp
}

// swapSummaries loads the participant summaries for a batch of swaps.
func (h HandlerSet) swapSummaries(c *gin.Context, swaps ...models.SwapRequest) map[string]repository.UserSummary {
	idSet := make(map[string]struct{}, len(swaps)*2)
	for _, swap := range swaps {
		idSet[swap.RequesterID] = struct{}{}
		idSet[swap.RequestedID] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	summaries, err := h.users.Summaries(c.Request.Context(), ids)
	if err != nil {
		h.log.Warn().Err(err).Msg("participant summary lookup failed")
		return nil
	}
	return summaries
}

type createSwapRequest struct {
	RequestedUserID string               `json:"requestedUserId" binding:"required"`
	SkillOffered    models.SkillSnapshot `json:"skillOffered"`
	SkillWanted     models.SkillSnapshot `json:"skillWanted"`
	Message         string               `json:"message"`
	ProposedDate    *time.Time           `json:"proposedDate"`
	Duration        string               `json:"duration"`
}

func (h HandlerSet) CreateSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	swap, err := h.swapService.Create(c.Request.Context(), caller.ID, service.CreateSwapInput{
		RequestedUserID: req.RequestedUserID,
		SkillOffered:    req.SkillOffered,
		SkillWanted:     req.SkillWanted,
		Message:         req.Message,
		ProposedDate:    req.ProposedDate,
		Duration:        req.Duration,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"swapRequest": toSwapResponse(swap, h.swapSummaries(c, swap)),
	})
}

func (h HandlerSet) GetSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	swap, err := h.swapService.Get(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swapRequest": toSwapResponse(swap, h.swapSummaries(c, swap)),
	})
}

func (h HandlerSet) ListSwaps(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset, _ := pagination(c, 20, 100)

	swaps, err := h.swapService.ListByParticipant(c.Request.Context(), caller.ID, service.ListSide(c.Query("side")), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := h.swapSummaries(c, swaps...)
	resp := make([]swapResponse, 0, len(swaps))
	for _, swap := range swaps {
		resp = append(resp, toSwapResponse(swap, summaries))
	}

	c.JSON(http.StatusOK, gin.H{"swapRequests": resp})
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) SetSwapStatus(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	swap, err := h.swapService.SetStatus(c.Request.Context(), caller.ID, c.Param("id"), models.SwapStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swapRequest": toSwapResponse(swap, h.swapSummaries(c, swap)),
	})
}

func (h HandlerSet) CancelSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.swapService.Cancel(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "swap request cancelled"})
}

func (h HandlerSet) CompleteSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	swap, err := h.swapService.Complete(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"swapRequest": toSwapResponse(swap, h.swapSummaries(c, swap)),
	})
}

type rateSwapRequest struct {
	// Rating binds as a number so fractional values reach the core and are
	// rejected there instead of being truncated at the JSON layer.
	Rating   *float64 `json:"rating" binding:"required"`
	Feedback string   `json:"feedback"`
}

func (h HandlerSet) RateSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req rateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_rating", "message": "rating must be a number between 1 and 5"})
		return
	}

	if err := h.swapService.Rate(c.Request.Context(), caller.ID, c.Param("id"), *req.Rating, req.Feedback); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating submitted"})
}

type reportSwapRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h HandlerSet) ReportSwap(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req reportSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	if err := h.swapService.Report(c.Request.Context(), caller.ID, c.Param("id"), req.Reason); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "swap reported"})
}
