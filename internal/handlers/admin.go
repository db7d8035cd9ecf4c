package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
	"skillswap/api/internal/service"
)

func (h HandlerSet) AdminDashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := h.swapSummaries(c, dashboard.RecentSwaps...)
	recent := make([]swapResponse, 0, len(dashboard.RecentSwaps))
	for _, swap := range dashboard.RecentSwaps {
		recent = append(recent, toSwapResponse(swap, summaries))
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       dashboard.Stats,
		"recentSwaps": recent,
	})
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	limit, offset, page := pagination(c, 20, 200)

	filter := repository.UserFilter{Search: c.Query("search")}
	switch c.Query("status") {
	case "banned":
		banned := true
		filter.Banned = &banned
	case "active":
		banned := false
		filter.Banned = &banned
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), filter, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      resp,
		"pagination": paginationMeta(page, limit, total),
	})
}

type banUserRequest struct {
	IsBanned *bool  `json:"isBanned" binding:"required"`
	Reason   string `json:"reason"`
}

func (h HandlerSet) AdminBanUser(c *gin.Context) {
	var req banUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	user, err := h.adminService.SetBanned(c.Request.Context(), c.Param("id"), *req.IsBanned)
	if err != nil {
		h.respondError(c, err)
		return
	}

	verb := "unbanned"
	if *req.IsBanned {
		verb = "banned"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("user %s", verb),
		"user":    toUserResponse(user),
	})
}

func (h HandlerSet) AdminModerateSkills(c *gin.Context) {
	var req updateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	user, err := h.adminService.ModerateSkills(c.Request.Context(), c.Param("id"), req.SkillsOffered, req.SkillsWanted)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) AdminListSwaps(c *gin.Context) {
	limit, offset, page := pagination(c, 20, 200)

	filter := repository.SwapFilter{
		Status:   models.SwapStatus(c.Query("status")),
		Reported: c.Query("reported") == "true",
	}

	swaps, total, err := h.adminService.ListSwaps(c.Request.Context(), filter, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := h.swapSummaries(c, swaps...)
	resp := make([]swapResponse, 0, len(swaps))
	for _, swap := range swaps {
		resp = append(resp, toSwapResponse(swap, summaries))
	}

	c.JSON(http.StatusOK, gin.H{
		"swaps":      resp,
		"pagination": paginationMeta(page, limit, total),
	})
}

type createMessageRequest struct {
	Title     string     `json:"title" binding:"required"`
	Message   string     `json:"message" binding:"required"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h HandlerSet) AdminCreateMessage(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	msg, err := h.adminService.CreateMessage(c.Request.Context(), caller.ID, service.CreateMessageInput{
		Title:     req.Title,
		Body:      req.Message,
		Type:      models.MessageType(req.Type),
		Priority:  models.MessagePriority(req.Priority),
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "platform message created",
		"adminMessage": toMessageResponse(msg, caller.ID),
	})
}

func (h HandlerSet) AdminListMessages(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset, page := pagination(c, 20, 200)

	messages, total, err := h.adminService.ListMessages(c.Request.Context(), c.Query("active") == "true", limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg, caller.ID))
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":   resp,
		"pagination": paginationMeta(page, limit, total),
	})
}

type updateMessageRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h HandlerSet) AdminUpdateMessage(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	msg, err := h.adminService.SetMessageActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"adminMessage": toMessageResponse(msg, caller.ID)})
}

func (h HandlerSet) AdminReports(c *gin.Context) {
	var since, until *time.Time
	if start, end := c.Query("startDate"), c.Query("endDate"); start != "" && end != "" {
		s, err := time.Parse("2006-01-02", start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "startDate must be YYYY-MM-DD"})
			return
		}
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": "endDate must be YYYY-MM-DD"})
			return
		}
		since, until = &s, &e
	}

	report, err := h.adminService.BuildReport(c.Request.Context(), c.Query("type"), since, until)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h HandlerSet) AdminReportCSV(c *gin.Context) {
	data, filename, err := h.adminService.ExportCSV(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
