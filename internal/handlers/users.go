package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"skillswap/api/internal/models"
	"skillswap/api/internal/service"
)

type userResponse struct {
	ID              string                `json:"id"`
	Username        string                `json:"username"`
	Email           string                `json:"email,omitempty"`
	FullName        string                `json:"fullName"`
	Location        string                `json:"location"`
	ProfilePhoto    string                `json:"profilePhoto"`
	Bio             string                `json:"bio"`
	SkillsOffered   []models.SkillOffered `json:"skillsOffered"`
	SkillsWanted    []models.SkillWanted  `json:"skillsWanted"`
	Availability    []string              `json:"availability"`
	IsProfilePublic bool                  `json:"isProfilePublic"`
	IsVerified      bool                  `json:"isVerified"`
	IsBanned        bool                  `json:"isBanned"`
	Role            string                `json:"role"`
	AverageRating   float64               `json:"averageRating"`
	RatingCount     int                   `json:"ratingCount"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// toUserResponse is the full owner/admin view including email.
func toUserResponse(user models.User) userResponse {
	resp := toPublicUserResponse(user)
	resp.Email = user.Email
	return resp
}

// toPublicUserResponse strips contact details for member-to-member views.
func toPublicUserResponse(user models.User) userResponse {
	return userResponse{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Location:        user.Location,
		ProfilePhoto:    user.ProfilePhoto,
		Bio:             user.Bio,
		SkillsOffered:   user.SkillsOffered,
		SkillsWanted:    user.SkillsWanted,
		Availability:    user.Availability,
		IsProfilePublic: user.IsProfilePublic,
		IsVerified:      user.IsVerified,
		IsBanned:        user.IsBanned,
		Role:            string(user.Role),
		AverageRating:   user.AverageRating,
		RatingCount:     user.RatingCount,
		CreatedAt:       user.CreatedAt,
	}
}

func (h HandlerSet) BrowseUsers(c *gin.Context) {
	limit, offset, _ := pagination(c, 20, 100)

	users, err := h.userService.Browse(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toPublicUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h HandlerSet) GetUser(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userService.GetPublic(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if user.ID == caller.ID {
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toPublicUserResponse(user)})
}

type updateProfileRequest struct {
	FullName        string   `json:"fullName" binding:"required"`
	Location        string   `json:"location"`
	ProfilePhoto    string   `json:"profilePhoto"`
	Bio             string   `json:"bio"`
	Availability    []string `json:"availability"`
	IsProfilePublic bool     `json:"isProfilePublic"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), caller.ID, service.UpdateProfileInput{
		FullName:        req.FullName,
		Location:        req.Location,
		ProfilePhoto:    req.ProfilePhoto,
		Bio:             req.Bio,
		Availability:    req.Availability,
		IsProfilePublic: req.IsProfilePublic,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type updateSkillsRequest struct {
	SkillsOffered []models.SkillOffered `json:"skillsOffered"`
	SkillsWanted  []models.SkillWanted  `json:"skillsWanted"`
}

func (h HandlerSet) UpdateSkills(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation", "message": err.Error()})
		return
	}

	user, err := h.userService.UpdateSkills(c.Request.Context(), caller.ID, req.SkillsOffered, req.SkillsWanted)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type messageResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Priority  string     `json:"priority"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toMessageResponse(msg models.AdminMessage, viewerID string) messageResponse {
	read := false
	for _, receipt := range msg.ReadBy {
		if receipt.UserID == viewerID {
			read = true
			break
		}
	}
	return messageResponse{
		ID:        msg.ID,
		Title:     msg.Title,
		Message:   msg.Body,
		Type:      string(msg.Type),
		Priority:  string(msg.Priority),
		IsActive:  msg.IsActive,
		ExpiresAt: msg.ExpiresAt,
		Read:      read,
		CreatedAt: msg.CreatedAt,
	}
}

func (h HandlerSet) ActiveMessages(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset, _ := pagination(c, 20, 100)

	messages, err := h.adminService.ActiveMessages(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg, caller.ID))
	}

	c.JSON(http.StatusOK, gin.H{"messages": resp})
}

func (h HandlerSet) MarkMessageRead(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.adminService.MarkMessageRead(c.Request.Context(), c.Param("id"), caller.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
