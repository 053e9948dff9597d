package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/japhet-mokoumbou/chat-platform/internal/middlewares"
	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.UserService.GetProfile(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileBody(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	req := services.UpdateProfileRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.UserService.UpdateProfile(middlewares.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileBody(user))
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	user, err := h.UserService.GetSettings(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsBody(user))
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	req := services.UpdateSettingsRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	user, err := h.UserService.UpdateSettings(middlewares.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsBody(user))
}

func profileBody(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"displayName":    u.DisplayName,
		"bio":            u.Bio,
		"profilePicture": u.ProfilePicture,
	}
}

func settingsBody(u *models.User) gin.H {
	return gin.H{
		"notificationsEnabled": u.NotificationsEnabled,
		"theme":                u.Theme,
	}
}
