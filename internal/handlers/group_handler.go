package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/japhet-mokoumbou/chat-platform/internal/middlewares"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{GroupService: groupService}
}

func (h *GroupHandler) Create(c *gin.Context) {
	req := services.CreateGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	group, err := h.GroupService.Create(middlewares.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.GroupService.ListForUser(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, err := h.GroupService.Get(groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := services.GroupMemberRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	group, err := h.GroupService.AddMember(groupID, req.UserID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	group, err := h.GroupService.RemoveMember(groupID, userID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.GroupService.Delete(groupID, middlewares.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}
