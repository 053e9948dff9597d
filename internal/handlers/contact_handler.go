package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/japhet-mokoumbou/chat-platform/internal/middlewares"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
)

type ContactHandler struct {
	ContactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{ContactService: contactService}
}

func (h *ContactHandler) Add(c *gin.Context) {
	req := services.AddContactRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	contact, err := h.ContactService.Add(middlewares.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.ContactService.List(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Update(c *gin.Context) {
	contactID, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := services.UpdateContactRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	contact, err := h.ContactService.Update(contactID, middlewares.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	contactID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.ContactService.Delete(contactID, middlewares.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}
