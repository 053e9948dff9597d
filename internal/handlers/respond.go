package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/japhet-mokoumbou/chat-platform/internal/services"
	"github.com/japhet-mokoumbou/chat-platform/internal/upload"
)

// respondError translates a service sentinel into its HTTP status.
// Anything unrecognized is an internal error and the detail stays out
// of the response body.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContactNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrNotSender),
		errors.Is(err, services.ErrNotReceiver),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotGroupCreator),
		errors.Is(err, services.ErrNotGroupMember),
		errors.Is(err, services.ErrNotContactOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, upload.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})

	// Business-rule violations, duplicates included, are plain client
	// errors.
	case errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrContactExists),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrSelfContact),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrEmptyGroupName),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, upload.ErrBadFileMeta),
		errors.Is(err, upload.ErrDeniedExtension),
		errors.Is(err, upload.ErrUnknownMime):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathID parses a numeric path parameter, answering 400 itself on
// failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
