package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/japhet-mokoumbou/chat-platform/pkg/utils"
)

// Auth rejects requests without a valid bearer token and stashes the
// caller's identity in the gin context for handlers downstream.
// WebSocket clients cannot set headers, so a ?token= query parameter is
// accepted as a fallback.
func Auth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, utils.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.UserName)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// CallerID returns the authenticated user id set by Auth.
func CallerID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
