package routers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appconfig "github.com/japhet-mokoumbou/chat-platform/config"
	"github.com/japhet-mokoumbou/chat-platform/internal/handlers"
	"github.com/japhet-mokoumbou/chat-platform/internal/middlewares"
	"github.com/japhet-mokoumbou/chat-platform/internal/ratelimit"
	"github.com/japhet-mokoumbou/chat-platform/pkg/utils"
	"github.com/japhet-mokoumbou/chat-platform/pkg/ws"
)

// SetupRoutes wires every route. The WebSocket endpoint is registered
// before the API groups so the upgrade request skips their middleware
// chain.
func SetupRoutes(r *gin.Engine, cfg *appconfig.Config,
	tokens *utils.TokenManager,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	contactHandler *handlers.ContactHandler,
	groupHandler *handlers.GroupHandler,
	messageHandler *handlers.MessageHandler,
	limiter ratelimit.Limiter,
	hub *ws.Hub,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	auth := middlewares.Auth(tokens)

	r.GET("/ws", auth, func(c *gin.Context) {
		ws.ServeWs(hub, c)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	userGroup := r.Group("/user", auth)
	{
		userGroup.GET("/profile", userHandler.GetProfile)
		userGroup.PUT("/profile", userHandler.UpdateProfile)
		userGroup.GET("/settings", userHandler.GetSettings)
		userGroup.PUT("/settings", userHandler.UpdateSettings)
	}

	contactGroup := r.Group("/contacts", auth)
	{
		contactGroup.POST("", contactHandler.Add)
		contactGroup.GET("", contactHandler.List)
		contactGroup.PUT("/:id", contactHandler.Update)
		contactGroup.DELETE("/:id", contactHandler.Delete)
	}

	groupGroup := r.Group("/groups", auth)
	{
		groupGroup.POST("", groupHandler.Create)
		groupGroup.GET("", groupHandler.List)
		groupGroup.GET("/:id", groupHandler.Get)
		groupGroup.DELETE("/:id", groupHandler.Delete)
		groupGroup.POST("/:id/members", groupHandler.AddMember)
		groupGroup.DELETE("/:id/members/:userId", groupHandler.RemoveMember)
	}

	uploadLimit := middlewares.RateLimit(limiter, "upload", cfg.RateLimit.UploadPerMinute, time.Minute)

	messageGroup := r.Group("/messages", auth)
	{
		messageGroup.POST("", messageHandler.Send)
		messageGroup.POST("/upload", uploadLimit, messageHandler.Upload)
		messageGroup.POST("/send-file", messageHandler.SendFile)

		messageGroup.POST("/:id/delivered", messageHandler.MarkDelivered)
		messageGroup.POST("/:id/read", messageHandler.MarkRead)
		messageGroup.PUT("/:id", messageHandler.Edit)
		messageGroup.DELETE("/:id", messageHandler.Delete)

		messageGroup.GET("/user", messageHandler.ListReceived)
		messageGroup.GET("/user/paged", messageHandler.ListReceivedPaged)
		messageGroup.GET("/sent", messageHandler.ListSent)
		messageGroup.GET("/sent/paged", messageHandler.ListSentPaged)
		messageGroup.GET("/group/:id", messageHandler.ListGroup)
		messageGroup.GET("/group/:id/paged", messageHandler.ListGroupPaged)
		messageGroup.GET("/between", messageHandler.Between)

		messageGroup.GET("/thumbnail/:id", messageHandler.Thumbnail)
		messageGroup.GET("/preview/:id", messageHandler.Preview)
		messageGroup.GET("/download/:id", messageHandler.Download)
	}
}
