package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/japhet-mokoumbou/chat-platform/internal/middlewares"
	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/services"
	"github.com/japhet-mokoumbou/chat-platform/internal/upload"
	"github.com/japhet-mokoumbou/chat-platform/pkg/mq"
	"github.com/japhet-mokoumbou/chat-platform/pkg/ws"
)

type SendMessageRequest struct {
	ReceiverID *uint  `json:"receiverId"`
	GroupID    *uint  `json:"groupId"`
	Content    string `json:"content"`
}

type SendFileRequest struct {
	ReceiverID *uint  `json:"receiverId"`
	GroupID    *uint  `json:"groupId"`
	Content    string `json:"content"`
	FileMeta   string `json:"fileMeta" binding:"required"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageHandler carries an optional Kafka producer: with one, new
// messages reach the hub through the topic; without one they go
// straight to the hub.
type MessageHandler struct {
	MessageService *services.MessageService
	Pipeline       *upload.Pipeline
	Hub            *ws.Hub
	Producer       *mq.KafkaProducer
	log            *zap.Logger
}

func NewMessageHandler(messageService *services.MessageService, pipeline *upload.Pipeline, hub *ws.Hub, producer *mq.KafkaProducer, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		MessageService: messageService,
		Pipeline:       pipeline,
		Hub:            hub,
		Producer:       producer,
		log:            log,
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	req := SendMessageRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	target, err := services.TargetFromIDs(req.ReceiverID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.MessageService.Send(middlewares.CallerID(c), target, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	h.broadcast(msg)
	c.JSON(http.StatusCreated, gin.H{"message": "message sent", "data": msg})
}

// Upload runs a multipart file through the storage pipeline and hands
// back the metadata record to attach with a later send-file call.
func (h *MessageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file part"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file part"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, upload.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file part"})
		return
	}

	meta, err := h.Pipeline.Store(middlewares.CallerID(c), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filePath":      meta.Path,
		"mimeType":      meta.MimeType,
		"fileSize":      meta.Size,
		"width":         meta.Width,
		"height":        meta.Height,
		"duration":      meta.Duration,
		"thumbnailPath": meta.ThumbnailPath,
		"fileMeta":      meta.String(),
	})
}

func (h *MessageHandler) SendFile(c *gin.Context) {
	req := SendFileRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	target, err := services.TargetFromIDs(req.ReceiverID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}
	meta, err := upload.ParseFileMeta(req.FileMeta)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.MessageService.SendFile(middlewares.CallerID(c), target, req.Content, meta)
	if err != nil {
		respondError(c, err)
		return
	}
	h.broadcast(msg)
	c.JSON(http.StatusCreated, gin.H{"message": "message sent", "data": msg})
}

func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.MessageService.MarkDelivered(messageID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.MessageService.MarkRead(messageID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Edit(c *gin.Context) {
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	req := EditMessageRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	msg, err := h.MessageService.Edit(messageID, middlewares.CallerID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.MessageService.SoftDelete(messageID, middlewares.CallerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (h *MessageHandler) ListReceived(c *gin.Context) {
	msgs, err := h.MessageService.ListReceived(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) ListReceivedPaged(c *gin.Context) {
	page, err := h.MessageService.ListReceivedPaged(middlewares.CallerID(c), queryInt(c, "page", 0), queryInt(c, "size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MessageHandler) ListSent(c *gin.Context) {
	msgs, err := h.MessageService.ListSent(middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) ListSentPaged(c *gin.Context) {
	page, err := h.MessageService.ListSentPaged(middlewares.CallerID(c), queryInt(c, "page", 0), queryInt(c, "size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MessageHandler) ListGroup(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	msgs, err := h.MessageService.ListGroup(groupID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) ListGroupPaged(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, err := h.MessageService.ListGroupPaged(groupID, middlewares.CallerID(c), queryInt(c, "page", 0), queryInt(c, "size", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *MessageHandler) Between(c *gin.Context) {
	user1, ok := queryID(c, "user1")
	if !ok {
		return
	}
	user2, ok := queryID(c, "user2")
	if !ok {
		return
	}

	msgs, err := h.MessageService.Between(middlewares.CallerID(c), user1, user2)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) Thumbnail(c *gin.Context) {
	msg, ok := h.fileMessage(c)
	if !ok {
		return
	}
	if msg.ThumbnailPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no thumbnail for this message"})
		return
	}
	c.File(msg.ThumbnailPath)
}

func (h *MessageHandler) Preview(c *gin.Context) {
	msg, ok := h.fileMessage(c)
	if !ok {
		return
	}
	if msg.MimeType != "" {
		c.Header("Content-Type", msg.MimeType)
	}
	c.File(msg.FilePath)
}

func (h *MessageHandler) Download(c *gin.Context) {
	msg, ok := h.fileMessage(c)
	if !ok {
		return
	}
	c.FileAttachment(msg.FilePath, filepath.Base(msg.FilePath))
}

// fileMessage resolves the :id parameter to a file message the caller
// may access, answering the error responses itself.
func (h *MessageHandler) fileMessage(c *gin.Context) (*models.Message, bool) {
	messageID, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	msg, err := h.MessageService.Get(messageID, middlewares.CallerID(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if msg.Type != models.MessageTypeFile || msg.FilePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "message carries no file"})
		return nil, false
	}
	return msg, true
}

// broadcast pushes a freshly stored message to connected clients,
// through Kafka when configured. Delivery is best-effort; the message
// is already persisted.
func (h *MessageHandler) broadcast(msg *models.Message) {
	event := &ws.Event{Type: "message", Data: msg}

	if h.Producer != nil {
		key := conversationKey(msg)
		if err := h.Producer.Publish(key, event); err != nil {
			h.log.Warn("kafka publish failed, broadcasting directly", zap.Error(err))
			h.Hub.Broadcast(event)
		}
		return
	}
	h.Hub.Broadcast(event)
}

// conversationKey keeps events of one conversation in one partition.
func conversationKey(msg *models.Message) string {
	if msg.GroupID != nil {
		return fmt.Sprintf("group:%d", *msg.GroupID)
	}
	if msg.ReceiverID != nil {
		return fmt.Sprintf("user:%d", *msg.ReceiverID)
	}
	return fmt.Sprintf("sender:%d", msg.SenderID)
}
