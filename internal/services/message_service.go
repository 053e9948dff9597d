package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/upload"
	"github.com/japhet-mokoumbou/chat-platform/internal/xmlstore"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSender       = errors.New("only the sender may modify this message")
	ErrNotReceiver     = errors.New("only the receiver may acknowledge this message")
	ErrNotParticipant  = errors.New("caller is not a participant of this conversation")
	ErrEmptyContent    = errors.New("message content must not be empty")
)

const defaultPageSize = 20

// PagedMessages mirrors the shape of a page of results: the slice plus
// the bookkeeping a client needs to drive pagination.
type PagedMessages struct {
	Content       []models.Message `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Number        int              `json:"number"`
	Size          int              `json:"size"`
	Last          bool             `json:"last"`
}

type MessageService struct {
	messageRepo *repositories.MessageRepository
	userRepo    *repositories.UserRepository
	groupRepo   *repositories.GroupRepository
	exporter    *xmlstore.Exporter
}

func NewMessageService(messageRepo *repositories.MessageRepository, userRepo *repositories.UserRepository, groupRepo *repositories.GroupRepository, exporter *xmlstore.Exporter) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		exporter:    exporter,
	}
}

// Send stores a plain text message addressed to the given target.
func (s *MessageService) Send(senderID uint, target Target, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	msg, err := s.newMessage(senderID, target)
	if err != nil {
		return nil, err
	}
	msg.Content = content
	msg.Type = models.MessageTypeText

	if err := s.messageRepo.Create(msg); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return msg, nil
}

// SendFile stores a file message. The attachment must already have been
// run through the upload pipeline; meta carries its stored location and
// media attributes.
func (s *MessageService) SendFile(senderID uint, target Target, caption string, meta *upload.FileMeta) (*models.Message, error) {
	if meta == nil || meta.Path == "" {
		return nil, upload.ErrBadFileMeta
	}
	msg, err := s.newMessage(senderID, target)
	if err != nil {
		return nil, err
	}
	msg.Content = caption
	msg.Type = models.MessageTypeFile
	msg.FilePath = meta.Path
	msg.MimeType = meta.MimeType
	msg.FileSize = meta.Size
	msg.Width = meta.Width
	msg.Height = meta.Height
	msg.Duration = meta.Duration
	msg.ThumbnailPath = meta.ThumbnailPath

	if err := s.messageRepo.Create(msg); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return msg, nil
}

func (s *MessageService) newMessage(senderID uint, target Target) (*models.Message, error) {
	exists, err := s.userRepo.ExistsByID(senderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	msg := &models.Message{
		SenderID: senderID,
		SentAt:   time.Now(),
	}
	switch {
	case target.IsPrivate():
		receiverID, _ := target.ReceiverID()
		exists, err := s.userRepo.ExistsByID(receiverID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrUserNotFound
		}
		msg.ReceiverID = &receiverID
	case target.IsGroup():
		groupID, _ := target.GroupID()
		if _, err := s.groupRepo.GetByID(groupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
		member, err := s.groupRepo.IsMember(groupID, senderID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrNotGroupMember
		}
		msg.GroupID = &groupID
	default:
		return nil, ErrInvalidTarget
	}
	return msg, nil
}

// MarkDelivered flags a private message as delivered. Only the receiver
// may acknowledge; repeat calls keep the first timestamp.
func (s *MessageService) MarkDelivered(messageID, callerID uint) (*models.Message, error) {
	msg, err := s.getForReceiver(messageID, callerID)
	if err != nil {
		return nil, err
	}
	if msg.Delivered {
		return msg, nil
	}
	now := time.Now()
	msg.Delivered = true
	msg.DeliveredAt = &now
	if err := s.messageRepo.Update(msg); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return msg, nil
}

// MarkRead flags a private message as read, implying delivery.
func (s *MessageService) MarkRead(messageID, callerID uint) (*models.Message, error) {
	msg, err := s.getForReceiver(messageID, callerID)
	if err != nil {
		return nil, err
	}
	if msg.Read {
		return msg, nil
	}
	now := time.Now()
	msg.Read = true
	msg.ReadAt = &now
	if !msg.Delivered {
		msg.Delivered = true
		msg.DeliveredAt = &now
	}
	if err := s.messageRepo.Update(msg); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return msg, nil
}

// Edit replaces the content of a message. Sender only; the edit
// timestamp marks the message as modified.
func (s *MessageService) Edit(messageID, callerID uint, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	msg, err := s.getByID(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != callerID {
		return nil, ErrNotSender
	}
	now := time.Now()
	msg.Content = content
	msg.EditedAt = &now
	if err := s.messageRepo.Update(msg); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return msg, nil
}

// SoftDelete hides a message from listings without removing the row.
// Sender only, and irreversible.
func (s *MessageService) SoftDelete(messageID, callerID uint) error {
	msg, err := s.getByID(messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != callerID {
		return ErrNotSender
	}
	if msg.Deleted {
		return nil
	}
	msg.Deleted = true
	if err := s.messageRepo.Update(msg); err != nil {
		return err
	}
	s.exporter.Notify(xmlstore.TableMessages)
	return nil
}

// Get returns a message by id, deleted or not, provided the caller is a
// participant: the sender, the private receiver, or a member of the
// target group.
func (s *MessageService) Get(messageID, callerID uint) (*models.Message, error) {
	msg, err := s.getByID(messageID)
	if err != nil {
		return nil, err
	}
	ok, err := s.isParticipant(msg, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return msg, nil
}

func (s *MessageService) ListReceived(userID uint) ([]models.Message, error) {
	return s.messageRepo.ListByReceiver(userID)
}

func (s *MessageService) ListSent(userID uint) ([]models.Message, error) {
	return s.messageRepo.ListBySender(userID)
}

func (s *MessageService) ListGroup(groupID, callerID uint) ([]models.Message, error) {
	if err := s.requireMember(groupID, callerID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByGroup(groupID)
}

func (s *MessageService) ListReceivedPaged(userID uint, page, size int) (*PagedMessages, error) {
	page, size = normalizePage(page, size)
	msgs, total, err := s.messageRepo.ListByReceiverPaged(userID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(msgs, total, page, size), nil
}

func (s *MessageService) ListSentPaged(userID uint, page, size int) (*PagedMessages, error) {
	page, size = normalizePage(page, size)
	msgs, total, err := s.messageRepo.ListBySenderPaged(userID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(msgs, total, page, size), nil
}

func (s *MessageService) ListGroupPaged(groupID, callerID uint, page, size int) (*PagedMessages, error) {
	if err := s.requireMember(groupID, callerID); err != nil {
		return nil, err
	}
	page, size = normalizePage(page, size)
	msgs, total, err := s.messageRepo.ListByGroupPaged(groupID, page, size)
	if err != nil {
		return nil, err
	}
	return newPage(msgs, total, page, size), nil
}

// Between returns the full private conversation between two users, in
// both directions, oldest first. The caller must be one of the two.
func (s *MessageService) Between(callerID, user1, user2 uint) ([]models.Message, error) {
	if callerID != user1 && callerID != user2 {
		return nil, ErrNotParticipant
	}
	return s.messageRepo.ListBetweenUsers(user1, user2)
}

func (s *MessageService) getByID(messageID uint) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) getForReceiver(messageID, callerID uint) (*models.Message, error) {
	msg, err := s.messageRepo.GetByIDAndReceiver(messageID, callerID)
	if err == nil {
		return msg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	// Distinguish a missing message from someone else's.
	if _, err := s.getByID(messageID); err != nil {
		return nil, err
	}
	return nil, ErrNotReceiver
}

func (s *MessageService) isParticipant(msg *models.Message, callerID uint) (bool, error) {
	if msg.SenderID == callerID {
		return true, nil
	}
	if msg.ReceiverID != nil && *msg.ReceiverID == callerID {
		return true, nil
	}
	if msg.GroupID != nil {
		return s.groupRepo.IsMember(*msg.GroupID, callerID)
	}
	return false, nil
}

func (s *MessageService) requireMember(groupID, callerID uint) error {
	if _, err := s.groupRepo.GetByID(groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	member, err := s.groupRepo.IsMember(groupID, callerID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotGroupMember
	}
	return nil
}

func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	return page, size
}

func newPage(msgs []models.Message, total int64, page, size int) *PagedMessages {
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &PagedMessages{
		Content:       msgs,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		Last:          page >= totalPages-1,
	}
}
