package repositories

import (
	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetByIDAndReceiver combines existence and authorization in one lookup
// for the delivered/read transitions.
func (r *MessageRepository) GetByIDAndReceiver(id, receiverID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("id = ? AND receiver_id = ?", id, receiverID).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) Update(message *models.Message) error {
	return r.db.Save(message).Error
}

// Unpaged listings exclude soft-deleted rows and order by sent time
// ascending.

func (r *MessageRepository) ListByReceiver(receiverID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("receiver_id = ?", receiverID).Where("deleted = ?", false).
		Order("sent_at ASC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) ListByGroup(groupID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("group_id = ?", groupID).Where("deleted = ?", false).
		Order("sent_at ASC").Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) ListBySender(senderID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("sender_id = ?", senderID).Where("deleted = ?", false).
		Order("sent_at ASC").Find(&messages).Error
	return messages, err
}

// Paged listings exclude soft-deleted rows and order by sent time
// descending. page is zero-indexed.

func (r *MessageRepository) ListByReceiverPaged(receiverID uint, page, size int) ([]models.Message, int64, error) {
	return r.listPaged("receiver_id = ?", receiverID, page, size)
}

func (r *MessageRepository) ListByGroupPaged(groupID uint, page, size int) ([]models.Message, int64, error) {
	return r.listPaged("group_id = ?", groupID, page, size)
}

func (r *MessageRepository) ListBySenderPaged(senderID uint, page, size int) ([]models.Message, int64, error) {
	return r.listPaged("sender_id = ?", senderID, page, size)
}

func (r *MessageRepository) listPaged(cond string, id uint, page, size int) ([]models.Message, int64, error) {
	var total int64
	base := r.db.Model(&models.Message{}).Where(cond, id).Where("deleted = ?", false)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := r.db.Where(cond, id).Where("deleted = ?", false).
		Order("sent_at DESC").
		Limit(size).
		Offset(page * size).
		Find(&messages).Error
	return messages, total, err
}

// ListBetweenUsers returns the full bidirectional private thread between
// two users: non-group, non-deleted, ascending by sent time.
func (r *MessageRepository) ListBetweenUsers(user1, user2 uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))", user1, user2, user2, user1).
		Where("group_id IS NULL").
		Where("deleted = ?", false).
		Order("sent_at ASC").
		Find(&messages).Error
	return messages, err
}
