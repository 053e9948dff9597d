package repositories

import (
	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

func (r *ContactRepository) GetByID(id uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// ExistsByOwnerAndContact reports whether the (owner, contact) pair is
// already in the address book.
func (r *ContactRepository) ExistsByOwnerAndContact(ownerID, contactUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Contact{}).
		Where("user_id = ? AND contact_user_id = ?", ownerID, contactUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *ContactRepository) ListByOwner(ownerID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.Where("user_id = ?", ownerID).Order("added_at ASC").Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(contact *models.Contact) error {
	return r.db.Save(contact).Error
}

func (r *ContactRepository) Delete(id uint) error {
	return r.db.Delete(&models.Contact{}, id).Error
}
