package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/xmlstore"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrContactExists   = errors.New("contact already exists")
	ErrSelfContact     = errors.New("cannot add yourself as a contact")
	ErrNotContactOwner = errors.New("contact belongs to another user")
)

type AddContactRequest struct {
	ContactUserID uint   `json:"contactUserId" binding:"required"`
	Alias         string `json:"alias"`
}

type UpdateContactRequest struct {
	Alias *string `json:"alias"`
}

type ContactService struct {
	contactRepo *repositories.ContactRepository
	userRepo    *repositories.UserRepository
	exporter    *xmlstore.Exporter
}

func NewContactService(contactRepo *repositories.ContactRepository, userRepo *repositories.UserRepository, exporter *xmlstore.Exporter) *ContactService {
	return &ContactService{contactRepo: contactRepo, userRepo: userRepo, exporter: exporter}
}

func (s *ContactService) Add(ownerID uint, req *AddContactRequest) (*models.Contact, error) {
	if ownerID == req.ContactUserID {
		return nil, ErrSelfContact
	}
	exists, err := s.userRepo.ExistsByID(req.ContactUserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	dup, err := s.contactRepo.ExistsByOwnerAndContact(ownerID, req.ContactUserID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrContactExists
	}

	contact := &models.Contact{
		UserID:        ownerID,
		ContactUserID: req.ContactUserID,
		Alias:         req.Alias,
		AddedAt:       time.Now(),
	}
	if err := s.contactRepo.Create(contact); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableContacts)
	return contact, nil
}

func (s *ContactService) List(ownerID uint) ([]models.Contact, error) {
	return s.contactRepo.ListByOwner(ownerID)
}

func (s *ContactService) Update(contactID, callerID uint, req *UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.getOwned(contactID, callerID)
	if err != nil {
		return nil, err
	}
	if req.Alias != nil {
		contact.Alias = *req.Alias
	}
	if err := s.contactRepo.Update(contact); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableContacts)
	return contact, nil
}

func (s *ContactService) Delete(contactID, callerID uint) error {
	if _, err := s.getOwned(contactID, callerID); err != nil {
		return err
	}
	if err := s.contactRepo.Delete(contactID); err != nil {
		return err
	}
	s.exporter.Notify(xmlstore.TableContacts)
	return nil
}

func (s *ContactService) getOwned(contactID, callerID uint) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByID(contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if contact.UserID != callerID {
		return nil, ErrNotContactOwner
	}
	return contact, nil
}
