package models

import "time"

// Contact is an address-book entry owned by UserID pointing at
// ContactUserID. The (user_id, contact_user_id) pair is unique.
type Contact struct {
	ID            uint      `gorm:"primaryKey" json:"id" xml:"id"`
	UserID        uint      `gorm:"not null;index;uniqueIndex:idx_owner_contact" json:"userId" xml:"userId"`
	ContactUserID uint      `gorm:"not null;uniqueIndex:idx_owner_contact" json:"contactUserId" xml:"contactUserId"`
	Alias         string    `gorm:"type:varchar(255)" json:"alias" xml:"alias"`
	AddedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"addedAt" xml:"addedAt"`
}

func (Contact) TableName() string {
	return "contacts"
}
