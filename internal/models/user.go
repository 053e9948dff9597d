package models

import "time"

// User account record. The password hash never leaves the server in
// JSON or XML output.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id" xml:"id"`
	Username     string `gorm:"uniqueIndex;not null;type:varchar(50)" json:"username" xml:"username"`
	Email        string `gorm:"uniqueIndex;not null;type:varchar(255)" json:"email" xml:"email"`
	PasswordHash string `gorm:"not null;type:varchar(255)" json:"-" xml:"-"`

	DisplayName    string `gorm:"type:varchar(255)" json:"displayName" xml:"displayName"`
	Bio            string `gorm:"type:text" json:"bio" xml:"bio"`
	ProfilePicture string `gorm:"type:varchar(512)" json:"profilePicture" xml:"profilePicture"`

	NotificationsEnabled bool   `gorm:"not null;default:true" json:"notificationsEnabled" xml:"notificationsEnabled"`
	Theme                string `gorm:"type:varchar(32);default:light" json:"theme" xml:"theme"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt" xml:"createdAt"`
}

func (User) TableName() string {
	return "users"
}
