package models

import "time"

const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

// Message is a chat message addressed to exactly one of ReceiverID or
// GroupID. The two nullable columns exist only at the storage boundary;
// service code works with the tagged Target variant instead.
//
// Delivered and Read transition false->true at most once and never
// revert. Deleted is an orthogonal soft-delete flag: the row stays
// queryable by id but is excluded from listings.
type Message struct {
	ID         uint   `gorm:"primaryKey" json:"id" xml:"id"`
	SenderID   uint   `gorm:"not null;index" json:"senderId" xml:"senderId"`
	ReceiverID *uint  `gorm:"index" json:"receiverId,omitempty" xml:"receiverId,omitempty"`
	GroupID    *uint  `gorm:"index" json:"groupId,omitempty" xml:"groupId,omitempty"`
	Content    string `gorm:"not null;type:text" json:"content" xml:"content"`
	Type       string `gorm:"not null;type:varchar(16)" json:"type" xml:"type"`

	// File attachment metadata, set only when Type == "file".
	FilePath      string `gorm:"type:varchar(512)" json:"filePath,omitempty" xml:"filePath,omitempty"`
	MimeType      string `gorm:"type:varchar(128)" json:"mimeType,omitempty" xml:"mimeType,omitempty"`
	FileSize      int64  `json:"fileSize,omitempty" xml:"fileSize,omitempty"`
	Width         int    `json:"width,omitempty" xml:"width,omitempty"`
	Height        int    `json:"height,omitempty" xml:"height,omitempty"`
	Duration      string `gorm:"type:varchar(32)" json:"duration,omitempty" xml:"duration,omitempty"`
	ThumbnailPath string `gorm:"type:varchar(512)" json:"thumbnailPath,omitempty" xml:"thumbnailPath,omitempty"`

	SentAt      time.Time  `gorm:"not null;index" json:"sentAt" xml:"sentAt"`
	Delivered   bool       `gorm:"not null;default:false" json:"delivered" xml:"delivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" xml:"deliveredAt,omitempty"`
	Read        bool       `gorm:"not null;default:false;column:read" json:"read" xml:"read"`
	ReadAt      *time.Time `json:"readAt,omitempty" xml:"readAt,omitempty"`
	Deleted     bool       `gorm:"not null;default:false;index" json:"deleted" xml:"deleted"`
	EditedAt    *time.Time `json:"editedAt,omitempty" xml:"editedAt,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
