package models

import "time"

// Group is a named member set with a single owning creator. Membership
// lives in the group_members join table; the creator is always a member.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id" xml:"id"`
	Name      string    `gorm:"not null;type:varchar(255)" json:"name" xml:"name"`
	CreatorID uint      `gorm:"not null;index" json:"creatorId" xml:"creatorId"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt" xml:"createdAt"`

	// Filled by the repository, not a column.
	MemberIDs []uint `gorm:"-" json:"memberIds" xml:"memberId"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMember struct {
	ID      uint `gorm:"primaryKey" json:"id" xml:"-"`
	GroupID uint `gorm:"not null;index;uniqueIndex:idx_group_user" json:"group_id" xml:"-"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_group_user" json:"user_id" xml:"-"`

	JoinedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at" xml:"-"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
