package repositories

import (
	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateWithMembers creates the group and its membership rows in one
// transaction so a half-created group never becomes visible.
func (r *GroupRepository) CreateWithMembers(group *models.Group, memberIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		for _, userID := range memberIDs {
			member := models.GroupMember{
				GroupID: group.ID,
				UserID:  userID,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		group.MemberIDs = memberIDs
		return nil
	})
}

// GetByID loads the group and fills MemberIDs from the join table.
func (r *GroupRepository) GetByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	memberIDs, err := r.MemberIDs(group.ID)
	if err != nil {
		return nil, err
	}
	group.MemberIDs = memberIDs
	return &group, nil
}

func (r *GroupRepository) MemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListForUser returns every group the user is a member of.
func (r *GroupRepository) ListForUser(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	for i := range groups {
		memberIDs, err := r.MemberIDs(groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].MemberIDs = memberIDs
	}
	return groups, nil
}

func (r *GroupRepository) AddMember(groupID, userID uint) error {
	member := models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
	}
	return r.db.Create(&member).Error
}

func (r *GroupRepository) RemoveMember(groupID, userID uint) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

func (r *GroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the group and all of its membership rows.
func (r *GroupRepository) Delete(groupID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}
