package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/xmlstore"
)

var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrNotGroupCreator   = errors.New("only the group creator may do this")
	ErrNotGroupMember    = errors.New("user is not a member of this group")
	ErrAlreadyMember     = errors.New("user is already a member of this group")
	ErrCannotRemoveOwner = errors.New("the group creator cannot be removed")
	ErrEmptyGroupName    = errors.New("group name must not be empty")
)

type CreateGroupRequest struct {
	Name      string `json:"name" binding:"required"`
	MemberIDs []uint `json:"memberIds"`
}

type GroupMemberRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type GroupService struct {
	groupRepo *repositories.GroupRepository
	userRepo  *repositories.UserRepository
	exporter  *xmlstore.Exporter
}

func NewGroupService(groupRepo *repositories.GroupRepository, userRepo *repositories.UserRepository, exporter *xmlstore.Exporter) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo, exporter: exporter}
}

// Create registers a group. The creator is always a member, whether or
// not the request lists them.
func (s *GroupService) Create(creatorID uint, req *CreateGroupRequest) (*models.Group, error) {
	if req.Name == "" {
		return nil, ErrEmptyGroupName
	}

	members := make([]uint, 0, len(req.MemberIDs)+1)
	seen := map[uint]bool{creatorID: true}
	members = append(members, creatorID)
	for _, id := range req.MemberIDs {
		if seen[id] {
			continue
		}
		exists, err := s.userRepo.ExistsByID(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: member %d", ErrUserNotFound, id)
		}
		seen[id] = true
		members = append(members, id)
	}

	group := &models.Group{
		Name:      req.Name,
		CreatorID: creatorID,
		CreatedAt: time.Now(),
	}
	if err := s.groupRepo.CreateWithMembers(group, members); err != nil {
		return nil, err
	}
	group.MemberIDs = members
	s.exporter.Notify(xmlstore.TableGroups)
	return group, nil
}

func (s *GroupService) ListForUser(userID uint) ([]models.Group, error) {
	return s.groupRepo.ListForUser(userID)
}

func (s *GroupService) Get(groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) AddMember(groupID, userID, callerID uint) (*models.Group, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != callerID {
		return nil, ErrNotGroupCreator
	}
	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	member, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}
	if err := s.groupRepo.AddMember(groupID, userID); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableGroups)
	return s.Get(groupID)
}

func (s *GroupService) RemoveMember(groupID, userID, callerID uint) (*models.Group, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != callerID {
		return nil, ErrNotGroupCreator
	}
	if userID == group.CreatorID {
		return nil, ErrCannotRemoveOwner
	}
	member, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	if err := s.groupRepo.RemoveMember(groupID, userID); err != nil {
		return nil, err
	}
	s.exporter.Notify(xmlstore.TableGroups)
	return s.Get(groupID)
}

func (s *GroupService) Delete(groupID, callerID uint) error {
	group, err := s.Get(groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != callerID {
		return ErrNotGroupCreator
	}
	if err := s.groupRepo.Delete(groupID); err != nil {
		return err
	}
	s.exporter.Notify(xmlstore.TableGroups)
	return nil
}
