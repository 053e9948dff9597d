package services

import "errors"

// ErrInvalidTarget is returned when a message names neither or both of
// a receiver and a group.
var ErrInvalidTarget = errors.New("exactly one of receiver or group must be specified")

type targetKind int

const (
	targetPrivate targetKind = iota + 1
	targetGroup
)

// Target is a message destination: a private receiver or a group,
// never both and never neither. The zero value is invalid, so a Target
// can only be built through the constructors or TargetFromIDs.
type Target struct {
	kind targetKind
	id   uint
}

func PrivateTarget(userID uint) Target {
	return Target{kind: targetPrivate, id: userID}
}

func GroupTarget(groupID uint) Target {
	return Target{kind: targetGroup, id: groupID}
}

// TargetFromIDs builds a Target from the two nullable wire fields.
func TargetFromIDs(receiverID, groupID *uint) (Target, error) {
	switch {
	case receiverID != nil && groupID != nil:
		return Target{}, ErrInvalidTarget
	case receiverID != nil:
		return PrivateTarget(*receiverID), nil
	case groupID != nil:
		return GroupTarget(*groupID), nil
	default:
		return Target{}, ErrInvalidTarget
	}
}

func (t Target) IsPrivate() bool { return t.kind == targetPrivate }
func (t Target) IsGroup() bool   { return t.kind == targetGroup }

// ReceiverID returns the receiver id for private targets.
func (t Target) ReceiverID() (uint, bool) {
	if t.kind != targetPrivate {
		return 0, false
	}
	return t.id, true
}

// GroupID returns the group id for group targets.
func (t Target) GroupID() (uint, bool) {
	if t.kind != targetGroup {
		return 0, false
	}
	return t.id, true
}
