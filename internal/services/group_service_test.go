package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	db := newTestDB(t)
	svc := newGroupService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	t.Run("creator is always a member", func(t *testing.T) {
		group, err := svc.Create(alice.ID, &CreateGroupRequest{Name: "team", MemberIDs: []uint{bob.ID}})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, group.CreatorID)
		assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, group.MemberIDs)
	})

	t.Run("duplicate member ids collapse", func(t *testing.T) {
		group, err := svc.Create(alice.ID, &CreateGroupRequest{Name: "team2", MemberIDs: []uint{bob.ID, bob.ID, alice.ID}})
		require.NoError(t, err)
		assert.Len(t, group.MemberIDs, 2)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := svc.Create(alice.ID, &CreateGroupRequest{Name: "team3", MemberIDs: []uint{9999}})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.Create(alice.ID, &CreateGroupRequest{Name: ""})
		assert.ErrorIs(t, err, ErrEmptyGroupName)
	})
}

func TestGroupMembership(t *testing.T) {
	db := newTestDB(t)
	svc := newGroupService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	group, err := svc.Create(alice.ID, &CreateGroupRequest{Name: "team"})
	require.NoError(t, err)

	t.Run("only the creator adds members", func(t *testing.T) {
		_, err := svc.AddMember(group.ID, carol.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotGroupCreator)

		updated, err := svc.AddMember(group.ID, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Contains(t, updated.MemberIDs, bob.ID)
	})

	t.Run("adding twice fails", func(t *testing.T) {
		_, err := svc.AddMember(group.ID, bob.ID, alice.ID)
		assert.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("creator cannot be removed", func(t *testing.T) {
		_, err := svc.RemoveMember(group.ID, alice.ID, alice.ID)
		assert.ErrorIs(t, err, ErrCannotRemoveOwner)
	})

	t.Run("only the creator removes members", func(t *testing.T) {
		_, err := svc.RemoveMember(group.ID, bob.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotGroupCreator)

		updated, err := svc.RemoveMember(group.ID, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.NotContains(t, updated.MemberIDs, bob.ID)
	})

	t.Run("removing a non-member fails", func(t *testing.T) {
		_, err := svc.RemoveMember(group.ID, carol.ID, alice.ID)
		assert.ErrorIs(t, err, ErrNotGroupMember)
	})
}

func TestDeleteGroup(t *testing.T) {
	db := newTestDB(t)
	svc := newGroupService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	group, err := svc.Create(alice.ID, &CreateGroupRequest{Name: "team", MemberIDs: []uint{bob.ID}})
	require.NoError(t, err)

	t.Run("only the creator deletes", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(group.ID, bob.ID), ErrNotGroupCreator)
	})

	t.Run("delete removes group and memberships", func(t *testing.T) {
		require.NoError(t, svc.Delete(group.ID, alice.ID))

		_, err := svc.Get(group.ID)
		assert.ErrorIs(t, err, ErrGroupNotFound)

		groups, err := svc.ListForUser(bob.ID)
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}
