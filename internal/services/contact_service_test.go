package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContact(t *testing.T) {
	db := newTestDB(t)
	svc := newContactService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	t.Run("adds a contact", func(t *testing.T) {
		contact, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: bob.ID, Alias: "Bobby"})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, contact.UserID)
		assert.Equal(t, bob.ID, contact.ContactUserID)
		assert.Equal(t, "Bobby", contact.Alias)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: bob.ID})
		assert.ErrorIs(t, err, ErrContactExists)
	})

	t.Run("rejects self", func(t *testing.T) {
		_, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: alice.ID})
		assert.ErrorIs(t, err, ErrSelfContact)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		_, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: 9999})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("same pair allowed in the other direction", func(t *testing.T) {
		_, err := svc.Add(bob.ID, &AddContactRequest{ContactUserID: alice.ID})
		assert.NoError(t, err)
	})
}

func TestUpdateContact(t *testing.T) {
	db := newTestDB(t)
	svc := newContactService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	contact, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: bob.ID})
	require.NoError(t, err)

	t.Run("owner can rename", func(t *testing.T) {
		alias := "Bobby"
		updated, err := svc.Update(contact.ID, alice.ID, &UpdateContactRequest{Alias: &alias})
		require.NoError(t, err)
		assert.Equal(t, "Bobby", updated.Alias)
	})

	t.Run("non-owner cannot touch it", func(t *testing.T) {
		alias := "hijacked"
		_, err := svc.Update(contact.ID, eve.ID, &UpdateContactRequest{Alias: &alias})
		assert.ErrorIs(t, err, ErrNotContactOwner)
	})

	t.Run("unknown contact", func(t *testing.T) {
		_, err := svc.Update(9999, alice.ID, &UpdateContactRequest{})
		assert.ErrorIs(t, err, ErrContactNotFound)
	})
}

func TestDeleteContact(t *testing.T) {
	db := newTestDB(t)
	svc := newContactService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	contact, err := svc.Add(alice.ID, &AddContactRequest{ContactUserID: bob.ID})
	require.NoError(t, err)

	t.Run("non-owner cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(contact.ID, eve.ID), ErrNotContactOwner)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(contact.ID, alice.ID))

		contacts, err := svc.List(alice.ID)
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})
}
