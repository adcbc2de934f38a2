package services

import (
	"context"
	"testing"

	"chatspace/internal/database"
	"chatspace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDirectPersistsMessage(t *testing.T) {
	db := newFakeDB()
	db.addUser("alice", "Alice")
	db.addUser("bob", "Bob")
	service := NewMessageService(db, newTestRouter())

	msg, err := service.SendDirect(context.Background(), "alice", "bob", &models.SendMessageRequest{Text: "hi"})

	require.NoError(t, err)
	assert.Equal(t, models.MessageKindDirect, msg.Kind)
	assert.Equal(t, "bob", msg.ReceiverID)
	assert.Empty(t, msg.GroupID)
	assert.Equal(t, "Alice", msg.SenderName)
	require.Len(t, db.messages, 1)
}

func TestSendDirectToUnknownRecipient(t *testing.T) {
	db := newFakeDB()
	db.addUser("alice", "Alice")
	service := NewMessageService(db, newTestRouter())

	_, err := service.SendDirect(context.Background(), "alice", "ghost", &models.SendMessageRequest{Text: "hi"})

	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, db.messages)
}

func TestSendDirectRequiresContent(t *testing.T) {
	db := newFakeDB()
	service := NewMessageService(db, newTestRouter())

	_, err := service.SendDirect(context.Background(), "alice", "bob", &models.SendMessageRequest{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendGroupRequiresMembership(t *testing.T) {
	db := newFakeDB()
	db.addGroup("g1", "team", "admin", "admin", "b")
	service := NewMessageService(db, newTestRouter())

	_, err := service.SendGroup(context.Background(), "outsider", "g1", &models.SendMessageRequest{Text: "hi"})

	assert.ErrorIs(t, err, ErrNotMember)
	assert.Empty(t, db.messages)
}

func TestSendGroupToInactiveGroup(t *testing.T) {
	db := newFakeDB()
	group := db.addGroup("g1", "team", "admin", "admin")
	group.IsActive = false
	service := NewMessageService(db, newTestRouter())

	_, err := service.SendGroup(context.Background(), "admin", "g1", &models.SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrInactiveGroup)
}

func TestSendGroupPersistsMessage(t *testing.T) {
	db := newFakeDB()
	db.addUser("admin", "Admin")
	db.addGroup("g1", "team", "admin", "admin", "b", "c")
	service := NewMessageService(db, newTestRouter())

	msg, err := service.SendGroup(context.Background(), "admin", "g1", &models.SendMessageRequest{Text: "hello team"})

	require.NoError(t, err)
	assert.Equal(t, models.MessageKindGroup, msg.Kind)
	assert.Equal(t, "g1", msg.GroupID)
	assert.Empty(t, msg.ReceiverID)
	require.Len(t, db.messages, 1)
}
