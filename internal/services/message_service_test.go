package services

import (
	"context"
	"testing"

	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessageService(db *gorm.DB) *MessageService {
	return NewMessageService(
		postgres.NewMessageRepository(db),
		postgres.NewFollowRepository(db),
		postgres.NewUserRepository(db),
		nil,
	)
}

func mutualFollow(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	followSvc := newFollowService(db)
	_, err := followSvc.Follow(context.Background(), a, b)
	require.NoError(t, err)
	_, err = followSvc.Follow(context.Background(), b, a)
	require.NoError(t, err)
}

func TestSendRequiresMutualFollow(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	_, err := svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotMutual)

	// One direction is not enough.
	followSvc := newFollowService(db)
	_, err = followSvc.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotMutual)

	_, err = followSvc.Follow(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	message, err := svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, message.SenderID)
	assert.False(t, message.Read)

	// Unfollowing closes the channel again without deleting history.
	_, err = followSvc.Unfollow(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "still there?"})
	assert.ErrorIs(t, err, ErrNotMutual)

	history, err := svc.History(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestSendValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)

	_, err := svc.Send(context.Background(), alice.ID, alice.ID, &models.SendMessageRequest{Content: "me"})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.Send(context.Background(), alice.ID, alice.ID+99, &models.SendMessageRequest{Content: "hello?"})
	assert.ErrorIs(t, err, ErrNotFound)

	bob := createTestUser(t, db, "bob", false)
	mutualFollow(t, db, alice.ID, bob.ID)
	_, err = svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestHistoryMarksRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	mutualFollow(t, db, alice.ID, bob.ID)

	_, err := svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "one"})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), alice.ID, bob.ID, &models.SendMessageRequest{Content: "two"})
	require.NoError(t, err)

	conversations, err := svc.Conversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, int64(2), conversations[0].Unread)

	// Loading the thread marks the other side's messages read.
	history, err := svc.History(bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "one", history[0].Content)

	conversations, err = svc.Conversations(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), conversations[0].Unread)

	// The sender's own view never counted as unread.
	conversations, err = svc.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, int64(0), conversations[0].Unread)
}

func TestConversationsPinnedFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newMessageService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	zoe := createTestUser(t, db, "zoe", false)
	mutualFollow(t, db, alice.ID, bob.ID)
	mutualFollow(t, db, alice.ID, zoe.ID)

	conversations, err := svc.Conversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "bob", conversations[0].Username)

	result, err := svc.PinConversation(alice.ID, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusPinned, result.Status)

	conversations, err = svc.Conversations(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "zoe", conversations[0].Username)
	assert.True(t, conversations[0].Pinned)

	result, err = svc.PinConversation(alice.ID, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusAlreadyPinned, result.Status)

	result, err = svc.UnpinConversation(alice.ID, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusUnpinned, result.Status)

	result, err = svc.UnpinConversation(alice.ID, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusNotPinned, result.Status)

	_, err = svc.PinConversation(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
