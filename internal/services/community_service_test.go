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

func newCommunityService(db *gorm.DB) *CommunityService {
	return NewCommunityService(postgres.NewCommunityRepository(db), nil)
}

func TestCreateCommunity(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)

	community, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	require.NoError(t, err)
	assert.Equal(t, "MIT - Computer Science", community.Name)
	// The creator is the first member.
	assert.True(t, community.IsMember)
	assert.Equal(t, int64(1), community.Members)
}

func TestCreateCommunityDuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	_, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	require.NoError(t, err)

	_, err = svc.CreateCommunity(context.Background(), bob.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	assert.ErrorIs(t, err, ErrDuplicateCommunity)

	// A different program under the same university is fine.
	_, err = svc.CreateCommunity(context.Background(), bob.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Physics",
	})
	require.NoError(t, err)
}

func TestJoinIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	community, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Join(bob.ID, community.ID))
	require.NoError(t, svc.Join(bob.ID, community.ID))

	got, err := svc.GetCommunity(bob.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Members)

	err = svc.Join(bob.ID, community.ID+99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommunityBoardMembersOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	community, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	require.NoError(t, err)

	_, err = svc.PostMessage(bob.ID, community.ID, &models.CommunityMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.ListMessages(bob.ID, community.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.PostMessage(alice.ID, community.ID, &models.CommunityMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.PostMessage(alice.ID, community.ID, &models.CommunityMessageRequest{Content: "welcome"})
	require.NoError(t, err)

	require.NoError(t, svc.Join(bob.ID, community.ID))
	messages, err := svc.ListMessages(bob.ID, community.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "welcome", messages[0].Content)
	assert.Equal(t, "alice", messages[0].Author)
}

func TestCommunityPinStatuses(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)

	community, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT",
		Program:    "Computer Science",
	})
	require.NoError(t, err)

	result, err := svc.Pin(alice.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusPinned, result.Status)

	result, err = svc.Pin(alice.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusAlreadyPinned, result.Status)

	pinned, err := svc.ListPinned(alice.ID)
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, community.ID, pinned[0].ID)

	result, err = svc.Unpin(alice.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusUnpinned, result.Status)

	result, err = svc.Unpin(alice.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PinStatusNotPinned, result.Status)
}

func TestListCommunitiesSearch(t *testing.T) {
	db := setupTestDB(t)
	svc := newCommunityService(db)
	alice := createTestUser(t, db, "alice", false)

	_, err := svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "MIT", Program: "Computer Science",
	})
	require.NoError(t, err)
	_, err = svc.CreateCommunity(context.Background(), alice.ID, &models.CreateCommunityRequest{
		University: "Stanford", Program: "Biology",
	})
	require.NoError(t, err)

	all, err := svc.ListCommunities(alice.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	results, err := svc.ListCommunities(alice.ID, "stan")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Stanford", results[0].University)
}
