package services

import (
	"context"
	"testing"
	"time"

	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(
		postgres.NewUserRepository(db),
		postgres.NewFollowRepository(db),
		"test-secret",
		time.Hour,
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	user, err := svc.Register(&models.RegisterRequest{
		Username: "alice",
		Email:    "alice@test.dev",
		Password: "123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	// New accounts start private.
	assert.True(t, user.IsPrivate)

	login, err := svc.Login(&models.LoginRequest{Email: "alice@test.dev", Password: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)

	_, err = svc.Login(&models.LoginRequest{Email: "alice@test.dev", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&models.LoginRequest{Email: "nobody@test.dev", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	_, err := svc.Register(&models.RegisterRequest{
		Username: "alice", Email: "alice@test.dev", Password: "123456",
	})
	require.NoError(t, err)

	_, err = svc.Register(&models.RegisterRequest{
		Username: "alice", Email: "other@test.dev", Password: "123456",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register(&models.RegisterRequest{
		Username: "alice2", Email: "alice@test.dev", Password: "123456",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)

	_, err := svc.Register(&models.RegisterRequest{
		Username: "alice", Email: "alice@test.dev", Password: "123456",
	})
	require.NoError(t, err)
	bob, err := svc.Register(&models.RegisterRequest{
		Username: "bob", Email: "bob@test.dev", Password: "123456",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(bob.ID, &models.UpdateProfileRequest{Username: "bobby"})
	require.NoError(t, err)
	assert.Equal(t, "bobby", updated.Username)

	// Renaming onto a taken username is a conflict.
	_, err = svc.UpdateProfile(bob.ID, &models.UpdateProfileRequest{Username: "alice"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// A password change takes effect on the next login.
	_, err = svc.UpdateProfile(bob.ID, &models.UpdateProfileRequest{Password: "secret99"})
	require.NoError(t, err)
	_, err = svc.Login(&models.LoginRequest{Email: "bob@test.dev", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	login, err := svc.Login(&models.LoginRequest{Email: "bob@test.dev", Password: "secret99"})
	require.NoError(t, err)
	assert.Equal(t, "bobby", login.User.Username)

	_, err = svc.UpdateProfile(9999, &models.UpdateProfileRequest{Username: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTogglePrivacy(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "alice", true)

	result, err := svc.TogglePrivacy(user.ID)
	require.NoError(t, err)
	assert.False(t, result.IsPrivate)

	result, err = svc.TogglePrivacy(user.ID)
	require.NoError(t, err)
	assert.True(t, result.IsPrivate)
}

func TestViewUserPrivacyGate(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	followSvc := newFollowService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", true)

	// A private profile is hidden behind the same not-found as a missing user.
	_, err := svc.ViewUser(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner always sees their own profile.
	profile, err := svc.ViewUser(bob.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)

	// An accepted follower sees it.
	_, err = followSvc.Follow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, followSvc.AcceptRequest(context.Background(), bob.ID, alice.ID))

	profile, err = svc.ViewUser(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(1), profile.Followers)
}

func TestViewUserCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	followSvc := newFollowService(db)
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)

	_, err := followSvc.Follow(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Poll{
		Title: "Owned poll", PollType: models.PollTypeGeneral, UserID: &alice.ID,
	}).Error)

	profile, err := svc.ViewUser(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, int64(0), profile.Following)
	assert.Equal(t, int64(1), profile.TotalPolls)
	assert.True(t, profile.IsFollowing)
}

func TestSearchUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := newUserService(db)
	createTestUser(t, db, "alice", false)
	createTestUser(t, db, "alicia", false)
	createTestUser(t, db, "bob", false)

	results, err := svc.SearchUsers("ali")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", results[0].Username)

	results, err = svc.SearchUsers("")
	require.NoError(t, err)
	assert.Empty(t, results)
}
