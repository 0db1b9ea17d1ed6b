package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

func TestIsEmailExist(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	seedUser(t, gdb, "alice")

	assert.Error(t, repo.IsEmailExist("alice@example.com"))
	assert.NoError(t, repo.IsEmailExist("nobody@example.com"))
}

func TestFindUserByEmail(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := seedUser(t, gdb, "alice")

	found, err := repo.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = repo.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetAllUsersExcept(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := seedUser(t, gdb, "alice")
	seedUser(t, gdb, "bob")
	seedUser(t, gdb, "carol")

	users, err := repo.GetAllUsersExcept(alice.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, alice.ID, u.ID)
	}
}

func TestTokenBlacklist(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)

	assert.False(t, repo.IsTokenInBlacklist("some-token"))
	require.NoError(t, repo.AddToBlackList(&models.Blacklist{Email: "alice@example.com", Token: "some-token"}))
	assert.True(t, repo.IsTokenInBlacklist("some-token"))
	assert.False(t, repo.IsTokenInBlacklist("another-token"))
}

func TestUpdatePassword(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	seedUser(t, gdb, "alice")

	require.NoError(t, repo.UpdatePassword("new-hash", "alice@example.com"))
	found, err := repo.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.HashedPassword)

	assert.ErrorIs(t, repo.UpdatePassword("new-hash", "nobody@example.com"), gorm.ErrRecordNotFound)
}

func TestUpdateUserOnlineStatus(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := seedUser(t, gdb, "alice")

	require.NoError(t, repo.UpdateUserOnlineStatus(alice.ID, true))
	found, err := repo.FindUserByID(alice.ID)
	require.NoError(t, err)
	assert.True(t, found.Online)

	require.NoError(t, repo.UpdateUserOnlineStatus(alice.ID, false))
	found, err = repo.FindUserByID(alice.ID)
	require.NoError(t, err)
	assert.False(t, found.Online)
}

func TestSaveDeviceTokenUpserts(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)
	alice := seedUser(t, gdb, "alice")
	bob := seedUser(t, gdb, "bob")

	require.NoError(t, repo.SaveDeviceToken(&models.DeviceToken{UserID: alice.ID, Token: "device-1"}))

	// The same device re-registering under another account moves the token.
	require.NoError(t, repo.SaveDeviceToken(&models.DeviceToken{UserID: bob.ID, Token: "device-1"}))

	tokens, err := repo.GetDeviceTokens([]uint{alice.ID, bob.ID})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, bob.ID, tokens[0].UserID)
}

func TestCreateSocialUser(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewAuthRepo(gdb)

	user, err := repo.CreateSocialUser(&models.CreateSocialUserParams{
		Email:   "social@example.com",
		Name:    "Social User",
		Picture: "https://cdn/avatar.png",
	})
	require.NoError(t, err)
	assert.True(t, user.IsSocial)
	assert.Empty(t, user.HashedPassword)
	assert.Equal(t, "https://cdn/avatar.png", user.ThumbNailURL)
}
