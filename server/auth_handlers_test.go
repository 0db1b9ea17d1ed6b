package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	_, r := newTestServer(t)

	// Missing email.
	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Alice",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Short password.
	w = doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	_, r := newTestServer(t)
	signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Other Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	_, r := newTestServer(t)
	signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, r := newTestServer(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/conversations", "/api/v1/users"} {
		w := doJSON(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(r, http.MethodGet, "/api/v1/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShowProfile(t *testing.T) {
	_, r := newTestServer(t)
	alice := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodGet, "/api/v1/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, alice.ID, profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	_, r := newTestServer(t)
	alice := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodGet, "/api/v1/logout", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The blacklisted token no longer opens the door.
	w = doJSON(r, http.MethodGet, "/api/v1/me", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAllUsersExcludesViewer(t *testing.T) {
	_, r := newTestServer(t)
	alice := signupAndLogin(t, r, "alice")
	signupAndLogin(t, r, "bob")
	signupAndLogin(t, r, "carol")

	w := doJSON(r, http.MethodGet, "/api/v1/users", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, alice.ID, u.ID)
	}
}

func TestEditProfile(t *testing.T) {
	_, r := newTestServer(t)
	alice := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPut, "/api/v1/me", alice.Token, map[string]string{
		"name": "Alice Updated",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Name string `json:"name"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Alice Updated", profile.Name)
}

func TestRegisterDeviceToken(t *testing.T) {
	s, r := newTestServer(t)
	alice := signupAndLogin(t, r, "alice")

	w := doJSON(r, http.MethodPost, "/api/v1/devices/token", alice.Token, map[string]string{
		"token": "device-abc",
	})
	require.Equal(t, http.StatusOK, w.Code)

	tokens, err := s.AuthRepository.GetDeviceTokens([]uint{alice.ID})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "device-abc", tokens[0].Token)
}
