package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"weightloss_backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupTest(t)

	// Register alice and make sure the hash never leaves the server
	w := doJSON(t, r, http.MethodPost, "/users", "", registerPayload("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created["id"])
	assert.Equal(t, "alice", created["username"])
	assert.NotContains(t, created, "password")
	assert.NotContains(t, created, "hashed_password")
	assert.NotContains(t, w.Body.String(), "pw123")

	// Login and fetch the own profile with the issued token
	token := registerAndLogin(t, r, "bob", "bob@example.com")
	w = doJSON(t, r, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "bob", me["username"])
	assert.Equal(t, string(domain.BiotypeMesomorph), me["biotype"])
	assert.NotZero(t, me["id"])
	assert.NotContains(t, me, "password")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, db := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users", "", registerPayload("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same username, different email
	w = doJSON(t, r, http.MethodPost, "/users", "", registerPayload("alice", "other@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Exactly one row for that username survives
	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/users", "", registerPayload("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/users", "", registerPayload("carol", "alice@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := setupTest(t)
	_ = registerAndLogin(t, r, "alice", "alice@example.com")

	// Wrong password and unknown username answer identically
	for _, creds := range []map[string]any{
		{"username": "alice", "password": "wrong"},
		{"username": "nosuchuser", "password": "pw123"},
	} {
		w := doJSON(t, r, http.MethodPost, "/token", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	r, _ := setupTest(t)
	_ = registerAndLogin(t, r, "alice", "alice@example.com")

	// Token signed with the right secret but already expired
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-16 * time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/users/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestTamperedTokenRejected(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	// Flip the last byte of the signature
	tampered := token[:len(token)-1] + string('A'+token[len(token)-1]%26)
	w := doJSON(t, r, http.MethodGet, "/users/me", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing token entirely
	w = doJSON(t, r, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInactiveUserRejected(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	// Deactivate the account after the token was issued
	require.NoError(t, db.Model(&domain.User{}).Where("username = ?", "alice").
		Update("is_active", false).Error)

	w := doJSON(t, r, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateDeviceToken(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	body := map[string]any{"device_token": "fcm-token-123", "device_type": "android"}
	w := doJSON(t, r, http.MethodPut, "/users/device-token", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	// Repeating the call is an idempotent upsert
	w = doJSON(t, r, http.MethodPut, "/users/device-token", token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var user domain.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	require.NotNil(t, user.DeviceToken)
	require.NotNil(t, user.DeviceType)
	assert.Equal(t, "fcm-token-123", *user.DeviceToken)
	assert.Equal(t, "android", *user.DeviceType)
}
