package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"weightloss_backend/internal/domain"
	"weightloss_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// setupTest builds an in-memory database and a router wired like cmd/server.
// Redis and push are disabled (nil), so cached reads fall through to the DB.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// Shared cache keeps every pooled connection on the same in-memory DB
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.DietPlan{},
		&domain.Meal{},
		&domain.Challenge{},
		&domain.ChallengeParticipant{},
		&domain.Progress{},
	))

	r := gin.New()
	r.GET("/", RootHandler())
	r.POST("/token", LoginHandler(db, testSecret))
	r.POST("/users", RegisterHandler(db))
	r.GET("/challenges", ListChallengesHandler(db, nil))

	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(db, testSecret))
	auth.GET("/users/me", MeHandler())
	auth.PUT("/users/device-token", UpdateDeviceTokenHandler(db, nil))
	auth.POST("/diet-plans", CreateDietPlanHandler(db, nil))
	auth.GET("/diet-plans/me", GetMyDietPlanHandler(db, nil))
	auth.POST("/challenges", CreateChallengeHandler(db, nil))
	auth.POST("/challenges/:id/join", JoinChallengeHandler(db, nil))
	auth.POST("/progress", AddProgressHandler(db))
	auth.GET("/progress/me", GetMyProgressHandler(db))
	return r, db
}

// doJSON performs a request with an optional JSON body and bearer token
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerPayload returns a valid registration body for a username
func registerPayload(username, email string) map[string]any {
	return map[string]any{
		"username":       username,
		"email":          email,
		"password":       "pw123",
		"biotype":        domain.BiotypeMesomorph,
		"current_weight": 82.5,
		"target_weight":  75.0,
		"height":         178.0,
		"age":            30,
		"gender":         "female",
	}
}

// registerAndLogin creates an account and returns a fresh bearer token
func registerAndLogin(t *testing.T, r *gin.Engine, username, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/users", "", registerPayload(username, email))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/token", "", map[string]any{
		"username": username,
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}
