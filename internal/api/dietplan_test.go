package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"weightloss_backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planPayload builds a diet-plan request with n meals
func planPayload(n int) map[string]any {
	meals := make([]map[string]any, 0, n)
	types := []string{domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack}
	for i := 0; i < n; i++ {
		meals = append(meals, map[string]any{
			"name":        "Meal " + string(rune('A'+i)),
			"description": "test meal",
			"calories":    400 + i,
			"protein":     30.0,
			"carbs":       40.0,
			"fat":         10.0,
			"meal_type":   types[i%len(types)],
		})
	}
	return map[string]any{"meals": meals, "total_calories": 1800}
}

func TestCreateDietPlan(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/diet-plans", token, planPayload(3))
	require.Equal(t, http.StatusCreated, w.Code)

	var plan domain.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.NotZero(t, plan.ID)
	assert.Equal(t, 1800, plan.TotalCalories)
	assert.Len(t, plan.Meals, 3)

	// Exactly one plan row and three meal rows referencing it
	var planCount, mealCount int64
	require.NoError(t, db.Model(&domain.DietPlan{}).Count(&planCount).Error)
	require.NoError(t, db.Model(&domain.Meal{}).Where("diet_plan_id = ?", plan.ID).Count(&mealCount).Error)
	assert.EqualValues(t, 1, planCount)
	assert.EqualValues(t, 3, mealCount)

	// Fetching the plan returns all three meals
	w = doJSON(t, r, http.MethodGet, "/diet-plans/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, plan.ID, fetched.ID)
	assert.Len(t, fetched.Meals, 3)
	for _, m := range fetched.Meals {
		assert.Equal(t, plan.ID, m.DietPlanID)
	}
}

func TestGetDietPlanNotFound(t *testing.T) {
	r, _ := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodGet, "/diet-plans/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMostRecentPlanReturned(t *testing.T) {
	r, db := setupTest(t)
	token := registerAndLogin(t, r, "alice", "alice@example.com")

	var user domain.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)

	// Older plan inserted directly with a backdated timestamp
	older := domain.DietPlan{UserID: user.ID, TotalCalories: 1500, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&older).Error)

	w := doJSON(t, r, http.MethodPost, "/diet-plans", token, planPayload(1))
	require.Equal(t, http.StatusCreated, w.Code)
	var newer domain.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &newer))

	// The newest plan wins the read
	w = doJSON(t, r, http.MethodGet, "/diet-plans/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, newer.ID, fetched.ID)
}

func TestDietPlanRequiresAuth(t *testing.T) {
	r, _ := setupTest(t)

	w := doJSON(t, r, http.MethodPost, "/diet-plans", "", planPayload(1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/diet-plans/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
