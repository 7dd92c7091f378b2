package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"weightloss_backend/internal/domain"     // Importing domain models
	"weightloss_backend/internal/middleware" // Current-user resolution
	"weightloss_backend/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// MealRequest describes one meal inside a diet-plan creation request
type MealRequest struct {
	Name        string  `json:"name" binding:"required"`      // Meal name
	Description string  `json:"description"`                  // Meal description
	Calories    int     `json:"calories" binding:"required"`  // Calories
	Protein     float64 `json:"protein"`                      // Protein in grams
	Carbs       float64 `json:"carbs"`                        // Carbs in grams
	Fat         float64 `json:"fat"`                          // Fat in grams
	MealType    string  `json:"meal_type" binding:"required"` // breakfast, lunch, dinner or snack
	ImageURL    *string `json:"image_url"`                    // Optional meal image
}

// DietPlanRequest carries a plan header plus its meals
type DietPlanRequest struct {
	Meals         []MealRequest `json:"meals" binding:"required,dive"`     // Meals in the plan
	TotalCalories int           `json:"total_calories" binding:"required"` // Aggregate calorie target
}

// dietPlanCacheKey is the per-user cache key for the plan read
func dietPlanCacheKey(userID uint) string {
	return "dietplan:user:" + strconv.Itoa(int(userID))
}

// CreateDietPlanHandler persists a plan and its meals atomically
func CreateDietPlanHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req DietPlanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		plan := domain.DietPlan{
			UserID:        user.ID,           // Owner of the plan
			TotalCalories: req.TotalCalories, // Aggregate calorie target
		}
		// Insert the plan header and every meal in one transaction so a
		// failed meal insert rolls the whole plan back
		err := db.Transaction(func(tx *gorm.DB) error {
			// Create the plan header
			if err := tx.Create(&plan).Error; err != nil {
				return err // Return error to rollback
			}
			// Create each dependent meal row
			for _, m := range req.Meals {
				meal := domain.Meal{
					DietPlanID:  plan.ID,       // Foreign key to the new plan
					Name:        m.Name,        // Meal name
					Description: m.Description, // Meal description
					Calories:    m.Calories,    // Calories
					Protein:     m.Protein,     // Protein
					Carbs:       m.Carbs,       // Carbs
					Fat:         m.Fat,         // Fat
					MealType:    m.MealType,    // Meal type tag
					ImageURL:    m.ImageURL,    // Optional image
				}
				if err := tx.Create(&meal).Error; err != nil {
					return err // Return error to rollback
				}
				plan.Meals = append(plan.Meals, meal) // Collect for the response
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,        // Owner user ID
				"meals":   len(req.Meals), // Number of meals attempted
				"error":   err.Error(),    // Error message
			}).Error("Diet plan creation failed")
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create diet plan"})
			return
		}
		// Invalidate the cached plan read for this user
		_ = utils.DeleteCache(context.Background(), rdb, dietPlanCacheKey(user.ID))
		// Return the stored plan with its meals
		c.JSON(http.StatusCreated, plan)
	}
}

// GetMyDietPlanHandler returns the authenticated user's most recent plan
func GetMyDietPlanHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()           // Context for Redis operations
		cacheKey := dietPlanCacheKey(user.ID) // Cache key for the plan
		var plan domain.DietPlan              // Plan struct to hold data
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &plan)
		if err == nil && found {
			// Return cached plan
			c.JSON(http.StatusOK, plan)
			return
		}
		// Most recent plan wins when a user has more than one
		if err := db.Preload("Meals").Where("user_id = ?", user.ID).
			Order("created_at DESC").First(&plan).Error; err != nil {
			// Return not found if the user has no plan
			c.JSON(http.StatusNotFound, gin.H{"error": "Diet plan not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, plan, 60*time.Second) // Cache the plan for 60 seconds
		c.JSON(http.StatusOK, plan)                                  // Return the plan with its meals
	}
}
