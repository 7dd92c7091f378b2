package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String matching on driver errors
	"time"     // Time durations

	"weightloss_backend/internal/domain"     // Importing domain models
	"weightloss_backend/internal/middleware" // Current-user resolution
	"weightloss_backend/internal/notify"     // Push notification service
	"weightloss_backend/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ChallengeRequest carries a new challenge definition
type ChallengeRequest struct {
	Name             string    `json:"name" binding:"required"`               // Challenge name
	Description      string    `json:"description"`                           // Challenge description
	StartDate        time.Time `json:"start_date" binding:"required"`         // Start of the window
	EndDate          time.Time `json:"end_date" binding:"required"`           // End of the window
	TargetWeightLoss float64   `json:"target_weight_loss" binding:"required"` // Group goal in kg
	ImageURL         *string   `json:"image_url"`                             // Optional image
}

// challengeListCacheKey builds the cache key for one page of the listing
func challengeListCacheKey(page, pageSize int) string {
	return "challenges:page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// invalidateChallengeListCache drops the cached listing pages after a write
// (simple version: delete first 5 pages)
func invalidateChallengeListCache(ctx context.Context, rdb *redis.Client) {
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, challengeListCacheKey(i, 20)) // Delete cache entries
	}
}

// pagination reads page/page_size query params with the usual defaults
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page
	pageSize = 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		// Convert page_size to integer
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// CreateChallengeHandler stores a challenge with the caller as creator
func CreateChallengeHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ChallengeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		challenge := domain.Challenge{
			Name:             req.Name,             // Challenge name
			Description:      req.Description,      // Challenge description
			StartDate:        req.StartDate,        // Start of the window
			EndDate:          req.EndDate,          // End of the window
			TargetWeightLoss: req.TargetWeightLoss, // Group goal
			CreatedBy:        user.ID,              // Caller is the creator
			ImageURL:         req.ImageURL,         // Optional image
		}
		// Save the challenge
		if err := db.Create(&challenge).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Creator user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create challenge") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
			return
		}
		// Invalidate cached listing pages
		invalidateChallengeListCache(context.Background(), rdb)
		// Return the stored challenge
		c.JSON(http.StatusCreated, challenge)
	}
}

// ListChallengesHandler returns one page of all challenges
func ListChallengesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()                       // Context for Redis operations
		page, pageSize := pagination(c)                   // Pagination parameters
		cacheKey := challengeListCacheKey(page, pageSize) // Cache key for this page
		var cached struct {
			Challenges []domain.Challenge `json:"challenges"`  // List of challenges
			Page       int                `json:"page"`        // Current page
			PageSize   int                `json:"page_size"`   // Page size
			Total      int64              `json:"total"`       // Total challenges
			TotalPages int                `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"challenges":  cached.Challenges, // Cached challenges
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total challenges
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		offset := (page - 1) * pageSize // Calculate offset
		var total int64                 // Total challenge count
		// Count all challenges for pagination
		if err := db.Model(&domain.Challenge{}).Count(&total).Error; err != nil {
			// If counting fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count challenges"})
			return
		}
		var challenges []domain.Challenge // Slice to hold challenges
		// Fetch the requested page, newest first
		if err := db.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&challenges).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"challenges":  challenges, // List of challenges
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total challenges
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return the page
	}
}

// isDuplicateKeyError reports whether an insert hit a unique index
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL 1062 and SQLite constraint messages are not mapped by every driver
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// JoinChallengeHandler adds the caller to a challenge. Joining twice is a
// no-op backed by the unique index on (challenge_id, user_id).
func JoinChallengeHandler(db *gorm.DB, pusher *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Parse the challenge id from the path
		challengeID, err := strconv.Atoi(c.Param("id"))
		if err != nil || challengeID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
			return
		}
		var challenge domain.Challenge // Fetch the challenge
		if err := db.First(&challenge, challengeID).Error; err != nil {
			// If challenge not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		participant := domain.ChallengeParticipant{
			ChallengeID: challenge.ID, // Foreign key to Challenge
			UserID:      user.ID,      // Foreign key to User
		}
		// Insert the membership row; a duplicate-key error means the user
		// already joined and counts as success
		if err := db.Create(&participant).Error; err != nil && !isDuplicateKeyError(err) {
			logrus.WithFields(logrus.Fields{
				"user_id":      user.ID,      // Joining user ID
				"challenge_id": challenge.ID, // Challenge ID
				"error":        err.Error(),  // Error message
			}).Error("Failed to join challenge") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join challenge"})
			return
		}
		// Notify the creator off the request path; delivery is best-effort
		if pusher != nil && challenge.CreatedBy != user.ID {
			go pusher.PushToUser(db, challenge.CreatedBy,
				"New challenge participant",
				user.Username+" joined \""+challenge.Name+"\"",
				map[string]string{"challenge_id": strconv.Itoa(int(challenge.ID))})
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Successfully joined challenge"})
	}
}
