package api

import (
	"net/http" // HTTP status codes

	"weightloss_backend/internal/domain"     // Importing domain models
	"weightloss_backend/internal/middleware" // Current-user resolution

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// ProgressRequest carries one weight measurement
type ProgressRequest struct {
	Weight   float64 `json:"weight" binding:"required"` // Measured weight in kg
	Notes    *string `json:"notes"`                     // Optional notes
	ImageURL *string `json:"image_url"`                 // Optional progress photo
}

// AddProgressHandler inserts a weight entry for the authenticated user
func AddProgressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ProgressRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		entry := domain.Progress{
			UserID:   user.ID,      // Owner of the entry
			Weight:   req.Weight,   // Measured weight
			Notes:    req.Notes,    // Optional notes
			ImageURL: req.ImageURL, // Optional photo
		}
		// Save the entry
		if err := db.Create(&entry).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Failed to record progress") // Log failure
			// Return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record progress"})
			return
		}
		// Return the stored entry
		c.JSON(http.StatusCreated, entry)
	}
}

// GetMyProgressHandler lists the authenticated user's entries, newest first
func GetMyProgressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var entries []domain.Progress // Slice to hold entries
		// Fetch all entries for this user ordered by measurement date
		if err := db.Where("user_id = ?", user.ID).Order("date DESC").Find(&entries).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
			return
		}
		c.JSON(http.StatusOK, entries) // Return the entries
	}
}
