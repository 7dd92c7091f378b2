package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"weightloss_backend/internal/domain"     // Importing domain models
	"weightloss_backend/internal/middleware" // Current-user resolution
	"weightloss_backend/internal/notify"     // Push notification service
	"weightloss_backend/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest carries the full profile of a new account
type RegisterRequest struct {
	Username      string  `json:"username" binding:"required"`       // Username must be provided
	Email         string  `json:"email" binding:"required,email"`    // Email must be provided
	Password      string  `json:"password" binding:"required"`       // Password must be provided
	Biotype       string  `json:"biotype" binding:"required"`        // ectomorph, mesomorph or endomorph
	CurrentWeight float64 `json:"current_weight" binding:"required"` // Current weight in kg
	TargetWeight  float64 `json:"target_weight" binding:"required"`  // Target weight in kg
	Height        float64 `json:"height" binding:"required"`         // Height in cm
	Age           int     `json:"age" binding:"required"`            // Age in years
	Gender        string  `json:"gender" binding:"required"`         // Gender
}

// LoginRequest carries the credentials exchanged for a token
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// TokenResponse is the successful login payload
type TokenResponse struct {
	AccessToken string `json:"access_token"` // Signed JWT
	TokenType   string `json:"token_type"`   // Always "bearer"
}

// DeviceTokenRequest carries the push-notification device fields
type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required"` // Device token, format not validated
	DeviceType  string `json:"device_type" binding:"required"`  // ios or android
}

// loginFailed answers every credential failure identically so the response
// does not reveal whether the username or the password was wrong
func loginFailed(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Reject duplicate usernames before writing
		var existing domain.User
		if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already registered"})
			return
		}
		// Reject duplicate emails before writing
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:      req.Username,      // Username
			Email:         req.Email,         // Email
			Password:      string(hash),      // Password hash, never the plaintext
			Biotype:       req.Biotype,       // Body type classification
			CurrentWeight: req.CurrentWeight, // Current weight
			TargetWeight:  req.TargetWeight,  // Target weight
			Height:        req.Height,        // Height
			Age:           req.Age,           // Age
			Gender:        req.Gender,        // Gender
			IsActive:      true,              // New accounts start active
		}
		// Attempt to create the user; the unique indexes back up the pre-checks
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
			return
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		// Return the stored record; the hash is excluded by its json tag
		c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler authenticates a user and returns a bearer token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			// Unknown username, same response as a bad password
			loginFailed(c)
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			loginFailed(c)
			return
		}
		// Generate JWT token with the username as subject
		token, err := utils.GenerateJWT(user.Username, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// MeHandler returns the authenticated user's profile
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, user) // Password hash excluded by its json tag
	}
}

// UpdateDeviceTokenHandler upserts the push-notification device fields on
// the authenticated user. Repeating the call with the same token is a no-op.
func UpdateDeviceTokenHandler(db *gorm.DB, pusher *notify.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved user from context
		if !ok {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req DeviceTokenRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		deviceType := strings.ToLower(req.DeviceType) // Normalize the device type
		updates := map[string]any{
			"device_token": req.DeviceToken, // Device token
			"device_type":  deviceType,      // ios or android
		}
		// Register an SNS endpoint when push delivery is configured
		if pusher != nil {
			endpoint, err := pusher.RegisterDevice(c.Request.Context(), req.DeviceToken, deviceType)
			if err != nil {
				// Endpoint registration failures do not fail the update
				logrus.WithFields(logrus.Fields{
					"user_id": user.ID,     // User ID
					"error":   err.Error(), // Error message
				}).Warn("Device endpoint registration failed")
			} else {
				updates["device_endpoint"] = endpoint // Store the endpoint ARN
			}
		}
		// Upsert the device fields on the user row
		if err := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update device token"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Device token updated successfully"})
	}
}
