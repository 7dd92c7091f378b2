package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an access token stays valid
const TokenTTL = 15 * time.Minute

// GenerateJWT creates a JWT access token with the username as subject
func GenerateJWT(username, secret string) (string, error) {
	// Set token claims
	claims := jwt.RegisteredClaims{
		Subject:   username,                                     // Username as subject
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)), // Token expires in 15 minutes
		IssuedAt:  jwt.NewNumericDate(time.Now()),               // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string, returning the subject username
func ParseJWT(tokenStr, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{"HS256"}))
	// Check for parsing errors (covers bad signature and expiry)
	if err != nil {
		return "", err
	}
	// Validate token and extract the subject
	if token.Valid && claims.Subject != "" {
		return claims.Subject, nil
	}
	// Return error if token is invalid
	return "", jwt.ErrSignatureInvalid
}
