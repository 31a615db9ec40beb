package api

import (
	"net/http" // HTTP status codes
	"time"     // Session lifetime

	"storefront/internal/api/respond" // Error responses
	"storefront/internal/middleware"  // Session cookie name
	"storefront/internal/service"     // Identity resolver
	"storefront/internal/utils"       // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// Request struct for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`        // Display name must be provided
	Mobile   string `json:"mobile" binding:"required"`      // Mobile number must be provided
	Email    string `json:"email" binding:"required,email"` // Email must be a valid address
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string      `json:"token"` // JWT token
	User  UserSummary `json:"user"`  // Logged in user
}

// UserSummary is the public view of a user
type UserSummary struct {
	ID      uint   `json:"id"`       // User ID
	Name    string `json:"name"`     // Display name
	Email   string `json:"email"`    // Email
	IsAdmin bool   `json:"is_admin"` // Admin flag
}

// SessionSettings controls issued session tokens and cookies
type SessionSettings struct {
	JWTSecret    string        // Token signing key
	TTL          time.Duration // Token and cookie lifetime
	SecureCookie bool          // Send the cookie over HTTPS only
}

// RegisterHandler creates a new user account
func RegisterHandler(identity *service.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "Name, mobile, a valid email and password are required")
			return
		}
		user, err := identity.Register(c.Request.Context(), service.Registration{
			Name:     req.Name,
			Mobile:   req.Mobile,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respond.Error(c, err) // Invalid input, duplicate email or storage failure
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": summaryOf(user.ID, user.Name, user.Email, user.IsAdmin)})
	}
}

// LoginHandler authenticates a user, returns a JWT token and sets it as the session cookie
func LoginHandler(identity *service.IdentityResolver, settings SessionSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Invalid(c, "Email and password are required")
			return
		}
		user, err := identity.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respond.Error(c, err) // Unknown email or wrong password
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Email, settings.JWTSecret, settings.TTL)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to generate token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token", "kind": "storage_failure"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, token, int(settings.TTL.Seconds()), "/", "", settings.SecureCookie, true)
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: summaryOf(user.ID, user.Name, user.Email, user.IsAdmin)})
	}
}

// LogoutHandler revokes the current session token and clears the cookie
func LogoutHandler(rdb *redis.Client, settings SessionSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, _ := c.Get("claims") // Set by SessionMiddleware
		claims, ok := claimsVal.(*utils.Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "kind": "unauthorized"})
			return
		}
		expiresAt := time.Now().Add(settings.TTL)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := utils.RevokeSession(c.Request.Context(), rdb, claims.ID, expiresAt); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": claims.UserID, "error": err.Error()}).Error("Failed to revoke session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out", "kind": "storage_failure"})
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", settings.SecureCookie, true) // Expire the cookie
		logrus.WithFields(logrus.Fields{"user_id": claims.UserID}).Info("User logged out")
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func summaryOf(id uint, name, email string, isAdmin bool) UserSummary {
	return UserSummary{ID: id, Name: name, Email: email, IsAdmin: isAdmin}
}
