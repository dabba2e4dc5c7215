package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/middleware"
	"runners_api/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutWindow   = 30 * time.Minute
)

type registerInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Role      string `json:"role"`

	Phone   string `json:"phone" binding:"max=30"`
	Address string `json:"address" binding:"max=255"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	ZipCode string `json:"zipCode" binding:"max=20"`

	Organization string `json:"organization" binding:"max=255"`
	Title        string `json:"title" binding:"max=255"`
	Credentials  string `json:"credentials" binding:"max=255"`

	EmergencyContactName  string `json:"emergencyContactName" binding:"max=100"`
	EmergencyContactPhone string `json:"emergencyContactPhone" binding:"max=30"`
}

// Register creates a user account. Privileged roles (admin, staff) may only
// be assigned when the caller presents a valid admin bearer token.
func Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := validateEnum("role", defaultRole(input.Role), userRoles)
	if err != nil {
		c.JSON(http.StatusBadRequest, enumError("role", userRoles))
		return
	}
	if isPrivileged(role) && !callerIsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only an admin may create admin or staff accounts"})
		return
	}

	// Unscoped: a soft-deleted row still holds the unique email index.
	var existing models.User
	if err := config.DB.Unscoped().Where("email = ?", strings.ToLower(input.Email)).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Email:                 strings.ToLower(input.Email),
		Password:              hashed,
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Role:                  role,
		IsActive:              true,
		Phone:                 input.Phone,
		Address:               input.Address,
		City:                  input.City,
		State:                 input.State,
		ZipCode:               input.ZipCode,
		Organization:          input.Organization,
		Title:                 input.Title,
		Credentials:           input.Credentials,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		logrus.WithError(err).Error("Register: could not create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, user.FirstName+" "+user.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Login checks credentials, enforces the failed-attempt lockout, and issues
// a token on success.
func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is deactivated"})
		return
	}
	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account is temporarily locked"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		user.FailedAttempts++
		if user.FailedAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutWindow)
			user.LockedUntil = &until
			user.FailedAttempts = 0
			logrus.WithField("user_id", user.ID).Warn("Login: account locked after repeated failures")
		}
		if err := config.DB.Save(&user).Error; err != nil {
			logrus.WithError(err).Error("Login: could not persist failed attempt")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := config.DB.Save(&user).Error; err != nil {
		logrus.WithError(err).Error("Login: could not stamp last login")
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, user.FirstName+" "+user.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// ChangePassword requires the correct current password before re-hashing.
func ChangePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hashed, err := hashPassword(body.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	user.Password = hashed
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Me returns the authenticated user's profile.
func Me(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func defaultRole(role string) string {
	if strings.TrimSpace(role) == "" {
		return "user"
	}
	return strings.ToLower(strings.TrimSpace(role))
}

// callerIsAdmin checks the optional bearer token on an otherwise anonymous
// route. Registration itself needs no auth; assigning privileged roles does.
func callerIsAdmin(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	token, err := middleware.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
