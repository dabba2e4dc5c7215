package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

// updateUserInput defines the fields a client can send to update a profile.
// Only non-nil fields overwrite.
type updateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zipCode"`

	Organization *string `json:"organization"`
	Title        *string `json:"title"`
	Credentials  *string `json:"credentials"`

	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`

	// Admin-only
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// ListUsers is admin/staff only; supports role/active filters and free-text
// search over name and email.
func ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)

	query := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		normalized, err := validateEnum("role", role, userRoles)
		if err != nil {
			c.JSON(http.StatusBadRequest, enumError("role", userRoles))
			return
		}
		query = query.Where("role = ?", normalized)
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	} else if active == "false" {
		query = query.Where("is_active = ?", false)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error counting users"})
		return
	}

	var users []models.User
	if err := query.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing users"})
		return
	}

	c.JSON(http.StatusOK, pagedResponse(users, page, pageSize, total))
}

// GetUser returns one profile; non-privileged callers can only fetch their
// own.
func GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isPrivileged(currentRole(c)) && currentUserID(c) != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to view this user"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser applies a partial profile update. Role and active-flag changes
// are admin only.
func UpdateUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerRole := currentRole(c)
	if callerRole != "admin" && currentUserID(c) != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to update this user"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Role != nil || input.IsActive != nil {
		if callerRole != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "only an admin may change role or active status"})
			return
		}
		if input.Role != nil {
			normalized, err := validateEnum("role", *input.Role, userRoles)
			if err != nil {
				c.JSON(http.StatusBadRequest, enumError("role", userRoles))
				return
			}
			user.Role = normalized
		}
		if input.IsActive != nil {
			user.IsActive = *input.IsActive
		}
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.ZipCode != nil {
		user.ZipCode = *input.ZipCode
	}
	if input.Organization != nil {
		user.Organization = *input.Organization
	}
	if input.Title != nil {
		user.Title = *input.Title
	}
	if input.Credentials != nil {
		user.Credentials = *input.Credentials
	}
	if input.EmergencyContactName != nil {
		user.EmergencyContactName = *input.EmergencyContactName
	}
	if input.EmergencyContactPhone != nil {
		user.EmergencyContactPhone = *input.EmergencyContactPhone
	}

	if err := config.DB.Save(&user).Error; err != nil {
		logrus.WithError(err).Error("UpdateUser: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser soft-deactivates when the user still owns rows, hard-deletes
// otherwise. Admin only.
func DeleteUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	var owned int64
	config.DB.Model(&models.Runner{}).Where("user_id = ?", id).Count(&owned)
	if owned == 0 {
		config.DB.Model(&models.Case{}).Where("reported_by_id = ?", id).Count(&owned)
	}
	if owned == 0 {
		config.DB.Model(&models.Device{}).Where("user_id = ?", id).Count(&owned)
	}
	if owned == 0 {
		config.DB.Model(&models.TopicSubscription{}).Where("user_id = ?", id).Count(&owned)
	}

	if owned > 0 {
		user.IsActive = false
		if err := config.DB.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not deactivate user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deactivated", "user": user})
		return
	}

	if err := config.DB.Unscoped().Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
