package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"
	"runners_api/internal/notifications"
)

type registerDeviceInput struct {
	Platform    string `json:"platform" binding:"required"`
	PushToken   string `json:"pushToken" binding:"required,max=4096"`
	AppVersion  string `json:"appVersion" binding:"max=50"`
	OSVersion   string `json:"osVersion" binding:"max=50"`
	DeviceModel string `json:"deviceModel" binding:"max=100"`
}

// RegisterDevice upserts the caller's device row for a platform. The first
// device a user ever registers also subscribes them to their role's default
// topics.
func RegisterDevice(c *gin.Context) {
	var input registerDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := validateEnum("platform", input.Platform, platforms)
	if err != nil {
		c.JSON(http.StatusBadRequest, enumError("platform", platforms))
		return
	}

	userID := currentUserID(c)

	var existingCount int64
	if err := config.DB.Model(&models.Device{}).Where("user_id = ?", userID).Count(&existingCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	firstDevice := existingCount == 0

	now := time.Now()
	var device models.Device
	err = config.DB.Where("user_id = ? AND platform = ?", userID, platform).First(&device).Error
	switch {
	case err == nil:
		applyDeviceInput(&device, input, now)
		if err := config.DB.Save(&device).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update device"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		device = models.Device{
			UserID:      userID,
			Platform:    platform,
			PushToken:   input.PushToken,
			AppVersion:  input.AppVersion,
			OSVersion:   input.OSVersion,
			DeviceModel: input.DeviceModel,
			LastSeenAt:  &now,
			IsActive:    true,
		}
		if err := config.DB.Create(&device).Error; err != nil {
			// A racing registration may have inserted the row first; the
			// unique index turns that into an update.
			var pgErr *pq.Error
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if err := config.DB.Where("user_id = ? AND platform = ?", userID, platform).First(&device).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register device"})
					return
				}
				applyDeviceInput(&device, input, now)
				if err := config.DB.Save(&device).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register device"})
					return
				}
			} else {
				logrus.WithError(err).Error("RegisterDevice: create failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register device"})
				return
			}
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	var defaults []string
	if firstDevice {
		defaults = notifications.DefaultTopicsForRole(currentRole(c))
		for _, topic := range defaults {
			if err := upsertSubscription(userID, topic, true); err != nil {
				logrus.WithError(err).WithField("topic", topic).Warn("RegisterDevice: default subscription failed")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"device": device, "default_topics": defaults})
}

// applyDeviceInput copies the registration payload onto an existing row.
// Both the plain update path and the insert-race fallback go through here so
// the metadata fields never diverge.
func applyDeviceInput(device *models.Device, input registerDeviceInput, now time.Time) {
	device.PushToken = input.PushToken
	device.AppVersion = input.AppVersion
	device.OSVersion = input.OSVersion
	device.DeviceModel = input.DeviceModel
	device.LastSeenAt = &now
	device.IsActive = true
}

// ListDevices returns the caller's registered devices.
func ListDevices(c *gin.Context) {
	var devices []models.Device
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Order("id").Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing devices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": devices})
}

// DeactivateDevice flips the caller's device inactive; the row is kept so
// re-registration restores it.
func DeactivateDevice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var device models.Device
	if err := config.DB.Where("id = ? AND user_id = ?", id, currentUserID(c)).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		}
		return
	}

	device.IsActive = false
	if err := config.DB.Save(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not deactivate device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"device": device})
}
