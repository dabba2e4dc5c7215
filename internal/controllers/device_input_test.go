package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"runners_api/internal/models"
)

func TestApplyDeviceInputCopiesAllMetadata(t *testing.T) {
	device := models.Device{
		UserID:      1,
		Platform:    "ios",
		PushToken:   "stale-token",
		AppVersion:  "1.0.0",
		OSVersion:   "16.0",
		DeviceModel: "iPhone 12",
		IsActive:    false,
	}
	input := registerDeviceInput{
		Platform:    "ios",
		PushToken:   "fresh-token",
		AppVersion:  "2.3.1",
		OSVersion:   "17.4",
		DeviceModel: "iPhone 15",
	}
	now := time.Now()

	applyDeviceInput(&device, input, now)

	assert.Equal(t, "fresh-token", device.PushToken)
	assert.Equal(t, "2.3.1", device.AppVersion)
	assert.Equal(t, "17.4", device.OSVersion)
	assert.Equal(t, "iPhone 15", device.DeviceModel)
	assert.True(t, device.IsActive)
	assert.Equal(t, now, *device.LastSeenAt)
}
