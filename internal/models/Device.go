package models

import (
	"time"

	"gorm.io/gorm"
)

// Device is a push-notification endpoint. One row per (user, platform);
// re-registration updates the row in place.
type Device struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_platform;not null"`
	Platform  string `json:"platform" gorm:"uniqueIndex:idx_user_platform;not null"` // "ios", "android"
	PushToken string `json:"push_token" gorm:"not null"`

	AppVersion  string `json:"app_version"`
	OSVersion   string `json:"os_version"`
	DeviceModel string `json:"device_model"`

	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
}
