package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Password  string `json:"-" gorm:"not null"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" gorm:"default:user"` // "user", "staff", "admin"
	IsActive  bool   `json:"is_active" gorm:"default:true"`

	// Contact fields
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`

	// Professional profile fields
	Organization string `json:"organization"`
	Title        string `json:"title"`
	Credentials  string `json:"credentials"`

	// Emergency contact
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	EmailVerified   bool       `json:"email_verified" gorm:"default:false"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`

	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `json:"-" gorm:"default:0"`
	LockedUntil    *time.Time `json:"-"`

	// Owned rows
	Runners []Runner            `gorm:"foreignKey:UserID" json:"runners,omitempty"`
	Devices []Device            `gorm:"foreignKey:UserID" json:"devices,omitempty"`
	Topics  []TopicSubscription `gorm:"foreignKey:UserID" json:"topics,omitempty"`
}
