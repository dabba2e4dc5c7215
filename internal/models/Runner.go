package models

import (
	"time"

	"gorm.io/gorm"
)

// Runner is a registered missing-person subject profile owned by a user.
// Each photo upload pushes NextPhotoReminder out six months and clears
// ReminderSent.
type Runner struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"index;not null"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `json:"gender"`

	// Physical description
	Height           string `json:"height"`
	Weight           string `json:"weight"`
	HairColor        string `json:"hair_color"`
	EyeColor         string `json:"eye_color"`
	IdentifyingMarks string `json:"identifying_marks"`

	// Medical fields
	MedicalConditions string `json:"medical_conditions"`
	Medications       string `json:"medications"`
	Allergies         string `json:"allergies"`

	PhotoURL          string     `json:"photo_url"`
	NextPhotoReminder *time.Time `json:"next_photo_reminder,omitempty"`
	ReminderSent      bool       `json:"reminder_sent" gorm:"default:false"`
	ReminderCount     int        `json:"reminder_count" gorm:"default:0"`

	IsVerified bool       `json:"is_verified" gorm:"default:false"`
	VerifiedBy string     `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	Cases []Case `gorm:"foreignKey:RunnerID" json:"cases,omitempty"`
}
