package models

import (
	"time"

	"gorm.io/gorm"
)

// Case is an incident report tied to a Runner. Many cases may reference one
// runner; the runner cannot be deleted while cases point at it.
type Case struct {
	gorm.Model
	RunnerID     uint `json:"runner_id" gorm:"index;not null"`
	ReportedByID uint `json:"reported_by_id" gorm:"index;not null"`

	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"default:Missing"` // "Missing", "Active", "Resolved", "Closed"
	Priority    string `json:"priority" gorm:"default:Medium"` // "Low", "Medium", "High", "Critical"

	IsPublic   bool `json:"is_public" gorm:"default:false"`
	IsApproved bool `json:"is_approved" gorm:"default:false"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`

	// Last-seen location: human description plus an optional point geometry
	// stored as WKB (SRID 4326); GeoJSON on the wire.
	LastSeenLocation string     `json:"last_seen_location"`
	LastSeenGeom     []byte     `gorm:"type:bytea" json:"-"`
	LastSeenAt       *time.Time `json:"last_seen_at,omitempty"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	ViewCount  int `json:"view_count" gorm:"default:0"`
	ShareCount int `json:"share_count" gorm:"default:0"`
	TipCount   int `json:"tip_count" gorm:"default:0"`

	Runner *Runner `gorm:"foreignKey:RunnerID" json:"runner,omitempty"`
}
