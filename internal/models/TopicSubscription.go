package models

import (
	"time"

	"gorm.io/gorm"
)

// TopicSubscription is a flag row for a named push topic. Unique per
// (user, topic); subscribe/unsubscribe flip Subscribed rather than
// deleting the row.
type TopicSubscription struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_user_topic;not null"`
	Topic  string `json:"topic" gorm:"uniqueIndex:idx_user_topic;not null"`

	Subscribed        bool       `json:"subscribed" gorm:"default:true"`
	NotificationCount int        `json:"notification_count" gorm:"default:0"`
	LastNotifiedAt    *time.Time `json:"last_notified_at,omitempty"`
}
