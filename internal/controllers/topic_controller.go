package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"runners_api/internal/config"
	"runners_api/internal/models"
	"runners_api/internal/notifications"
)

type topicInput struct {
	Topic string `json:"topic" binding:"required"`
}

// ListTopics returns the fixed catalogue annotated with the caller's
// subscription state.
func ListTopics(c *gin.Context) {
	var subs []models.TopicSubscription
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing subscriptions"})
		return
	}

	subscribed := make(map[string]bool, len(subs))
	for _, s := range subs {
		subscribed[s.Topic] = s.Subscribed
	}

	topics := make([]gin.H, 0, len(notifications.Catalogue))
	for _, t := range notifications.Catalogue {
		topics = append(topics, gin.H{"topic": t, "subscribed": subscribed[t]})
	}
	c.JSON(http.StatusOK, gin.H{"data": topics})
}

// Subscribe flips the caller's (user, topic) row on; idempotent.
func Subscribe(c *gin.Context) {
	setSubscription(c, true)
}

// Unsubscribe flips the caller's (user, topic) row off; idempotent.
func Unsubscribe(c *gin.Context) {
	setSubscription(c, false)
}

func setSubscription(c *gin.Context, subscribed bool) {
	var input topicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !notifications.IsKnownTopic(input.Topic) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unknown topic",
			"field":   "topic",
			"allowed": notifications.Catalogue,
		})
		return
	}

	if err := upsertSubscription(currentUserID(c), input.Topic, subscribed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": input.Topic, "subscribed": subscribed})
}

// BulkSubscribe applies subscribe across a list and reports per-topic
// outcomes; one bad topic never fails the batch.
func BulkSubscribe(c *gin.Context) {
	var input struct {
		Topics []string `json:"topics" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	results := make([]gin.H, 0, len(input.Topics))
	for _, topic := range input.Topics {
		if !notifications.IsKnownTopic(topic) {
			results = append(results, gin.H{"topic": topic, "ok": false, "error": "unknown topic"})
			continue
		}
		if err := upsertSubscription(userID, topic, true); err != nil {
			results = append(results, gin.H{"topic": topic, "ok": false, "error": "could not update subscription"})
			continue
		}
		results = append(results, gin.H{"topic": topic, "ok": true})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// upsertSubscription creates or flips the (user, topic) row. A unique-index
// race on insert falls back to the update path.
func upsertSubscription(userID uint, topic string, subscribed bool) error {
	var sub models.TopicSubscription
	err := config.DB.Where("user_id = ? AND topic = ?", userID, topic).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.TopicSubscription{UserID: userID, Topic: topic, Subscribed: subscribed}
		if createErr := config.DB.Create(&sub).Error; createErr != nil {
			var pgErr *pq.Error
			if !errors.As(createErr, &pgErr) || pgErr.Code != "23505" {
				return createErr
			}
			if err := config.DB.Where("user_id = ? AND topic = ?", userID, topic).First(&sub).Error; err != nil {
				return err
			}
		} else {
			return nil
		}
	} else if err != nil {
		return err
	}

	sub.Subscribed = subscribed
	return config.DB.Save(&sub).Error
}
