package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

func TestSubscribeRejectsUnknownTopic(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "sub@example.com", "user")

	w := doJSON(r, http.MethodPost, "/api/topics/subscribe", token, map[string]interface{}{
		"topic": "celebrity_gossip",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "topic", body["field"])
	assert.NotEmpty(t, body["allowed"])
}

func TestSubscribeIsIdempotent(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "sub@example.com", "user")

	payload := map[string]interface{}{"topic": "org_announcements"}
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/topics/subscribe", token, payload).Code)
	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/topics/subscribe", token, payload).Code)

	var subs []models.TopicSubscription
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Subscribed)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/topics/unsubscribe", token, payload).Code)
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.False(t, subs[0].Subscribed)
}

func TestBulkSubscribeReportsPerTopicResults(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "sub@example.com", "user")

	w := doJSON(r, http.MethodPost, "/api/topics/bulk-subscribe", token, map[string]interface{}{
		"topics": []string{"org_announcements", "no_such_topic", "region_houston"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	results, ok := body["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 3)

	first := results[0].(map[string]interface{})
	second := results[1].(map[string]interface{})
	third := results[2].(map[string]interface{})
	assert.Equal(t, true, first["ok"])
	assert.Equal(t, false, second["ok"])
	assert.Equal(t, true, third["ok"])

	var count int64
	config.DB.Model(&models.TopicSubscription{}).Where("user_id = ? AND subscribed = ?", user.ID, true).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestListTopicsShowsSubscriptionState(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "sub@example.com", "user")
	require.NoError(t, config.DB.Create(&models.TopicSubscription{
		UserID: user.ID, Topic: "region_texas", Subscribed: true,
	}).Error)

	w := doJSON(r, http.MethodGet, "/api/topics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	topics := body["data"].([]interface{})
	found := false
	for _, entry := range topics {
		m := entry.(map[string]interface{})
		if m["topic"] == "region_texas" {
			found = true
			assert.Equal(t, true, m["subscribed"])
		} else {
			assert.Equal(t, false, m["subscribed"])
		}
	}
	assert.True(t, found)
}
