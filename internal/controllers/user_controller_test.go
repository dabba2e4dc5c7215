package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

func TestListUsersIsStaffOnly(t *testing.T) {
	r := setupTest(t)
	_, userToken := createUser(t, "plain@example.com", "user")
	_, staffToken := createUser(t, "staff@example.com", "staff")

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/api/users", userToken, nil).Code)

	w := doJSON(r, http.MethodGet, "/api/users", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["total"])
}

func TestListUsersFilters(t *testing.T) {
	r := setupTest(t)
	createUser(t, "alice@example.com", "user")
	createUser(t, "bob@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodGet, "/api/users?search=alice", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["total"])

	w = doJSON(r, http.MethodGet, "/api/users?role=admin", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["total"])

	w = doJSON(r, http.MethodGet, "/api/users?role=wizard", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserOwnershipRule(t *testing.T) {
	r := setupTest(t)
	target, _ := createUser(t, "target@example.com", "user")
	_, otherToken := createUser(t, "other@example.com", "user")
	_, staffToken := createUser(t, "staff@example.com", "staff")

	path := fmt.Sprintf("/api/users/%d", target.ID)
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, path, staffToken, nil).Code)
}

func TestUpdateUserPartialLeavesOtherFields(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "me@example.com", "user")
	require.NoError(t, config.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("city", "Houston").Error)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), token, map[string]interface{}{
		"phone": "555-0100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.User
	require.NoError(t, config.DB.First(&updated, user.ID).Error)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "Houston", updated.City)
}

func TestUpdateUserRoleChangeIsAdminOnly(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "me@example.com", "user")

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), token, map[string]interface{}{
		"role": "admin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, adminToken := createUser(t, "admin@example.com", "admin")
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), adminToken, map[string]interface{}{
		"role": "staff",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, config.DB.First(&updated, user.ID).Error)
	assert.Equal(t, "staff", updated.Role)
}

func TestDeleteUserSoftDeactivatesWhenRowsExist(t *testing.T) {
	r := setupTest(t)
	user, _ := createUser(t, "owner@example.com", "user")
	createRunner(t, user.ID, "Jane")
	_, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, config.DB.First(&updated, user.ID).Error)
	assert.False(t, updated.IsActive)
}

func TestDeleteUserSoftDeactivatesWhenOnlySubscriptionsExist(t *testing.T) {
	r := setupTest(t)
	user, _ := createUser(t, "subscriber@example.com", "user")
	require.NoError(t, config.DB.Create(&models.TopicSubscription{
		UserID:     user.ID,
		Topic:      "org_announcements",
		Subscribed: true,
	}).Error)
	_, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, config.DB.First(&updated, user.ID).Error)
	assert.False(t, updated.IsActive)

	var subs int64
	config.DB.Model(&models.TopicSubscription{}).Where("user_id = ?", user.ID).Count(&subs)
	assert.EqualValues(t, 1, subs)
}

func TestDeleteUserHardDeletesWhenNoRows(t *testing.T) {
	r := setupTest(t)
	user, _ := createUser(t, "loner@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	config.DB.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}
