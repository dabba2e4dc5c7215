package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

func TestDashboardCounts(t *testing.T) {
	r := setupTest(t)
	owner, _ := createUser(t, "owner@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")

	runner := createRunner(t, owner.ID, "Jane")
	require.NoError(t, config.DB.Create(&models.Case{
		RunnerID:     runner.ID,
		ReportedByID: owner.ID,
		Title:        "Jane Runner - Missing Person Case",
		Status:       "Missing",
		Priority:     "Medium",
	}).Error)

	w := doJSON(r, http.MethodGet, "/api/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	users := body["users"].(map[string]interface{})
	assert.EqualValues(t, 2, users["total"])
	assert.EqualValues(t, 1, users["by_role"].(map[string]interface{})["admin"])

	runners := body["runners"].(map[string]interface{})
	assert.EqualValues(t, 1, runners["total"])
	assert.EqualValues(t, 0, runners["verified"])

	cases := body["cases"].(map[string]interface{})
	assert.EqualValues(t, 1, cases["by_status"].(map[string]interface{})["Missing"])
}

func TestDashboardRequiresPrivilegedRole(t *testing.T) {
	r := setupTest(t)
	_, userToken := createUser(t, "plain@example.com", "user")
	_, staffToken := createUser(t, "staff@example.com", "staff")

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodGet, "/api/admin/dashboard", userToken, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/admin/dashboard", staffToken, nil).Code)
}

func TestMonitoringIntake(t *testing.T) {
	r := setupTest(t)

	w := doJSON(r, http.MethodPost, "/api/monitoring/errors", "", map[string]interface{}{
		"source":  "mobile",
		"message": "render failed",
	})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(r, http.MethodPost, "/api/monitoring/metrics", "", map[string]interface{}{
		"source": "web",
		"name":   "page_load_ms",
		"value":  412,
	})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestMonitoringRejectsMalformedJSON(t *testing.T) {
	r := setupTest(t)

	req := doJSON(r, http.MethodPost, "/api/monitoring/errors", "", nil)
	assert.Equal(t, http.StatusBadRequest, req.Code)
}
