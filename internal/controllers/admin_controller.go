package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"runners_api/internal/config"
	"runners_api/internal/models"
)

// Dashboard returns aggregate registry counts, computed fresh per request.
func Dashboard(c *gin.Context) {
	var (
		totalUsers    int64
		activeUsers   int64
		usersByRole   = map[string]int64{}
		totalRunners  int64
		activeRunners int64
		verified      int64
		totalCases    int64
		casesByStatus = map[string]int64{}
		totalDevices  int64
	)

	db := config.DB
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers)
	for _, role := range userRoles {
		var n int64
		db.Model(&models.User{}).Where("role = ?", role).Count(&n)
		usersByRole[role] = n
	}

	db.Model(&models.Runner{}).Count(&totalRunners)
	db.Model(&models.Runner{}).Where("is_active = ?", true).Count(&activeRunners)
	db.Model(&models.Runner{}).Where("is_verified = ?", true).Count(&verified)

	db.Model(&models.Case{}).Count(&totalCases)
	for _, status := range caseStatuses {
		var n int64
		db.Model(&models.Case{}).Where("status = ?", status).Count(&n)
		casesByStatus[status] = n
	}

	db.Model(&models.Device{}).Where("is_active = ?", true).Count(&totalDevices)

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":   totalUsers,
			"active":  activeUsers,
			"by_role": usersByRole,
		},
		"runners": gin.H{
			"total":    totalRunners,
			"active":   activeRunners,
			"verified": verified,
		},
		"cases": gin.H{
			"total":     totalCases,
			"by_status": casesByStatus,
		},
		"devices": gin.H{
			"active": totalDevices,
		},
	})
}
