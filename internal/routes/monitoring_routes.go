package routes

import (
	"runners_api/internal/controllers"

	"github.com/gin-gonic/gin"
)

func MonitoringRoutes(r *gin.Engine) {
	// Intake stays open: crash reporters often fire before login.
	monitoring := r.Group("/api/monitoring")
	{
		monitoring.POST("/errors", controllers.ReportError)
		monitoring.POST("/metrics", controllers.ReportMetric)
	}
}
