package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func DeviceRoutes(r *gin.Engine) {
	devices := r.Group("/api/devices")
	devices.Use(middleware.RequireAuth())
	{
		devices.POST("/register", controllers.RegisterDevice)
		devices.GET("", controllers.ListDevices)
		devices.DELETE("/:id", controllers.DeactivateDevice)
	}
}
