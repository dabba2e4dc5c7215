package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireAuthWithRole("admin", "staff"))
	{
		admin.GET("/dashboard", controllers.Dashboard)
	}
}
