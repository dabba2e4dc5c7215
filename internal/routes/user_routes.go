package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.Engine) {
	users := r.Group("/api/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/:id", controllers.GetUser)
		users.PUT("/:id", controllers.UpdateUser)
	}

	staff := r.Group("/api/users")
	staff.Use(middleware.RequireAuthWithRole("admin", "staff"))
	{
		staff.GET("", controllers.ListUsers)
	}

	admin := r.Group("/api/users")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.DELETE("/:id", controllers.DeleteUser)
	}
}
