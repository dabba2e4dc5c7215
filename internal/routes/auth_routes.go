package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	authed := r.Group("/api/auth")
	authed.Use(middleware.RequireAuth())
	{
		authed.POST("/change-password", controllers.ChangePassword)
		authed.GET("/me", controllers.Me)
	}
}
