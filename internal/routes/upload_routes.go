package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func UploadRoutes(r *gin.Engine) {
	uploads := r.Group("/api/uploads")
	uploads.Use(middleware.RequireAuth())
	{
		uploads.POST("/images", controllers.UploadImages)
		uploads.GET("/signed-url", controllers.SignedURL)
	}
}
