package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TopicRoutes(r *gin.Engine) {
	topics := r.Group("/api/topics")
	topics.Use(middleware.RequireAuth())
	{
		topics.GET("", controllers.ListTopics)
		topics.POST("/subscribe", controllers.Subscribe)
		topics.POST("/unsubscribe", controllers.Unsubscribe)
		topics.POST("/bulk-subscribe", controllers.BulkSubscribe)
	}
}
