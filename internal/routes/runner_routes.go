package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RunnerRoutes(r *gin.Engine) {
	runners := r.Group("/api/runners")
	runners.Use(middleware.RequireAuth())
	{
		runners.POST("", controllers.CreateRunner)
		runners.GET("", controllers.ListRunners)
		runners.GET("/:id", controllers.GetRunner)
		runners.PUT("/:id", controllers.UpdateRunner)
		runners.DELETE("/:id", controllers.DeleteRunner)
		runners.POST("/:id/photo", controllers.UploadRunnerPhoto)
	}

	staff := r.Group("/api/runners")
	staff.Use(middleware.RequireAuthWithRole("admin", "staff"))
	{
		staff.PUT("/:id/verify", controllers.VerifyRunner)
		staff.GET("/reminders/due", controllers.ListDueReminders)
		staff.POST("/:id/reminder-sent", controllers.MarkReminderSent)
	}
}
