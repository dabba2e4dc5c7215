package routes

import (
	"runners_api/internal/controllers"
	"runners_api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func CaseRoutes(r *gin.Engine) {
	// Public surface: approved cases and engagement counters need no auth.
	public := r.Group("/api/cases")
	{
		public.GET("/public", controllers.ListPublicCases)
		public.POST("/:id/view", controllers.BumpCaseCounter("view"))
		public.POST("/:id/share", controllers.BumpCaseCounter("share"))
		public.POST("/:id/tip", controllers.BumpCaseCounter("tip"))
	}

	cases := r.Group("/api/cases")
	cases.Use(middleware.RequireAuth())
	{
		cases.POST("", controllers.CreateCase)
		cases.GET("", controllers.ListCases)
		cases.GET("/:id", controllers.GetCase)
		cases.PUT("/:id", controllers.UpdateCase)
	}

	admin := r.Group("/api/cases")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.DELETE("/:id", controllers.DeleteCase)
	}
}
