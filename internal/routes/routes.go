package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"runners_api/internal/metrics"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Middleware must be attached before any route registration or it
	// never joins the handler chains.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	UserRoutes(r)
	RunnerRoutes(r)
	CaseRoutes(r)
	DeviceRoutes(r)
	TopicRoutes(r)
	UploadRoutes(r)
	AdminRoutes(r)
	MonitoringRoutes(r)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
