package routes

import (
	"carewatch/controllers"
	"carewatch/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupEmergencyRoutes configures the emergency alert endpoints
func SetupEmergencyRoutes(router *gin.RouterGroup, emergencyController *controllers.EmergencyController, redisClient *redis.Client) {
	emergency := router.Group("/emergency")
	emergency.Use(middleware.EmergencyRateLimit(redisClient))

	sos := emergency.Group("/sos")
	{
		sos.POST("/trigger", emergencyController.TriggerSOS)
		sos.POST("/:alertId/resolve", emergencyController.ResolveAlert)
		sos.GET("/status/:subjectId", emergencyController.GetSOSStatus)
	}

	alerts := emergency.Group("/alerts")
	{
		alerts.GET("/:alertId", emergencyController.GetAlert)
		alerts.GET("/subject/:subjectId", emergencyController.GetAlertHistory)
	}

	location := emergency.Group("/location")
	{
		location.POST("/report", emergencyController.ReportLocation)
	}
}
