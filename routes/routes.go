package routes

import (
	"time"

	"carewatch/controllers"
	"carewatch/middleware"
	"carewatch/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SetupRoutes wires the HTTP surface: health check, emergency pipeline and
// subject profile management.
func SetupRoutes(
	emergencyController *controllers.EmergencyController,
	subjectController *controllers.SubjectController,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, models.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Services: map[string]string{
				"api": "up",
			},
			Version: "1.0.0",
		})
	})

	api := router.Group("/api/v1")

	SetupEmergencyRoutes(api, emergencyController, redisClient)
	SetupSubjectRoutes(api, subjectController)

	return router
}
