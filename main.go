package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carewatch/config"
	"carewatch/controllers"
	"carewatch/database"
	"carewatch/interfaces"
	"carewatch/repositories"
	"carewatch/routes"
	"carewatch/services"
	"carewatch/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	setupLogger(cfg)

	alertStore, subjectStore, locationReports := initStores(cfg)
	defer database.Disconnect()

	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	// Core pipeline
	composer := services.NewAlertComposer(cfg.DefaultSubjectName)
	locationSource := services.NewDeviceLocationSource(locationReports)
	locationService := services.NewLocationService(locationSource, redisClient, cfg.LocationFreshness)
	smsService := services.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	callService := services.NewCallService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)

	emergencyService := services.NewEmergencyService(
		alertStore,
		subjectStore,
		locationService,
		smsService,
		callService,
		composer,
		cfg.EmergencyDialNumber,
		cfg.LocationTimeout,
	)
	subjectService := services.NewSubjectService(subjectStore)

	// Follow-up reminders for unresolved alerts
	reminderWorker := workers.NewReminderWorker(alertStore, smsService, composer, redisClient, workers.ReminderWorkerConfig{
		PollInterval: cfg.ReminderInterval,
		AlertAge:     cfg.ReminderAge,
	})
	reminderWorker.Start()
	defer reminderWorker.Stop()

	emergencyController := controllers.NewEmergencyController(emergencyService, locationReports)
	subjectController := controllers.NewSubjectController(subjectService)

	router := routes.SetupRoutes(emergencyController, subjectController, redisClient)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Info("🚀 Carewatch emergency backend starting on port ", cfg.Port)
		logrus.Info("💖 Health Check: /health")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("✅ Server shutdown complete")
}

// initStores connects the persistence layer. DATABASE_URL=memory selects the
// in-process stores, for local development without MongoDB.
func initStores(cfg *config.Config) (interfaces.AlertStore, interfaces.SubjectStore, interfaces.LocationReportStore) {
	if cfg.DatabaseURL == "memory" {
		logrus.Warn("Using in-memory stores, data will not survive a restart")
		return repositories.NewMemoryAlertRepository(),
			repositories.NewMemorySubjectRepository(),
			repositories.NewMemoryLocationRepository()
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	return repositories.NewAlertRepository(db),
		repositories.NewSubjectRepository(db),
		repositories.NewLocationRepository(db)
}

func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
