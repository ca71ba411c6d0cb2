package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string

	// Twilio Config
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// Emergency Settings
	EmergencyDialNumber string
	DefaultSubjectName  string

	// Location Settings
	LocationTimeout   time.Duration
	LocationFreshness time.Duration

	// Reminder Worker Settings
	ReminderInterval time.Duration
	ReminderAge      time.Duration

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "mongodb://localhost:27017/carewatch"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		// Twilio
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		// Emergency
		EmergencyDialNumber: getEnv("EMERGENCY_DIAL_NUMBER", "911"),
		DefaultSubjectName:  getEnv("DEFAULT_SUBJECT_NAME", "Senior User"),

		// Location
		LocationTimeout:   getEnvAsDuration("LOCATION_TIMEOUT_SECONDS", 5) * time.Second,
		LocationFreshness: getEnvAsDuration("LOCATION_FRESHNESS_SECONDS", 120) * time.Second,

		// Reminder worker
		ReminderInterval: getEnvAsDuration("REMINDER_INTERVAL_MINUTES", 5) * time.Minute,
		ReminderAge:      getEnvAsDuration("REMINDER_AGE_MINUTES", 30) * time.Minute,

		// Rate limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW_MINUTES", 1) * time.Minute,
	}
}

func InitRedis(cfg *Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		// Fallback to default config
		opt = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	return redis.NewClient(opt)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue))
}
