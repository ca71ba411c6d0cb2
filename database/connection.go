package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	client   *mongo.Client
	database *mongo.Database
)

// Connect establishes connection to MongoDB
func Connect(databaseURL string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(databaseURL)

	// Configure connection pool
	clientOptions.SetMaxPoolSize(50)
	clientOptions.SetMinPoolSize(5)
	clientOptions.SetMaxConnIdleTime(30 * time.Second)
	clientOptions.SetRetryWrites(true)
	clientOptions.SetRetryReads(true)

	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	var err error
	client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the primary to verify connection
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDatabaseName(databaseURL)
	database = client.Database(dbName)

	logrus.Info("✅ Connected to MongoDB successfully")
	logrus.Infof("📊 Database: %s", dbName)

	if err := RunMigrations(database); err != nil {
		logrus.Warnf("Migration warning: %v", err)
	}

	return database, nil
}

// Disconnect closes the MongoDB connection
func Disconnect() error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := client.Disconnect(ctx)
	if err != nil {
		logrus.Errorf("Error disconnecting from MongoDB: %v", err)
		return err
	}

	logrus.Info("🔌 Disconnected from MongoDB")
	return nil
}

// extractDatabaseName pulls the database name out of a MongoDB URI, falling
// back to "carewatch" when the URI has no path component.
func extractDatabaseName(databaseURL string) string {
	trimmed := databaseURL
	if idx := strings.Index(trimmed, "://"); idx != -1 {
		trimmed = trimmed[idx+3:]
	}
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		name := trimmed[idx+1:]
		if idx := strings.Index(name, "?"); idx != -1 {
			name = name[:idx]
		}
		if name != "" {
			return name
		}
	}
	return "carewatch"
}
