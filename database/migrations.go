package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunMigrations creates the indexes the alert and subject collections rely
// on. Index creation is idempotent, so this runs on every startup.
func RunMigrations(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alertIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "subjectId", Value: 1},
				{Key: "triggeredAt", Value: -1},
			},
			Options: options.Index().SetName("subject_triggered"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "triggeredAt", Value: 1},
			},
			Options: options.Index().SetName("status_triggered"),
		},
	}

	if _, err := db.Collection("alerts").Indexes().CreateMany(ctx, alertIndexes); err != nil {
		return err
	}

	reportIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "subjectId", Value: 1},
				{Key: "sample.obtainedAt", Value: -1},
			},
			Options: options.Index().SetName("report_subject_obtained"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("report_ttl").SetExpireAfterSeconds(7 * 24 * 3600),
		},
	}

	if _, err := db.Collection("location_reports").Indexes().CreateMany(ctx, reportIndexes); err != nil {
		return err
	}

	subjectIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("subject_name"),
		},
	}

	if _, err := db.Collection("subjects").Indexes().CreateMany(ctx, subjectIndexes); err != nil {
		return err
	}

	logrus.Info("📑 Database indexes ensured")
	return nil
}
