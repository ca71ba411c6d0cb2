package repositories

import (
	"context"
	"time"

	"carewatch/models"
	"carewatch/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationRepository stores the position fixes subject devices push in.
type LocationRepository struct {
	database         *mongo.Database
	reportCollection *mongo.Collection
}

func NewLocationRepository(database *mongo.Database) *LocationRepository {
	return &LocationRepository{
		database:         database,
		reportCollection: database.Collection("location_reports"),
	}
}

type locationReportDoc struct {
	SubjectID string                `bson:"subjectId"`
	Sample    models.LocationSample `bson:"sample"`
	CreatedAt time.Time             `bson:"createdAt"`
}

func (lr *LocationRepository) SaveReport(ctx context.Context, subjectID string, sample *models.LocationSample) error {
	doc := locationReportDoc{
		SubjectID: subjectID,
		Sample:    *sample,
		CreatedAt: time.Now(),
	}

	_, err := lr.reportCollection.InsertOne(ctx, doc)
	if err != nil {
		logrus.Errorf("Failed to save location report for subject %s: %v", subjectID, err)
		return utils.NewDatabaseError("save location report", err)
	}

	return nil
}

func (lr *LocationRepository) LatestReport(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sample.obtainedAt", Value: -1}})

	var doc locationReportDoc
	err := lr.reportCollection.FindOne(ctx, bson.M{"subjectId": subjectID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logrus.Errorf("Failed to load latest location report for subject %s: %v", subjectID, err)
		return nil, utils.NewDatabaseError("load location report", err)
	}

	sample := doc.Sample
	return &sample, nil
}
