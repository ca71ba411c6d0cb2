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

// SubjectRepository persists subject profiles in MongoDB.
type SubjectRepository struct {
	database          *mongo.Database
	subjectCollection *mongo.Collection
}

func NewSubjectRepository(database *mongo.Database) *SubjectRepository {
	return &SubjectRepository{
		database:          database,
		subjectCollection: database.Collection("subjects"),
	}
}

func (sr *SubjectRepository) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	err := sr.subjectCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewSubjectNotFoundError()
		}
		logrus.Errorf("Failed to get subject by ID: %v", err)
		return nil, utils.NewDatabaseError("find subject", err)
	}

	return &subject, nil
}

func (sr *SubjectRepository) Upsert(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		return utils.NewBadRequestError("subject ID is required")
	}

	now := time.Now()
	subject.UpdatedAt = now
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}

	opts := options.Replace().SetUpsert(true)
	_, err := sr.subjectCollection.ReplaceOne(ctx, bson.M{"_id": subject.ID}, subject, opts)
	if err != nil {
		logrus.Errorf("Failed to upsert subject %s: %v", subject.ID, err)
		return utils.NewDatabaseError("upsert subject", err)
	}

	return nil
}

func (sr *SubjectRepository) Delete(ctx context.Context, id string) error {
	result, err := sr.subjectCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.Errorf("Failed to delete subject %s: %v", id, err)
		return utils.NewDatabaseError("delete subject", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewSubjectNotFoundError()
	}

	return nil
}

func (sr *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := sr.subjectCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.Errorf("Failed to list subjects: %v", err)
		return nil, utils.NewDatabaseError("list subjects", err)
	}
	defer cursor.Close(ctx)

	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, utils.NewDatabaseError("decode subjects", err)
	}

	return subjects, nil
}
