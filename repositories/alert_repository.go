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

// AlertRepository is the MongoDB-backed alert ledger. Status transitions go
// through conditional filtered updates so concurrent alert flows never lose an
// update to a plain overwrite.
type AlertRepository struct {
	database        *mongo.Database
	alertCollection *mongo.Collection
}

func NewAlertRepository(database *mongo.Database) *AlertRepository {
	return &AlertRepository{
		database:        database,
		alertCollection: database.Collection("alerts"),
	}
}

// Record inserts an alert, idempotently by ID. Re-recording an existing alert
// is a no-op so a caller that retried after an ambiguous failure does not
// create a duplicate.
func (ar *AlertRepository) Record(ctx context.Context, alert *models.EmergencyAlert) error {
	if alert.ID == "" {
		return utils.NewBadRequestError("alert ID is required")
	}

	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	if alert.Status == "" {
		alert.Status = models.AlertStatusPending
	}

	_, err := ar.alertCollection.InsertOne(ctx, alert)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.Debugf("Alert %s already recorded, skipping", alert.ID)
			return nil
		}
		logrus.Errorf("Failed to record alert %s: %v", alert.ID, err)
		return utils.NewDatabaseError("record alert", err)
	}

	return nil
}

// CompareAndSwapStatus applies a status transition only when the stored status
// still equals expected. Transitions the state machine forbids are rejected
// before touching the database.
func (ar *AlertRepository) CompareAndSwapStatus(ctx context.Context, id, expected, next string, extra *models.StatusExtra) error {
	if !models.CanTransitionStatus(expected, next) {
		return utils.NewInvalidTransitionError(id, expected, next)
	}

	updateFields := bson.M{
		"status":    next,
		"updatedAt": time.Now(),
	}
	if extra != nil {
		if extra.DeliveryID != "" {
			updateFields["deliveryId"] = extra.DeliveryID
		}
		if extra.FailureReason != "" {
			updateFields["failureReason"] = extra.FailureReason
		}
		if extra.ResolvedAt != nil {
			updateFields["resolvedAt"] = extra.ResolvedAt
		}
	}

	result, err := ar.alertCollection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": expected},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		logrus.Errorf("Failed to update alert %s status: %v", id, err)
		return utils.NewDatabaseError("update alert status", err)
	}

	if result.MatchedCount == 0 {
		// Either the alert does not exist or its status moved on. Look it
		// up once to report the right rejection.
		current, findErr := ar.FindByID(ctx, id)
		if findErr != nil {
			return findErr
		}
		return utils.NewInvalidTransitionError(id, current.Status, next)
	}

	return nil
}

func (ar *AlertRepository) FindByID(ctx context.Context, id string) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	err := ar.alertCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewAlertNotFoundError()
		}
		logrus.Errorf("Failed to get alert by ID: %v", err)
		return nil, utils.NewDatabaseError("find alert", err)
	}

	return &alert, nil
}

// FindBySubject returns the subject's alerts, newest first.
func (ar *AlertRepository) FindBySubject(ctx context.Context, subjectID string) ([]models.EmergencyAlert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "triggeredAt", Value: -1}})

	cursor, err := ar.alertCollection.Find(ctx, bson.M{"subjectId": subjectID}, opts)
	if err != nil {
		logrus.Errorf("Failed to query alerts for subject %s: %v", subjectID, err)
		return nil, utils.NewDatabaseError("query alerts", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, utils.NewDatabaseError("decode alerts", err)
	}

	return alerts, nil
}

// FindActiveBySubject returns the subject's most recent unresolved alert, or
// nil when there is none.
func (ar *AlertRepository) FindActiveBySubject(ctx context.Context, subjectID string) (*models.EmergencyAlert, error) {
	filter := bson.M{
		"subjectId": subjectID,
		"status":    bson.M{"$ne": models.AlertStatusResolved},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "triggeredAt", Value: -1}})

	var alert models.EmergencyAlert
	err := ar.alertCollection.FindOne(ctx, filter, opts).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logrus.Errorf("Failed to find active alert for subject %s: %v", subjectID, err)
		return nil, utils.NewDatabaseError("find active alert", err)
	}

	return &alert, nil
}

// ListUnresolvedOlderThan returns delivered or failed alerts triggered before
// the cutoff that nobody has resolved yet.
func (ar *AlertRepository) ListUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]models.EmergencyAlert, error) {
	filter := bson.M{
		"status":      bson.M{"$in": []string{models.AlertStatusSent, models.AlertStatusSendFailed}},
		"triggeredAt": bson.M{"$lt": cutoff},
	}
	opts := options.Find().SetSort(bson.D{{Key: "triggeredAt", Value: 1}})

	cursor, err := ar.alertCollection.Find(ctx, filter, opts)
	if err != nil {
		logrus.Errorf("Failed to list unresolved alerts: %v", err)
		return nil, utils.NewDatabaseError("list unresolved alerts", err)
	}
	defer cursor.Close(ctx)

	var alerts []models.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, utils.NewDatabaseError("decode alerts", err)
	}

	return alerts, nil
}
