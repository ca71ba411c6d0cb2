package interfaces

import (
	"context"
	"time"

	"carewatch/models"
)

// LocationSource is the raw position capability the provider wraps. Both
// methods return nil without an error when no fix is available; an error means
// the subsystem itself refused the request (permission revoked, device
// offline).
type LocationSource interface {
	GetLastKnown(ctx context.Context, subjectID string) (*models.LocationSample, error)
	RequestFresh(ctx context.Context, subjectID string) (*models.LocationSample, error)
}

// LocationProvider is the bounded best-effort lookup the orchestrator uses.
// It never returns an error: a nil sample means "alert without location".
type LocationProvider interface {
	GetLocation(ctx context.Context, subjectID string, timeout time.Duration) *models.LocationSample
}

// SMSGateway sends one message to one destination. Transport and provider
// failures come back inside DeliveryResult; the error return is reserved for
// programmer mistakes (empty message, unusable destination).
type SMSGateway interface {
	Send(ctx context.Context, destinationPhone, message string) (models.DeliveryResult, error)
}

// CallDialer places an outbound voice call. Fire and forget: the orchestrator
// never observes call progress.
type CallDialer interface {
	PlaceCall(ctx context.Context, number string) error
}

// AlertStore is the passive alert ledger. Record is idempotent by alert ID and
// CompareAndSwapStatus applies a transition only when the current status
// matches, rejecting anything the state machine forbids.
type AlertStore interface {
	Record(ctx context.Context, alert *models.EmergencyAlert) error
	CompareAndSwapStatus(ctx context.Context, id, expected, next string, extra *models.StatusExtra) error
	FindByID(ctx context.Context, id string) (*models.EmergencyAlert, error)
	FindBySubject(ctx context.Context, subjectID string) ([]models.EmergencyAlert, error)
	FindActiveBySubject(ctx context.Context, subjectID string) (*models.EmergencyAlert, error)
	ListUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]models.EmergencyAlert, error)
}

// LocationReportStore keeps the position fixes devices push in, which the
// location source reads back out during an alert.
type LocationReportStore interface {
	SaveReport(ctx context.Context, subjectID string, sample *models.LocationSample) error
	LatestReport(ctx context.Context, subjectID string) (*models.LocationSample, error)
}

// SubjectStore holds subject profiles, including the emergency-contact phone
// the orchestrator resolves before any delivery.
type SubjectStore interface {
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	Upsert(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Subject, error)
}
