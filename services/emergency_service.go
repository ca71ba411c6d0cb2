package services

import (
	"context"
	"sync"
	"time"

	"carewatch/interfaces"
	"carewatch/models"
	"carewatch/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	dialTimeout       = 30 * time.Second
	resolutionTimeout = 30 * time.Second
)

// EmergencyService orchestrates one alert lifecycle: resolve the emergency
// contact, fire the dial side effect, obtain a bounded best-effort location,
// compose the message, deliver it, and record every step in the alert ledger.
// It is the only component allowed to mutate an alert's status.
type EmergencyService struct {
	alertStore   interfaces.AlertStore
	subjectStore interfaces.SubjectStore
	locations    interfaces.LocationProvider
	gateway      interfaces.SMSGateway
	dialer       interfaces.CallDialer
	composer     *AlertComposer

	dialNumber      string
	locationTimeout time.Duration

	// active maps subjectID to the alert currently in flight for that
	// subject, so a second trigger joins the existing alert instead of
	// sending a duplicate SMS.
	mu     sync.Mutex
	active map[string]string
}

func NewEmergencyService(
	alertStore interfaces.AlertStore,
	subjectStore interfaces.SubjectStore,
	locations interfaces.LocationProvider,
	gateway interfaces.SMSGateway,
	dialer interfaces.CallDialer,
	composer *AlertComposer,
	dialNumber string,
	locationTimeout time.Duration,
) *EmergencyService {
	return &EmergencyService{
		alertStore:      alertStore,
		subjectStore:    subjectStore,
		locations:       locations,
		gateway:         gateway,
		dialer:          dialer,
		composer:        composer,
		dialNumber:      dialNumber,
		locationTimeout: locationTimeout,
		active:          make(map[string]string),
	}
}

// StartEmergency runs the full alert pipeline for a subject. There is no
// cancellation once triggered; StopEmergency is the only way to end an active
// alert. Every call ends with a determinate outcome: delivered, SMS failed
// but call placed, duplicate suppressed, or a precondition error when no
// emergency contact is configured (in which case nothing is attempted and no
// record is created).
func (es *EmergencyService) StartEmergency(ctx context.Context, subjectID string, reason models.AlertReason) (*models.AlertOutcome, error) {
	subject, err := es.subjectStore.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	destination := utils.NormalizePhoneNumber(subject.ContactPhone)
	if destination == "" {
		return nil, utils.NewPreconditionError("no emergency contact phone configured for subject")
	}

	alertID := uuid.New().String()
	if existing := es.reserve(subjectID, alertID); existing != "" {
		return es.duplicateOutcome(ctx, existing)
	}

	// A previous process may have left an active alert behind; adopt it
	// rather than starting a parallel delivery.
	if prior, err := es.alertStore.FindActiveBySubject(ctx, subjectID); err == nil && prior != nil && prior.ID != alertID {
		es.adopt(subjectID, alertID, prior.ID)
		return es.duplicateOutcome(ctx, prior.ID)
	}

	triggeredAt := time.Now()

	// Dial first and never wait on it: reaching a dispatcher outranks the
	// SMS outcome, and call failure must not block or be conflated with
	// delivery reporting.
	callPlaced := es.placeEmergencyCall(subject)

	location := es.locations.GetLocation(ctx, subjectID, es.locationTimeout)
	composed := es.composer.Compose(reason, subject.Name, location, triggeredAt)

	alert := &models.EmergencyAlert{
		ID:               alertID,
		SubjectID:        subject.ID,
		SubjectName:      subject.Name,
		Reason:           reason,
		TriggeredAt:      triggeredAt,
		Location:         location,
		DestinationPhone: destination,
		Message:          composed.Message,
		Status:           models.AlertStatusPending,
	}

	recordErr := es.alertStore.Record(ctx, alert)
	if recordErr != nil {
		// Delivery matters more than the ledger; keep going and leave the
		// record reconciliation to the failure log.
		logrus.Errorf("Failed to record alert %s: %v", alertID, recordErr)
		// With no ledger record StopEmergency can never find this alert, so
		// the guard must not outlive this delivery attempt. A rare duplicate
		// SMS beats silently suppressing every later trigger.
		defer es.release(subjectID, alertID)
	}

	result, sendErr := es.gateway.Send(ctx, destination, composed.Message)
	if sendErr != nil {
		result = models.DeliveryResult{Success: false, ErrorReason: sendErr.Error()}
	}

	status := models.AlertStatusSendFailed
	extra := &models.StatusExtra{FailureReason: result.ErrorReason}
	if result.Success {
		status = models.AlertStatusSent
		extra = &models.StatusExtra{DeliveryID: result.MessageID}
	}

	if recordErr == nil {
		if casErr := es.alertStore.CompareAndSwapStatus(ctx, alertID, models.AlertStatusPending, status, extra); casErr != nil {
			logrus.Errorf("Failed to transition alert %s to %s: %v", alertID, status, casErr)
			if utils.IsInvalidTransition(casErr) {
				status = models.AlertStatusSendFailed
			}
		}
	}

	return &models.AlertOutcome{
		AlertID:     alertID,
		Status:      status,
		CallPlaced:  callPlaced,
		DeliveryID:  result.MessageID,
		ErrorReason: result.ErrorReason,
	}, nil
}

// StopEmergency marks an alert resolved and releases the subject's duplicate
// guard. Resolution always wins locally once requested; the follow-up
// resolution SMS is best effort and its failure is only logged.
func (es *EmergencyService) StopEmergency(ctx context.Context, alertID string) error {
	alert, err := es.alertStore.FindByID(ctx, alertID)
	if err != nil {
		if utils.IsNotFound(err) {
			// The ID may belong to an alert that never reached the ledger; a
			// stale guard entry for it would wedge the subject's SOS path.
			es.releaseByAlertID(alertID)
		}
		return err
	}

	if alert.Status == models.AlertStatusResolved {
		es.release(alert.SubjectID, alert.ID)
		return nil
	}

	resolvedAt := time.Now()
	extra := &models.StatusExtra{ResolvedAt: &resolvedAt}

	expected := alert.Status
	for attempt := 0; attempt < 2; attempt++ {
		casErr := es.alertStore.CompareAndSwapStatus(ctx, alertID, expected, models.AlertStatusResolved, extra)
		if casErr == nil {
			break
		}
		// A delivery transition may have raced us; re-read and try once
		// more from the current status.
		current, findErr := es.alertStore.FindByID(ctx, alertID)
		if findErr != nil || current.Status == models.AlertStatusResolved {
			break
		}
		expected = current.Status
		if attempt == 1 {
			logrus.Errorf("Failed to resolve alert %s: %v", alertID, casErr)
		}
	}

	es.release(alert.SubjectID, alert.ID)

	go es.sendResolutionNotice(alert, resolvedAt)

	return nil
}

// GetSOSStatus reports whether the subject currently has an active alert.
func (es *EmergencyService) GetSOSStatus(ctx context.Context, subjectID string) (*models.SOSStatus, error) {
	alert, err := es.alertStore.FindActiveBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	status := &models.SOSStatus{Active: false}
	if alert != nil {
		status.Active = true
		status.AlertID = alert.ID
		status.Status = alert.Status
		status.TriggeredAt = alert.TriggeredAt
	}

	return status, nil
}

func (es *EmergencyService) GetAlert(ctx context.Context, alertID string) (*models.EmergencyAlert, error) {
	return es.alertStore.FindByID(ctx, alertID)
}

// GetAlertHistory returns the subject's alerts, newest first. Alerts are an
// audit trail for caregivers and are never deleted.
func (es *EmergencyService) GetAlertHistory(ctx context.Context, subjectID string) ([]models.EmergencyAlert, error) {
	return es.alertStore.FindBySubject(ctx, subjectID)
}

func (es *EmergencyService) placeEmergencyCall(subject *models.Subject) bool {
	if es.dialer == nil {
		return false
	}

	number := subject.EmergencyNumber
	if number == "" {
		number = es.dialNumber
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()

		if err := es.dialer.PlaceCall(ctx, number); err != nil {
			logrus.Errorf("Emergency call to %s for subject %s failed: %v", number, subject.ID, err)
		}
	}()

	return true
}

func (es *EmergencyService) sendResolutionNotice(alert *models.EmergencyAlert, resolvedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), resolutionTimeout)
	defer cancel()

	message := es.composer.ComposeResolution(alert.SubjectName, resolvedAt)
	result, err := es.gateway.Send(ctx, alert.DestinationPhone, message)
	if err != nil {
		logrus.Warnf("Resolution notice for alert %s not sent: %v", alert.ID, err)
		return
	}
	if !result.Success {
		logrus.Warnf("Resolution notice for alert %s not delivered: %s", alert.ID, result.ErrorReason)
	}
}

// reserve claims the subject's duplicate guard for alertID. When another
// alert already holds the guard its ID is returned instead.
func (es *EmergencyService) reserve(subjectID, alertID string) string {
	es.mu.Lock()
	defer es.mu.Unlock()

	if existing, ok := es.active[subjectID]; ok {
		return existing
	}
	es.active[subjectID] = alertID
	return ""
}

// adopt swaps a speculative reservation for the ID of an alert discovered in
// the store.
func (es *EmergencyService) adopt(subjectID, speculative, existing string) {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.active[subjectID] == speculative {
		es.active[subjectID] = existing
	}
}

func (es *EmergencyService) release(subjectID, alertID string) {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.active[subjectID] == alertID {
		delete(es.active, subjectID)
	}
}

// releaseByAlertID clears any guard entry holding alertID, for callers that
// cannot load the alert to learn its subject.
func (es *EmergencyService) releaseByAlertID(alertID string) {
	es.mu.Lock()
	defer es.mu.Unlock()

	for subjectID, id := range es.active {
		if id == alertID {
			delete(es.active, subjectID)
		}
	}
}

func (es *EmergencyService) duplicateOutcome(ctx context.Context, alertID string) (*models.AlertOutcome, error) {
	outcome := &models.AlertOutcome{
		AlertID:   alertID,
		Duplicate: true,
	}
	if alert, err := es.alertStore.FindByID(ctx, alertID); err == nil {
		outcome.Status = alert.Status
		outcome.DeliveryID = alert.DeliveryID
	}
	return outcome, nil
}
