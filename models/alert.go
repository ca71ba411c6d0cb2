package models

import "time"

// Alert Reason Constants
const (
	AlertReasonSOS         = "sos"
	AlertReasonMedical     = "medical"
	AlertReasonFall        = "fall"
	AlertReasonPanic       = "panic"
	AlertReasonServiceCall = "service_call"
)

// Alert Status Constants
const (
	AlertStatusPending    = "pending"
	AlertStatusSent       = "sent"
	AlertStatusSendFailed = "send_failed"
	AlertStatusResolved   = "resolved"
)

// AlertReason identifies what triggered an alert. For service-call alerts
// ServiceName carries the requested service verbatim.
type AlertReason struct {
	Kind        string `json:"kind" bson:"kind"`
	ServiceName string `json:"serviceName,omitempty" bson:"serviceName,omitempty"`
}

// LocationSample is a point-in-time position fix. It is never persisted on its
// own, only embedded in an EmergencyAlert.
type LocationSample struct {
	Latitude       float64   `json:"latitude" bson:"latitude"`
	Longitude      float64   `json:"longitude" bson:"longitude"`
	AccuracyMeters float64   `json:"accuracyMeters" bson:"accuracyMeters"`
	ObtainedAt     time.Time `json:"obtainedAt" bson:"obtainedAt"`
}

// EmergencyAlert is one run of the emergency-notification lifecycle. The ID is
// generated client-side at trigger time and doubles as the idempotency key for
// the whole lifecycle. Alerts are never deleted, only marked resolved.
type EmergencyAlert struct {
	ID               string          `json:"id" bson:"_id"`
	SubjectID        string          `json:"subjectId" bson:"subjectId"`
	SubjectName      string          `json:"subjectName" bson:"subjectName"`
	Reason           AlertReason     `json:"reason" bson:"reason"`
	TriggeredAt      time.Time       `json:"triggeredAt" bson:"triggeredAt"`
	Location         *LocationSample `json:"location,omitempty" bson:"location,omitempty"`
	DestinationPhone string          `json:"destinationPhone" bson:"destinationPhone"`
	Message          string          `json:"message" bson:"message"`
	Status           string          `json:"status" bson:"status"`
	DeliveryID       string          `json:"deliveryId,omitempty" bson:"deliveryId,omitempty"`
	FailureReason    string          `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	ResolvedAt       *time.Time      `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// IsActive reports whether the alert still needs attention. Every status
// except resolved counts as active.
func (a *EmergencyAlert) IsActive() bool {
	return a.Status != AlertStatusResolved
}

// CanTransitionStatus enforces the alert state machine:
// pending -> {sent, send_failed}, and any non-resolved state -> resolved.
func CanTransitionStatus(from, to string) bool {
	switch to {
	case AlertStatusSent, AlertStatusSendFailed:
		return from == AlertStatusPending
	case AlertStatusResolved:
		return from == AlertStatusPending || from == AlertStatusSent || from == AlertStatusSendFailed
	default:
		return false
	}
}

// StatusExtra carries the fields that accompany a status transition.
type StatusExtra struct {
	DeliveryID    string     `json:"deliveryId,omitempty" bson:"deliveryId,omitempty"`
	FailureReason string     `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

// DeliveryResult is the outcome of a single SMS send attempt.
type DeliveryResult struct {
	Success     bool   `json:"success"`
	MessageID   string `json:"messageId,omitempty"`
	ErrorReason string `json:"errorReason,omitempty"`
}

// ComposedAlert is the output of the alert composer.
type ComposedAlert struct {
	Message       string `json:"message"`
	DisplayReason string `json:"displayReason"`
}

// AlertOutcome is what the orchestrator reports back to the caller. Duplicate
// means an alert was already active for the subject and no new delivery was
// attempted; CallPlaced tracks the dial side effect independently of the SMS
// result.
type AlertOutcome struct {
	AlertID     string `json:"alertId"`
	Status      string `json:"status"`
	CallPlaced  bool   `json:"callPlaced"`
	DeliveryID  string `json:"deliveryId,omitempty"`
	ErrorReason string `json:"errorReason,omitempty"`
	Duplicate   bool   `json:"duplicate"`
}

// SOSStatus summarizes whether a subject currently has an active alert.
type SOSStatus struct {
	Active      bool      `json:"active"`
	AlertID     string    `json:"alertId,omitempty"`
	Status      string    `json:"status,omitempty"`
	TriggeredAt time.Time `json:"triggeredAt,omitempty"`
}

// =================== REQUEST MODELS ===================

type TriggerSOSRequest struct {
	SubjectID   string `json:"subjectId" validate:"required"`
	Reason      string `json:"reason" validate:"required,alert_reason"`
	ServiceName string `json:"serviceName,omitempty"`
}

type ResolveAlertRequest struct {
	Note string `json:"note,omitempty"`
}

type ReportLocationRequest struct {
	SubjectID      string  `json:"subjectId" validate:"required"`
	Latitude       float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude      float64 `json:"longitude" validate:"min=-180,max=180"`
	AccuracyMeters float64 `json:"accuracyMeters" validate:"min=0"`
}
