package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"carewatch/models"
)

const (
	alertHeaderLine         = "EMERGENCY ALERT!"
	resolvedHeaderLine      = "ALERT RESOLVED"
	reminderHeaderLine      = "ALERT REMINDER"
	locationUnavailableLine = "Location: unavailable"
	alertTimestampFormat    = "Jan 2, 2006 at 3:04 PM"
)

// AlertComposer builds the SMS text for an alert. Composition is pure and
// deterministic: identical inputs always produce byte-identical messages,
// since the text crosses into an external SMS channel and gets re-read by
// humans and support tooling.
type AlertComposer struct {
	defaultSubjectName string
}

func NewAlertComposer(defaultSubjectName string) *AlertComposer {
	if defaultSubjectName == "" {
		defaultSubjectName = "Senior User"
	}
	return &AlertComposer{
		defaultSubjectName: defaultSubjectName,
	}
}

// Compose renders the canonical alert message. The line order and section
// markers are fixed; the map link line appears only when a location is
// available.
func (ac *AlertComposer) Compose(reason models.AlertReason, subjectName string, location *models.LocationSample, triggeredAt time.Time) models.ComposedAlert {
	name := ac.subjectOrDefault(subjectName)
	displayReason := ac.DisplayReason(reason)

	var b strings.Builder
	b.WriteString(alertHeaderLine)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s may need immediate help.", name))
	b.WriteString("\n")
	if location != nil {
		b.WriteString(fmt.Sprintf("Location: %.6f, %.6f", location.Latitude, location.Longitude))
	} else {
		b.WriteString(locationUnavailableLine)
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Reason: %s", displayReason))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Time: %s", triggeredAt.Local().Format(alertTimestampFormat)))
	if location != nil {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Map: %s", MapLink(location.Latitude, location.Longitude)))
	}

	return models.ComposedAlert{
		Message:       b.String(),
		DisplayReason: displayReason,
	}
}

// ComposeResolution renders the best-effort follow-up sent when an alert is
// marked resolved.
func (ac *AlertComposer) ComposeResolution(subjectName string, resolvedAt time.Time) string {
	name := ac.subjectOrDefault(subjectName)

	var b strings.Builder
	b.WriteString(resolvedHeaderLine)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("The emergency for %s has been resolved.", name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Time: %s", resolvedAt.Local().Format(alertTimestampFormat)))

	return b.String()
}

// ComposeReminder renders the follow-up nudge for alerts that stay unresolved.
func (ac *AlertComposer) ComposeReminder(subjectName string, triggeredAt time.Time) string {
	name := ac.subjectOrDefault(subjectName)

	var b strings.Builder
	b.WriteString(reminderHeaderLine)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("The emergency for %s is still unresolved.", name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Triggered: %s", triggeredAt.Local().Format(alertTimestampFormat)))

	return b.String()
}

// DisplayReason maps a trigger reason to its human label. Service-call alerts
// render the requested service verbatim; unrecognized reasons pass through
// unmodified rather than failing.
func (ac *AlertComposer) DisplayReason(reason models.AlertReason) string {
	switch reason.Kind {
	case models.AlertReasonSOS:
		return "SOS Emergency"
	case models.AlertReasonMedical:
		return "Medical Emergency"
	case models.AlertReasonFall:
		return "Fall Detected"
	case models.AlertReasonPanic:
		return "Panic Alert"
	case models.AlertReasonServiceCall:
		if reason.ServiceName != "" {
			return reason.ServiceName
		}
		return "Service Call"
	default:
		return reason.Kind
	}
}

func (ac *AlertComposer) subjectOrDefault(subjectName string) string {
	if strings.TrimSpace(subjectName) == "" {
		return ac.defaultSubjectName
	}
	return subjectName
}

// MapLink builds a deterministic maps URL from coordinates, using the
// shortest float form so the link stays readable in an SMS.
func MapLink(latitude, longitude float64) string {
	return fmt.Sprintf(
		"https://maps.google.com/?q=%s,%s",
		strconv.FormatFloat(latitude, 'f', -1, 64),
		strconv.FormatFloat(longitude, 'f', -1, 64),
	)
}
