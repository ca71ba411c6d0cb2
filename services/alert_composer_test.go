package services

import (
	"strings"
	"testing"
	"time"

	"carewatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeIsDeterministic(t *testing.T) {
	composer := NewAlertComposer("")
	triggeredAt := time.Date(2024, time.March, 14, 15, 4, 0, 0, time.Local)
	location := &models.LocationSample{
		Latitude:       7.0731,
		Longitude:      125.6128,
		AccuracyMeters: 12,
		ObtainedAt:     triggeredAt,
	}
	reason := models.AlertReason{Kind: models.AlertReasonSOS}

	first := composer.Compose(reason, "Maria Cruz", location, triggeredAt)
	second := composer.Compose(reason, "Maria Cruz", location, triggeredAt)

	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, first.DisplayReason, second.DisplayReason)
}

func TestComposeWithLocation(t *testing.T) {
	composer := NewAlertComposer("")
	triggeredAt := time.Date(2024, time.March, 14, 15, 4, 0, 0, time.Local)
	location := &models.LocationSample{
		Latitude:  7.0731,
		Longitude: 125.6128,
	}

	composed := composer.Compose(models.AlertReason{Kind: models.AlertReasonSOS}, "Maria Cruz", location, triggeredAt)

	lines := strings.Split(composed.Message, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "EMERGENCY ALERT!", lines[0])
	assert.Equal(t, "Maria Cruz may need immediate help.", lines[1])
	assert.Equal(t, "Location: 7.073100, 125.612800", lines[2])
	assert.Equal(t, "Reason: SOS Emergency", lines[3])
	assert.Equal(t, "Time: Mar 14, 2024 at 3:04 PM", lines[4])
	assert.Equal(t, "Map: https://maps.google.com/?q=7.0731,125.6128", lines[5])
}

func TestComposeWithoutLocation(t *testing.T) {
	composer := NewAlertComposer("")

	composed := composer.Compose(models.AlertReason{Kind: models.AlertReasonFall}, "Maria Cruz", nil, time.Now())

	assert.Contains(t, composed.Message, "Location: unavailable")
	assert.NotContains(t, composed.Message, "Map:")
	assert.Equal(t, "Fall Detected", composed.DisplayReason)
}

func TestComposeSubjectNameFallback(t *testing.T) {
	composer := NewAlertComposer("")
	composed := composer.Compose(models.AlertReason{Kind: models.AlertReasonPanic}, "  ", nil, time.Now())
	assert.Contains(t, composed.Message, "Senior User may need immediate help.")

	custom := NewAlertComposer("Resident")
	composed = custom.Compose(models.AlertReason{Kind: models.AlertReasonPanic}, "", nil, time.Now())
	assert.Contains(t, composed.Message, "Resident may need immediate help.")
}

func TestDisplayReason(t *testing.T) {
	composer := NewAlertComposer("")

	tests := []struct {
		name     string
		reason   models.AlertReason
		expected string
	}{
		{"sos", models.AlertReason{Kind: models.AlertReasonSOS}, "SOS Emergency"},
		{"medical", models.AlertReason{Kind: models.AlertReasonMedical}, "Medical Emergency"},
		{"fall", models.AlertReason{Kind: models.AlertReasonFall}, "Fall Detected"},
		{"panic", models.AlertReason{Kind: models.AlertReasonPanic}, "Panic Alert"},
		{"service call", models.AlertReason{Kind: models.AlertReasonServiceCall, ServiceName: "Barangay Health Center"}, "Barangay Health Center"},
		{"service call without name", models.AlertReason{Kind: models.AlertReasonServiceCall}, "Service Call"},
		{"unknown passes through", models.AlertReason{Kind: "wellness_check"}, "wellness_check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, composer.DisplayReason(tt.reason))
		})
	}
}

func TestComposeResolutionAndReminder(t *testing.T) {
	composer := NewAlertComposer("")
	at := time.Date(2024, time.March, 14, 16, 30, 0, 0, time.Local)

	resolution := composer.ComposeResolution("Maria Cruz", at)
	assert.Contains(t, resolution, "ALERT RESOLVED")
	assert.Contains(t, resolution, "Maria Cruz")
	assert.Contains(t, resolution, "Mar 14, 2024 at 4:30 PM")

	reminder := composer.ComposeReminder("Maria Cruz", at)
	assert.Contains(t, reminder, "ALERT REMINDER")
	assert.Contains(t, reminder, "still unresolved")
}

func TestMapLinkUsesShortestFloatForm(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=7.0731,125.6128", MapLink(7.0731, 125.6128))
	assert.Equal(t, "https://maps.google.com/?q=-33.5,151", MapLink(-33.5, 151))
}
