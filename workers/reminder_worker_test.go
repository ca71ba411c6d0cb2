package workers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"carewatch/models"
	"carewatch/repositories"
	"carewatch/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGateway struct {
	mu   sync.Mutex
	sent []string
}

func (g *recordingGateway) Send(ctx context.Context, destinationPhone, message string) (models.DeliveryResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, message)
	return models.DeliveryResult{Success: true, MessageID: "SM123"}, nil
}

func (g *recordingGateway) messages() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.sent...)
}

func TestReminderWorkerNotifiesAgedUnresolvedAlerts(t *testing.T) {
	alerts := repositories.NewMemoryAlertRepository()
	gateway := &recordingGateway{}
	ctx := context.Background()

	aged := &models.EmergencyAlert{
		ID:               "alert-aged",
		SubjectID:        "subj-1",
		SubjectName:      "Maria Cruz",
		Reason:           models.AlertReason{Kind: models.AlertReasonSOS},
		TriggeredAt:      time.Now().Add(-time.Hour),
		DestinationPhone: "+639123456789",
		Status:           models.AlertStatusSent,
	}
	recent := &models.EmergencyAlert{
		ID:               "alert-recent",
		SubjectID:        "subj-2",
		SubjectName:      "Pedro Reyes",
		Reason:           models.AlertReason{Kind: models.AlertReasonFall},
		TriggeredAt:      time.Now(),
		DestinationPhone: "+639998887777",
		Status:           models.AlertStatusSent,
	}
	require.NoError(t, alerts.Record(ctx, aged))
	require.NoError(t, alerts.Record(ctx, recent))

	worker := NewReminderWorker(alerts, gateway, services.NewAlertComposer(""), nil, ReminderWorkerConfig{
		PollInterval: 20 * time.Millisecond,
		AlertAge:     time.Minute,
	})
	worker.Start()
	defer worker.Stop()

	require.Eventually(t, func() bool {
		return len(gateway.messages()) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	for _, message := range gateway.messages() {
		assert.Contains(t, message, "ALERT REMINDER")
		assert.Contains(t, message, "Maria Cruz")
		assert.False(t, strings.Contains(message, "Pedro Reyes"), "recent alert must not be reminded")
	}
}

func TestReminderWorkerStopTerminatesLoop(t *testing.T) {
	worker := NewReminderWorker(repositories.NewMemoryAlertRepository(), &recordingGateway{}, services.NewAlertComposer(""), nil, ReminderWorkerConfig{
		PollInterval: 10 * time.Millisecond,
	})
	worker.Start()

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
