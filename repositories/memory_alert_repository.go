package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"carewatch/models"
	"carewatch/utils"
)

type memoryAlertEntry struct {
	mu    sync.Mutex
	alert models.EmergencyAlert
}

// MemoryAlertRepository is an in-process alert ledger with the same contract
// as the MongoDB repository. Each alert gets its own lock so unrelated alert
// flows never serialize on a global mutex; the outer lock only guards the map
// itself.
type MemoryAlertRepository struct {
	mu      sync.RWMutex
	entries map[string]*memoryAlertEntry
}

func NewMemoryAlertRepository() *MemoryAlertRepository {
	return &MemoryAlertRepository{
		entries: make(map[string]*memoryAlertEntry),
	}
}

func (mr *MemoryAlertRepository) Record(ctx context.Context, alert *models.EmergencyAlert) error {
	if alert.ID == "" {
		return utils.NewBadRequestError("alert ID is required")
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	if _, exists := mr.entries[alert.ID]; exists {
		return nil
	}

	now := time.Now()
	stored := *alert
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = models.AlertStatusPending
	}

	mr.entries[alert.ID] = &memoryAlertEntry{alert: stored}
	return nil
}

func (mr *MemoryAlertRepository) CompareAndSwapStatus(ctx context.Context, id, expected, next string, extra *models.StatusExtra) error {
	if !models.CanTransitionStatus(expected, next) {
		return utils.NewInvalidTransitionError(id, expected, next)
	}

	entry := mr.entry(id)
	if entry == nil {
		return utils.NewAlertNotFoundError()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.alert.Status != expected {
		return utils.NewInvalidTransitionError(id, entry.alert.Status, next)
	}

	entry.alert.Status = next
	entry.alert.UpdatedAt = time.Now()
	if extra != nil {
		if extra.DeliveryID != "" {
			entry.alert.DeliveryID = extra.DeliveryID
		}
		if extra.FailureReason != "" {
			entry.alert.FailureReason = extra.FailureReason
		}
		if extra.ResolvedAt != nil {
			entry.alert.ResolvedAt = extra.ResolvedAt
		}
	}

	return nil
}

func (mr *MemoryAlertRepository) FindByID(ctx context.Context, id string) (*models.EmergencyAlert, error) {
	entry := mr.entry(id)
	if entry == nil {
		return nil, utils.NewAlertNotFoundError()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	alert := entry.alert
	return &alert, nil
}

func (mr *MemoryAlertRepository) FindBySubject(ctx context.Context, subjectID string) ([]models.EmergencyAlert, error) {
	alerts := mr.snapshot(func(a *models.EmergencyAlert) bool {
		return a.SubjectID == subjectID
	})

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].TriggeredAt.After(alerts[j].TriggeredAt)
	})

	return alerts, nil
}

func (mr *MemoryAlertRepository) FindActiveBySubject(ctx context.Context, subjectID string) (*models.EmergencyAlert, error) {
	alerts := mr.snapshot(func(a *models.EmergencyAlert) bool {
		return a.SubjectID == subjectID && a.IsActive()
	})
	if len(alerts) == 0 {
		return nil, nil
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].TriggeredAt.After(alerts[j].TriggeredAt)
	})

	return &alerts[0], nil
}

func (mr *MemoryAlertRepository) ListUnresolvedOlderThan(ctx context.Context, cutoff time.Time) ([]models.EmergencyAlert, error) {
	alerts := mr.snapshot(func(a *models.EmergencyAlert) bool {
		if a.Status != models.AlertStatusSent && a.Status != models.AlertStatusSendFailed {
			return false
		}
		return a.TriggeredAt.Before(cutoff)
	})

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].TriggeredAt.Before(alerts[j].TriggeredAt)
	})

	return alerts, nil
}

// Count reports the number of stored alerts.
func (mr *MemoryAlertRepository) Count() int {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return len(mr.entries)
}

func (mr *MemoryAlertRepository) entry(id string) *memoryAlertEntry {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.entries[id]
}

func (mr *MemoryAlertRepository) snapshot(match func(*models.EmergencyAlert) bool) []models.EmergencyAlert {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	var alerts []models.EmergencyAlert
	for _, entry := range mr.entries {
		entry.mu.Lock()
		alert := entry.alert
		entry.mu.Unlock()
		if match(&alert) {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}
