package repositories

import (
	"context"
	"sync"

	"carewatch/models"
)

// MemoryLocationRepository keeps only the latest report per subject, which is
// all the location source ever reads.
type MemoryLocationRepository struct {
	mu      sync.RWMutex
	reports map[string]models.LocationSample
}

func NewMemoryLocationRepository() *MemoryLocationRepository {
	return &MemoryLocationRepository{
		reports: make(map[string]models.LocationSample),
	}
}

func (mr *MemoryLocationRepository) SaveReport(ctx context.Context, subjectID string, sample *models.LocationSample) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	mr.reports[subjectID] = *sample
	return nil
}

func (mr *MemoryLocationRepository) LatestReport(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	sample, ok := mr.reports[subjectID]
	if !ok {
		return nil, nil
	}
	return &sample, nil
}
