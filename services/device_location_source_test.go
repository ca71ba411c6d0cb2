package services

import (
	"context"
	"testing"
	"time"

	"carewatch/models"
	"carewatch/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceSourceGetLastKnown(t *testing.T) {
	reports := repositories.NewMemoryLocationRepository()
	source := NewDeviceLocationSource(reports)
	ctx := context.Background()

	sample, err := source.GetLastKnown(ctx, "subj-1")
	require.NoError(t, err)
	assert.Nil(t, sample)

	stored := &models.LocationSample{Latitude: 7.0731, Longitude: 125.6128, ObtainedAt: time.Now()}
	require.NoError(t, reports.SaveReport(ctx, "subj-1", stored))

	sample, err = source.GetLastKnown(ctx, "subj-1")
	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.Equal(t, stored.Latitude, sample.Latitude)
}

func TestDeviceSourceRequestFreshWaitsForNewReport(t *testing.T) {
	reports := repositories.NewMemoryLocationRepository()
	source := NewDeviceLocationSource(reports)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// A report that predates the request must not satisfy it.
	require.NoError(t, reports.SaveReport(ctx, "subj-1", &models.LocationSample{
		Latitude: 1, Longitude: 1, ObtainedAt: time.Now().Add(-time.Minute),
	}))

	go func() {
		time.Sleep(100 * time.Millisecond)
		reports.SaveReport(context.Background(), "subj-1", &models.LocationSample{
			Latitude: 7.0731, Longitude: 125.6128, ObtainedAt: time.Now(),
		})
	}()

	sample, err := source.RequestFresh(ctx, "subj-1")
	require.NoError(t, err)
	require.NotNil(t, sample)
	assert.Equal(t, 7.0731, sample.Latitude)
}

func TestDeviceSourceRequestFreshGivesUpOnExpiry(t *testing.T) {
	reports := repositories.NewMemoryLocationRepository()
	source := NewDeviceLocationSource(reports)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sample, err := source.RequestFresh(ctx, "subj-1")
	require.NoError(t, err)
	assert.Nil(t, sample)
}
