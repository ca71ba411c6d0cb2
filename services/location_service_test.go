package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"carewatch/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocationSource struct {
	lastKnown    *models.LocationSample
	lastKnownErr error
	fresh        *models.LocationSample
	freshErr     error
	freshDelay   time.Duration
	freshCalls   int32
}

func (s *stubLocationSource) GetLastKnown(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	return s.lastKnown, s.lastKnownErr
}

func (s *stubLocationSource) RequestFresh(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	atomic.AddInt32(&s.freshCalls, 1)
	if s.freshDelay > 0 {
		select {
		case <-time.After(s.freshDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.fresh, s.freshErr
}

func TestGetLocationFreshLastKnownShortCircuits(t *testing.T) {
	sample := &models.LocationSample{Latitude: 7.0731, Longitude: 125.6128, ObtainedAt: time.Now()}
	source := &stubLocationSource{lastKnown: sample}
	svc := NewLocationService(source, nil, 2*time.Minute)

	got := svc.GetLocation(context.Background(), "subj-1", time.Second)

	require.NotNil(t, got)
	assert.Equal(t, sample.Latitude, got.Latitude)
	assert.Equal(t, int32(0), atomic.LoadInt32(&source.freshCalls))
}

func TestGetLocationStaleTriggersFreshRequest(t *testing.T) {
	stale := &models.LocationSample{Latitude: 1, Longitude: 1, ObtainedAt: time.Now().Add(-time.Hour)}
	fresh := &models.LocationSample{Latitude: 7.0731, Longitude: 125.6128, ObtainedAt: time.Now()}
	source := &stubLocationSource{lastKnown: stale, fresh: fresh}
	svc := NewLocationService(source, nil, 2*time.Minute)

	got := svc.GetLocation(context.Background(), "subj-1", time.Second)

	require.NotNil(t, got)
	assert.Equal(t, fresh.Latitude, got.Latitude)
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.freshCalls))
}

func TestGetLocationTimeoutFallsBackToStale(t *testing.T) {
	stale := &models.LocationSample{Latitude: 1, Longitude: 1, ObtainedAt: time.Now().Add(-time.Hour)}
	source := &stubLocationSource{lastKnown: stale, freshDelay: 5 * time.Second}
	svc := NewLocationService(source, nil, 2*time.Minute)

	start := time.Now()
	got := svc.GetLocation(context.Background(), "subj-1", 100*time.Millisecond)

	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, got)
	assert.Equal(t, stale.Latitude, got.Latitude)
}

func TestGetLocationNothingAvailableReturnsNil(t *testing.T) {
	source := &stubLocationSource{
		lastKnownErr: errors.New("location permission revoked"),
		freshErr:     errors.New("device unreachable"),
	}
	svc := NewLocationService(source, nil, 2*time.Minute)

	got := svc.GetLocation(context.Background(), "subj-1", 100*time.Millisecond)

	assert.Nil(t, got)
}

func TestGetLocationCacheSurvivesSpentTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	sample := &models.LocationSample{Latitude: 7.0731, Longitude: 125.6128, ObtainedAt: time.Now()}
	source := &stubLocationSource{lastKnown: sample}
	svc := NewLocationService(source, client, 2*time.Minute)

	// Prime the cache with a fresh fix.
	require.NotNil(t, svc.GetLocation(context.Background(), "subj-1", time.Second))

	// The source loses the fix and the fresh request outlives the budget; the
	// cache read must still succeed even though the lookup budget is spent.
	source.lastKnown = nil
	source.freshDelay = 5 * time.Second

	got := svc.GetLocation(context.Background(), "subj-1", 100*time.Millisecond)
	require.NotNil(t, got)
	assert.Equal(t, sample.Latitude, got.Latitude)
	assert.Equal(t, sample.Longitude, got.Longitude)
}

func TestGetLocationRejectsInvalidCoordinates(t *testing.T) {
	bogus := &models.LocationSample{Latitude: 912, Longitude: 0, ObtainedAt: time.Now()}
	source := &stubLocationSource{lastKnown: bogus}
	svc := NewLocationService(source, nil, 2*time.Minute)

	got := svc.GetLocation(context.Background(), "subj-1", 100*time.Millisecond)

	assert.Nil(t, got)
}
