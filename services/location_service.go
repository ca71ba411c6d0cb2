package services

import (
	"context"
	"encoding/json"
	"time"

	"carewatch/interfaces"
	"carewatch/models"
	"carewatch/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const locationCacheTTL = 24 * time.Hour

// LocationService resolves a best-effort position for a subject under a hard
// time budget. A cheap last-known read comes first; a stale or missing fix
// triggers exactly one fresh request. The caller always gets an answer within
// the timeout - nil means "alert without location", never an error.
type LocationService struct {
	source    interfaces.LocationSource
	redis     *redis.Client
	freshness time.Duration
}

func NewLocationService(source interfaces.LocationSource, redisClient *redis.Client, freshness time.Duration) *LocationService {
	return &LocationService{
		source:    source,
		redis:     redisClient,
		freshness: freshness,
	}
}

// GetLocation returns the freshest sample obtainable within the timeout.
func (ls *LocationService) GetLocation(ctx context.Context, subjectID string, timeout time.Duration) *models.LocationSample {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lastKnown := ls.lastKnown(ctx, subjectID)
	if lastKnown != nil && time.Since(lastKnown.ObtainedAt) <= ls.freshness {
		ls.cacheSample(subjectID, lastKnown)
		return lastKnown
	}

	fresh, err := ls.source.RequestFresh(ctx, subjectID)
	if err != nil {
		logrus.Warnf("Fresh location request for subject %s failed: %v", subjectID, err)
	}
	if fresh != nil && utils.IsValidCoordinate(fresh.Latitude, fresh.Longitude) {
		ls.cacheSample(subjectID, fresh)
		return fresh
	}

	// Degrade to whatever we have: a stale last-known fix, then the cache.
	if lastKnown != nil {
		return lastKnown
	}
	return ls.cachedSample(subjectID)
}

func (ls *LocationService) lastKnown(ctx context.Context, subjectID string) *models.LocationSample {
	sample, err := ls.source.GetLastKnown(ctx, subjectID)
	if err != nil {
		// Permission revoked or provider unavailable. Not an error for the
		// alert flow.
		logrus.Debugf("Last known location for subject %s unavailable: %v", subjectID, err)
		return nil
	}
	if sample == nil || !utils.IsValidCoordinate(sample.Latitude, sample.Longitude) {
		return nil
	}
	return sample
}

func (ls *LocationService) cacheSample(subjectID string, sample *models.LocationSample) {
	if ls.redis == nil {
		return
	}

	payload, err := json.Marshal(sample)
	if err != nil {
		return
	}

	// Best effort; a cache miss later just means one less fallback.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ls.redis.Set(ctx, locationCacheKey(subjectID), payload, locationCacheTTL).Err(); err != nil {
		logrus.Debugf("Failed to cache location for subject %s: %v", subjectID, err)
	}
}

func (ls *LocationService) cachedSample(subjectID string) *models.LocationSample {
	if ls.redis == nil {
		return nil
	}

	// The lookup budget is usually spent by the time we get here, so the
	// cache read runs on its own short context.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload, err := ls.redis.Get(ctx, locationCacheKey(subjectID)).Bytes()
	if err != nil {
		return nil
	}

	var sample models.LocationSample
	if err := json.Unmarshal(payload, &sample); err != nil {
		return nil
	}
	return &sample
}

func locationCacheKey(subjectID string) string {
	return "carewatch:lastloc:" + subjectID
}
