package services

import (
	"context"
	"time"

	"carewatch/interfaces"
	"carewatch/models"
)

const freshPollInterval = 500 * time.Millisecond

// DeviceLocationSource reads the position fixes subject devices push to the
// report store. GetLastKnown returns the latest stored report. RequestFresh
// waits for a report newer than the request itself - companion apps push
// continuously once an SOS fires - and gives up when the context expires.
type DeviceLocationSource struct {
	reports interfaces.LocationReportStore
}

func NewDeviceLocationSource(reports interfaces.LocationReportStore) *DeviceLocationSource {
	return &DeviceLocationSource{
		reports: reports,
	}
}

func (ds *DeviceLocationSource) GetLastKnown(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	return ds.reports.LatestReport(ctx, subjectID)
}

func (ds *DeviceLocationSource) RequestFresh(ctx context.Context, subjectID string) (*models.LocationSample, error) {
	requestedAt := time.Now()

	ticker := time.NewTicker(freshPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
			sample, err := ds.reports.LatestReport(ctx, subjectID)
			if err != nil {
				return nil, err
			}
			if sample != nil && sample.ObtainedAt.After(requestedAt) {
				return sample, nil
			}
		}
	}
}
