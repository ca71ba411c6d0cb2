package workers

import (
	"context"
	"sync"
	"time"

	"carewatch/interfaces"
	"carewatch/services"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ReminderWorkerConfig controls the follow-up loop for unresolved alerts.
type ReminderWorkerConfig struct {
	PollInterval time.Duration
	AlertAge     time.Duration
	SendTimeout  time.Duration
}

// ReminderWorker periodically re-notifies the emergency contact about alerts
// that stay unresolved past a configurable age. It is a follow-up nudge, not
// a delivery retry: the original send outcome is never changed. Redis keys
// with a TTL keep one reminder per alert per age window, even with several
// instances running.
type ReminderWorker struct {
	alertStore interfaces.AlertStore
	gateway    interfaces.SMSGateway
	composer   *services.AlertComposer
	redis      *redis.Client
	config     ReminderWorkerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReminderWorker(
	alertStore interfaces.AlertStore,
	gateway interfaces.SMSGateway,
	composer *services.AlertComposer,
	redisClient *redis.Client,
	config ReminderWorkerConfig,
) *ReminderWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Minute
	}
	if config.AlertAge <= 0 {
		config.AlertAge = 30 * time.Minute
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ReminderWorker{
		alertStore: alertStore,
		gateway:    gateway,
		composer:   composer,
		redis:      redisClient,
		config:     config,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the polling loop.
func (rw *ReminderWorker) Start() {
	rw.wg.Add(1)
	go rw.run()
	logrus.Infof("⏰ Reminder worker started (interval %s, alert age %s)", rw.config.PollInterval, rw.config.AlertAge)
}

// Stop terminates the loop and waits for the current sweep to finish.
func (rw *ReminderWorker) Stop() {
	rw.cancel()
	rw.wg.Wait()
	logrus.Info("Reminder worker stopped")
}

func (rw *ReminderWorker) run() {
	defer rw.wg.Done()

	ticker := time.NewTicker(rw.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rw.ctx.Done():
			return
		case <-ticker.C:
			rw.sweep()
		}
	}
}

func (rw *ReminderWorker) sweep() {
	ctx, cancel := context.WithTimeout(rw.ctx, rw.config.PollInterval)
	defer cancel()

	cutoff := time.Now().Add(-rw.config.AlertAge)
	alerts, err := rw.alertStore.ListUnresolvedOlderThan(ctx, cutoff)
	if err != nil {
		logrus.Errorf("Reminder sweep failed to list alerts: %v", err)
		return
	}

	for _, alert := range alerts {
		if !rw.claim(ctx, alert.ID) {
			continue
		}

		message := rw.composer.ComposeReminder(alert.SubjectName, alert.TriggeredAt)

		sendCtx, sendCancel := context.WithTimeout(ctx, rw.config.SendTimeout)
		result, err := rw.gateway.Send(sendCtx, alert.DestinationPhone, message)
		sendCancel()

		switch {
		case err != nil:
			logrus.Warnf("Reminder for alert %s not sent: %v", alert.ID, err)
		case !result.Success:
			logrus.Warnf("Reminder for alert %s not delivered: %s", alert.ID, result.ErrorReason)
		default:
			logrus.Infof("Reminder sent for unresolved alert %s", alert.ID)
		}
	}
}

// claim takes the per-alert reminder slot for one age window. Without Redis
// every instance reminds on its own schedule, which is acceptable for a
// single-node deployment.
func (rw *ReminderWorker) claim(ctx context.Context, alertID string) bool {
	if rw.redis == nil {
		return true
	}

	ok, err := rw.redis.SetNX(ctx, "carewatch:reminder:"+alertID, 1, rw.config.AlertAge).Result()
	if err != nil {
		logrus.Warnf("Reminder dedupe unavailable: %v", err)
		return true
	}
	return ok
}
