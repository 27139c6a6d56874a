package workflow

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/ditfinops/opex_backend/config"
	"github.com/ditfinops/opex_backend/models"
	"github.com/ditfinops/opex_backend/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dispatcherLockKey = "Lock:OutboxDispatcher"

// OutboxDispatcher publishes committed outbox rows to Pub/Sub. It is
// the only background goroutine in the service and never feeds back
// into import results. A best-effort redis lock keeps a single replica
// dispatching; losing the lock only means another replica does the work.
type OutboxDispatcher struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	DispatcherID string

	BatchSize    int
	PollInterval time.Duration
	MaxAttempts  int
}

func NewOutboxDispatcher(db *gorm.DB, logger *logrus.Logger) *OutboxDispatcher {
	return &OutboxDispatcher{
		DB:           db,
		Logger:       logger,
		DispatcherID: uuid.NewString(),
		BatchSize:    20,
		PollInterval: 5 * time.Second,
		MaxAttempts:  10,
	}
}

func (d *OutboxDispatcher) Run(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.dispatchOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.PollInterval):
		}
	}
}

func (d *OutboxDispatcher) dispatchOnce(ctx context.Context) {
	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, dispatcherLockKey, 2*d.PollInterval, nil)
		if err != nil {
			if err != redislock.ErrNotObtained && d.Logger != nil {
				d.Logger.WithError(err).Warn("outbox dispatcher lock error")
			}
			return
		}
		defer lock.Release(ctx)
	}

	rows, err := models.FetchPendingOutbox(ctx, d.BatchSize)
	if err != nil {
		if d.Logger != nil {
			d.Logger.WithError(err).Error("fetch pending outbox failed")
		}
		return
	}

	for _, row := range rows {
		var msg config.ImportEventMessage
		if err := utils.UnmarshalFromJSON([]byte(row.Payload), &msg); err != nil {
			// malformed payload can never publish; park it as failed
			_ = models.MarkOutboxFailed(ctx, row.ID, "malformed payload: "+err.Error(), 1)
			continue
		}

		pubID, err := config.PublishImportEvent(ctx, msg)
		if err != nil {
			_ = models.MarkOutboxFailed(ctx, row.ID, err.Error(), d.MaxAttempts)
			if d.Logger != nil {
				d.Logger.WithFields(logrus.Fields{
					"dispatcher": d.DispatcherID,
					"outboxId":   row.ID,
					"attempts":   row.Attempts + 1,
				}).WithError(err).Error("outbox publish failed")
			}
			continue
		}

		if err := models.MarkOutboxSent(ctx, row.ID); err != nil && d.Logger != nil {
			d.Logger.WithError(err).Error("mark outbox sent failed")
		}
		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{
				"dispatcher": d.DispatcherID,
				"outboxId":   row.ID,
				"messageId":  pubID,
			}).Info("outbox event published")
		}
	}
}
