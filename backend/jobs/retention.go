package jobs

import (
	"context"
	"log"
	"time"

	"project/backend/models"

	"gorm.io/gorm"
)

// Retention purges read notifications once they age past the retention
// window. It runs free of any request, once per day at local midnight.
type Retention struct {
	DB     *gorm.DB
	Log    *log.Logger
	Window time.Duration
}

func NewRetention(db *gorm.DB, logger *log.Logger, retentionDays int) *Retention {
	return &Retention{
		DB:     db,
		Log:    logger,
		Window: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Start launches the sweep loop. It stops when ctx is canceled, which
// main wires to process shutdown.
func (r *Retention) Start(ctx context.Context) {
	go func() {
		for {
			timer := time.NewTimer(untilNextMidnight(time.Now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				if err := r.Sweep(time.Now()); err != nil {
					r.Log.Printf("notification sweep failed: %v", err)
				}
			}
		}
	}()
}

// Sweep hard-deletes every notification that is both read and older
// than the retention window. Unread notifications survive regardless of
// age.
func (r *Retention) Sweep(now time.Time) error {
	cutoff := now.Add(-r.Window)
	return r.DB.Unscoped().
		Where("status = ? AND created_at < ?", models.NotificationRead, cutoff).
		Delete(&models.Notification{}).Error
}

func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
