package jobs

import (
	"context"
	"fmt"
	"time"

	config "github.com/anjiri1684/talent_booking/configs"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/notifications"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const jobTimeout = 5 * time.Minute

// Waker is told that a job committed change events.
type Waker interface {
	Wake()
}

// Runner holds what the scheduled jobs need. Each job opens its own context.
type Runner struct {
	DB     *gorm.DB
	Log    logger.Logger
	Mailer notifications.Mailer
	Relay  Waker
	Now    func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Runner) wake() {
	if r.Relay != nil {
		r.Relay.Wake()
	}
}

func (r *Runner) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), jobTimeout)
}

// Schedule registers every job on a new cron scheduler. The caller starts and stops it.
func Schedule(cfg config.JobsConfig, r *Runner) (*cron.Cron, error) {
	c := cron.New()

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"stale booking cleanup", cfg.CleanupCron, r.CleanupStaleBookings},
		{"subscription expiry", cfg.SubscriptionCron, r.ExpireSubscriptions},
		{"event reminders", cfg.ReminderCron, r.SendEventReminders},
	}
	for _, j := range jobs {
		if j.spec == "" {
			r.Log.WithField("job", j.name).Warn("⚠️ Job disabled, no schedule configured")
			continue
		}
		if _, err := c.AddFunc(j.spec, j.run); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
		r.Log.WithFields(map[string]interface{}{"job": j.name, "spec": j.spec}).Info("✅ Cron job scheduled")
	}
	return c, nil
}
