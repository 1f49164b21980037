package jobs

import "github.com/anjiri1684/talent_booking/services"

// SendEventReminders notifies both sides of tomorrow's confirmed bookings and mails them.
func (r *Runner) SendEventReminders() {
	r.Log.Info("Running job: SendEventReminders...")
	ctx, cancel := r.context()
	defer cancel()

	notes, err := services.SendEventReminders(ctx, r.DB, r.now())
	if err != nil {
		r.Log.WithField("error", err.Error()).Error("🔥 Event reminders failed")
		return
	}
	if len(notes) == 0 {
		return
	}
	r.wake()
	if r.Mailer != nil {
		services.EmailNotifications(ctx, r.DB, r.Mailer, r.Log, notes)
	}
	r.Log.WithField("reminders", len(notes)).Info("Sent event reminders")
}
