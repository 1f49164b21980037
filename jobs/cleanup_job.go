package jobs

import "github.com/anjiri1684/talent_booking/services"

func (r *Runner) CleanupStaleBookings() {
	r.Log.Info("Running job: CleanupStaleBookings...")
	ctx, cancel := r.context()
	defer cancel()

	result, err := services.CleanupStaleBookings(ctx, r.DB, r.Log, r.now())
	if err != nil {
		r.Log.WithField("error", err.Error()).Error("🔥 Stale booking cleanup failed")
		return
	}
	if result.DeletedCount > 0 {
		r.wake()
	}
	r.Log.WithField("deleted", result.DeletedCount).Info(result.Message)
}
