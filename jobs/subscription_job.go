package jobs

import "github.com/anjiri1684/talent_booking/services"

func (r *Runner) ExpireSubscriptions() {
	ctx, cancel := r.context()
	defer cancel()

	expired, err := services.ExpireSubscriptions(ctx, r.DB, r.now())
	if err != nil {
		r.Log.WithField("error", err.Error()).Error("🔥 Subscription expiry failed")
		return
	}
	if expired > 0 {
		r.Log.WithField("expired", expired).Info("Expired lapsed subscriptions")
	}
}
