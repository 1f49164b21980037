package payments

import "math"

const (
	DefaultCommissionRate    = 20.0
	SubscriberCommissionRate = 15.0
)

// ResolveCommissionRate picks the platform's percentage for an invoice.
// Unsubscribed talents always pay the default rate. For subscribed talents an
// admin may set any rate between 0 and 100; otherwise the subscriber rate applies.
func ResolveCommissionRate(talentSubscribed, callerIsAdmin bool, override *float64) float64 {
	if !talentSubscribed {
		return DefaultCommissionRate
	}
	if callerIsAdmin && override != nil && *override >= 0 && *override <= 100 {
		return *override
	}
	return SubscriberCommissionRate
}

type Split struct {
	Total      float64
	Rate       float64
	Commission float64
	Earnings   float64
}

// SplitAmount divides total into platform commission and talent earnings.
// Commission + Earnings always equals the rounded total.
func SplitAmount(total, rate float64) Split {
	total = Round2(total)
	commission := Round2(total * rate / 100)
	return Split{
		Total:      total,
		Rate:       rate,
		Commission: commission,
		Earnings:   Round2(total - commission),
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
