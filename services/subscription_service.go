package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivateSubscriptionInput struct {
	UserID         uuid.UUID
	SubscriptionID string
	PlanID         string
}

type SubscriptionResult struct {
	Period string
	End    time.Time
}

// SubscriptionPeriod reads the billing period from the plan id.
func SubscriptionPeriod(planID string) string {
	plan := strings.ToLower(planID)
	if strings.Contains(plan, "yearly") || strings.Contains(plan, "annual") {
		return models.PeriodYearly
	}
	return models.PeriodMonthly
}

func subscriptionEnd(period string, now time.Time) time.Time {
	if period == models.PeriodYearly {
		return now.AddDate(1, 0, 0)
	}
	return now.AddDate(0, 1, 0)
}

func ActivateSubscription(ctx context.Context, db *gorm.DB, caller Caller, in ActivateSubscriptionInput, now time.Time) (*SubscriptionResult, error) {
	if caller.ID != in.UserID && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	period := SubscriptionPeriod(in.PlanID)
	end := subscriptionEnd(period, now)

	res := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", in.UserID).
		Updates(map[string]interface{}{
			"is_subscribed":        true,
			"subscription_id":      in.SubscriptionID,
			"subscription_plan_id": in.PlanID,
			"subscription_period":  period,
			"subscription_end":     end,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("activate subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return &SubscriptionResult{Period: period, End: end}, nil
}

// ExpireSubscriptions clears the subscribed flag of every lapsed subscription.
func ExpireSubscriptions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("is_subscribed = ? AND subscription_end IS NOT NULL AND subscription_end < ?", true, now).
		Update("is_subscribed", false)
	if res.Error != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
