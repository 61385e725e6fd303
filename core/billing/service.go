package billing

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("subscription not found")

type Status string

const (
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

type (
	// Subscription mirrors the billing provider's state; checkout, webhooks
	// and the customer portal live outside this app and only write this
	// record.
	Subscription struct {
		UserID           string     `json:"user_id"`
		Status           Status     `json:"status"`
		CurrentPeriodEnd *time.Time `json:"current_period_end"`
		UpdatedAt        time.Time  `json:"updated_at"` // UTC
	}

	Repository interface {
		GetSubscription(ctx context.Context, userID string) (Subscription, error)
	}

	Service struct {
		repo Repository
	}
)

func (sub Subscription) IsActive(now time.Time) bool {
	if sub.Status != StatusActive && sub.Status != StatusTrialing {
		return false
	}
	if sub.CurrentPeriodEnd != nil && now.After(*sub.CurrentPeriodEnd) {
		return false
	}
	return true
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HasActive reports whether the user holds a currently active (or trialing)
// subscription. A missing record is a plain "no", not an error.
func (svc *Service) HasActive(ctx context.Context, userID string, now time.Time) (bool, error) {
	sub, err := svc.repo.GetSubscription(ctx, userID)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "loading subscription")
	}
	return sub.IsActive(now), nil
}
