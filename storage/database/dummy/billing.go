package dummydb

import (
	"context"

	"github.com/darasahq/darasa/core/billing"
)

type subscriptionRepository struct {
	db *subscriptionTable
}

var _ billing.Repository = (*subscriptionRepository)(nil) // interface compliance check

func NewSubscriptionRepository(db *DB) *subscriptionRepository {
	return &subscriptionRepository{db: db.subscription}
}

func (repo *subscriptionRepository) GetSubscription(_ context.Context, userID string) (billing.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[userID]; ok {
		return *sub, nil
	}
	return billing.Subscription{}, billing.ErrNotFound
}

// SetSubscription inserts or replaces a user's subscription. Test helper.
func (repo *subscriptionRepository) SetSubscription(sub billing.Subscription) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[sub.UserID] = &sub
}
