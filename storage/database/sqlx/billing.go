package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/billing"
)

type subscriptionRow struct {
	UserID           string    `db:"user_id"`
	Status           string    `db:"status"`
	CurrentPeriodEnd null.Time `db:"current_period_end"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type subscriptionRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*subscriptionRepository)(nil) // interface compliance check

func NewSubscriptionRepository(db *sqlx.DB) *subscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (repo subscriptionRepository) GetSubscription(ctx context.Context, userID string) (billing.Subscription, error) {
	var row subscriptionRow
	query := `SELECT * FROM subscription WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return billing.Subscription{}, billing.ErrNotFound
		}
		return billing.Subscription{}, errors.Wrap(err, "getting subscription")
	}
	return billing.Subscription{
		UserID:           row.UserID,
		Status:           billing.Status(row.Status),
		CurrentPeriodEnd: row.CurrentPeriodEnd.Ptr(),
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
