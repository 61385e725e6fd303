package sqlxrepos

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo activityRepository) Record(ctx context.Context, entry activity.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	var metadata []byte
	if entry.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(entry.Metadata); err != nil {
			return errors.Wrap(err, "marshaling activity metadata")
		}
	}

	query := `
		INSERT INTO activity_log (id, team_id, user_id, event, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.db.ExecContext(ctx, query,
		entry.ID, entry.TeamID, entry.UserID, entry.Event, metadata, entry.CreatedAt.UTC()); err != nil {
		return errors.Wrap(err, "inserting activity entry")
	}
	return nil
}
