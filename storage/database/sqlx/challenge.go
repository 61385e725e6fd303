package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahq/darasa/core/challenge"
)

type challengeProgressRow struct {
	UserID           string    `db:"user_id"`
	ChallengeID      string    `db:"challenge_id"`
	StartDate        null.Time `db:"start_date"`
	LastCompletedDay int       `db:"last_completed_day"`
}

type challengeRepository struct {
	db *sqlx.DB
}

var _ challenge.Repository = (*challengeRepository)(nil) // interface compliance check

func NewChallengeRepository(db *sqlx.DB) *challengeRepository {
	return &challengeRepository{db: db}
}

func (repo challengeRepository) unpack(row challengeProgressRow) challenge.Progress {
	return challenge.Progress{
		UserID:           row.UserID,
		ChallengeID:      row.ChallengeID,
		StartDate:        row.StartDate.Ptr(),
		LastCompletedDay: row.LastCompletedDay,
	}
}

func (repo challengeRepository) GetProgress(ctx context.Context, userID, challengeID string) (challenge.Progress, error) {
	var row challengeProgressRow
	query := `SELECT * FROM challenge_progress WHERE user_id = $1 AND challenge_id = $2`
	if err := repo.db.GetContext(ctx, &row, query, userID, challengeID); err != nil {
		if err == sql.ErrNoRows {
			return challenge.Progress{}, challenge.ErrNotFound
		}
		return challenge.Progress{}, errors.Wrap(err, "getting challenge progress")
	}
	return repo.unpack(row), nil
}

// StartChallenge inserts the initial progress record; a concurrent first view
// keeps the earliest start date.
func (repo challengeRepository) StartChallenge(ctx context.Context, userID, challengeID string, now time.Time) (challenge.Progress, error) {
	query := `
		INSERT INTO challenge_progress (user_id, challenge_id, start_date, last_completed_day)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id, challenge_id) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, query, userID, challengeID, now.UTC()); err != nil {
		return challenge.Progress{}, errors.Wrap(err, "starting challenge")
	}
	return repo.GetProgress(ctx, userID, challengeID)
}

func (repo challengeRepository) CompleteDay(ctx context.Context, userID, challengeID string, day int) (challenge.Progress, error) {
	var row challengeProgressRow
	query := `
		UPDATE challenge_progress
		SET last_completed_day = GREATEST(last_completed_day, $3)
		WHERE user_id = $1 AND challenge_id = $2
		RETURNING *`
	if err := repo.db.GetContext(ctx, &row, query, userID, challengeID, day); err != nil {
		if err == sql.ErrNoRows {
			return challenge.Progress{}, challenge.ErrNotFound
		}
		return challenge.Progress{}, errors.Wrap(err, "completing challenge day")
	}
	return repo.unpack(row), nil
}
