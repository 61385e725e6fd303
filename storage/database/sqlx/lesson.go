package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/lesson"
)

type completionRow struct {
	UserID    string    `db:"user_id"`
	LessonID  string    `db:"lesson_id"`
	Completed bool      `db:"completed"`
	UpdatedAt time.Time `db:"updated_at"`
}

type completionRepository struct {
	db *sqlx.DB
}

var _ lesson.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *sqlx.DB) *completionRepository {
	return &completionRepository{db: db}
}

func (repo completionRepository) GetAllCompletions(ctx context.Context, userID string) ([]lesson.Completion, error) {
	var rows []completionRow
	query := `SELECT * FROM lesson_completion WHERE user_id = $1`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}

	comps := make([]lesson.Completion, 0, len(rows))
	for _, row := range rows {
		comps = append(comps, lesson.Completion{
			UserID:    row.UserID,
			LessonID:  row.LessonID,
			Completed: row.Completed,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return comps, nil
}

// UpsertCompletion is keyed on the (user_id, lesson_id) primary key:
// insert-or-update, so concurrent replays can never duplicate a record.
func (repo completionRepository) UpsertCompletion(ctx context.Context, userID, lessonID string, now time.Time) error {
	query := `
		INSERT INTO lesson_completion (user_id, lesson_id, completed, updated_at)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed = TRUE, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, query, userID, lessonID, now.UTC()); err != nil {
		return errors.Wrap(err, "upserting completion")
	}
	return nil
}
