package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/darasahq/darasa/core/lesson"
)

type completionRepository struct {
	db *completionTable
}

var _ lesson.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *DB) *completionRepository {
	return &completionRepository{db: db.completion}
}

func (repo *completionRepository) GetAllCompletions(_ context.Context, userID string) ([]lesson.Completion, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var completions []lesson.Completion
	for _, cpl := range repo.db.table {
		if cpl.UserID == userID {
			completions = append(completions, *cpl)
		}
	}
	sort.Slice(completions, func(i, j int) bool {
		return completions[i].UpdatedAt.Before(completions[j].UpdatedAt)
	})
	return completions, nil
}

func (repo *completionRepository) UpsertCompletion(_ context.Context, userID, lessonID string, now time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := userID + lessonID
	if cpl, ok := repo.db.table[key]; ok {
		cpl.Completed = true
		cpl.UpdatedAt = now
		return nil
	}
	repo.db.table[key] = &lesson.Completion{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
		UpdatedAt: now,
	}
	return nil
}
