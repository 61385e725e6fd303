package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/activity"
)

type activityRepository struct {
	db *activityTable
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db.activity}
}

func (repo *activityRepository) Record(_ context.Context, entry activity.Entry) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	repo.db.table = append(repo.db.table, entry)
	return nil
}

// Entries returns a copy of all recorded entries, oldest first. Test helper.
func (repo *activityRepository) Entries() []activity.Entry {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]activity.Entry, len(repo.db.table))
	copy(entries, repo.db.table)
	return entries
}
