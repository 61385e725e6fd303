package dummydb

import (
	"context"
	"time"

	"github.com/darasahq/darasa/core/challenge"
)

type challengeProgressRepository struct {
	db *challengeTable
}

var _ challenge.Repository = (*challengeProgressRepository)(nil) // interface compliance check

func NewChallengeProgressRepository(db *DB) *challengeProgressRepository {
	return &challengeProgressRepository{db: db.challenge}
}

func (repo *challengeProgressRepository) GetProgress(_ context.Context, userID, challengeID string) (challenge.Progress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prog, ok := repo.db.table[userID+challengeID]; ok {
		return *prog, nil
	}
	return challenge.Progress{}, challenge.ErrNotFound
}

func (repo *challengeProgressRepository) StartChallenge(_ context.Context, userID, challengeID string, now time.Time) (challenge.Progress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := userID + challengeID
	if prog, ok := repo.db.table[key]; ok {
		// already started; the original start date wins
		return *prog, nil
	}
	start := now
	prog := &challenge.Progress{
		UserID:      userID,
		ChallengeID: challengeID,
		StartDate:   &start,
	}
	repo.db.table[key] = prog
	return *prog, nil
}

func (repo *challengeProgressRepository) CompleteDay(_ context.Context, userID, challengeID string, day int) (challenge.Progress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prog, ok := repo.db.table[userID+challengeID]
	if !ok {
		return challenge.Progress{}, challenge.ErrNotFound
	}
	if day > prog.LastCompletedDay {
		prog.LastCompletedDay = day
	}
	return *prog, nil
}
