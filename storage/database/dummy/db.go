package dummydb

import (
	"sync"

	"github.com/darasahq/darasa/core/activity"
	"github.com/darasahq/darasa/core/billing"
	"github.com/darasahq/darasa/core/challenge"
	"github.com/darasahq/darasa/core/lesson"
	"github.com/darasahq/darasa/core/user"
)

type (
	DB struct {
		user         *userTable
		completion   *completionTable
		challenge    *challengeTable
		activity     *activityTable
		subscription *subscriptionTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	completionTable struct {
		sync.RWMutex
		table map[string]*lesson.Completion // userID + lessonID
	}

	challengeTable struct {
		sync.RWMutex
		table map[string]*challenge.Progress // userID + challengeID
	}

	activityTable struct {
		sync.RWMutex
		table []activity.Entry
	}

	subscriptionTable struct {
		sync.RWMutex
		table map[string]*billing.Subscription // userID
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		completion:   &completionTable{table: make(map[string]*lesson.Completion)},
		challenge:    &challengeTable{table: make(map[string]*challenge.Progress)},
		activity:     &activityTable{},
		subscription: &subscriptionTable{table: make(map[string]*billing.Subscription)},
	}
	return db, nil
}
