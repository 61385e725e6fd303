package challenge

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

var (
	errUnknownChallenge = errors.New("unknown challenge")
	errDayLocked        = errors.New("day is not unlocked yet")
	errInvalidDay       = errors.New("invalid day")
)

// AvailableDays returns how many challenge days are unlocked: day N unlocks
// N-1 full calendar days after the start date. Before a start date exists
// only day one is available. The result is uncapped; callers clamp against
// the challenge's actual day count when rendering.
//
// Completing a day never accelerates the next unlock; only elapsed wall-clock
// time does.
func AvailableDays(startDate *time.Time, now time.Time) int {
	if startDate == nil {
		return 1
	}
	elapsed := int(now.Sub(*startDate).Hours() / 24)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed + 1
}

type (
	Repository interface {
		GetProgress(ctx context.Context, userID, challengeID string) (Progress, error)
		StartChallenge(ctx context.Context, userID, challengeID string, now time.Time) (Progress, error)
		// CompleteDay raises the high-water mark: the stored LastCompletedDay
		// becomes max(current, day).
		CompleteDay(ctx context.Context, userID, challengeID string, day int) (Progress, error)
	}

	Service struct {
		catalog *Catalog
		repo    Repository
	}
)

func NewService(cat *Catalog, repo Repository) *Service {
	return &Service{catalog: cat, repo: repo}
}

func (svc *Service) Catalog() *Catalog { return svc.catalog }

// View returns the user's progress for the challenge, starting it (with
// StartDate = now) on first view.
func (svc *Service) View(ctx context.Context, userID, challengeID string, now time.Time) (Descriptor, Progress, error) {
	desc, ok := svc.catalog.Get(challengeID)
	if !ok {
		return Descriptor{}, Progress{}, core.NewValidationError(errUnknownChallenge,
			core.FieldError{Field: "challenge_id", Error: errUnknownChallenge.Error()})
	}

	prog, err := svc.repo.GetProgress(ctx, userID, challengeID)
	if err == ErrNotFound {
		prog, err = svc.repo.StartChallenge(ctx, userID, challengeID, now)
	}
	if err != nil {
		return Descriptor{}, Progress{}, errors.Wrap(err, "loading challenge progress")
	}
	return desc, prog, nil
}

// CompleteDay marks a day complete. Days beyond the unlocked horizon are
// rejected; days at or below it are accepted even out of order, the stored
// mark being a high-water value.
func (svc *Service) CompleteDay(ctx context.Context, userID, challengeID string, day int, now time.Time) (Progress, error) {
	desc, prog, err := svc.View(ctx, userID, challengeID, now)
	if err != nil {
		return Progress{}, err
	}
	if day < 1 || day > desc.Days {
		return Progress{}, core.NewValidationError(errInvalidDay,
			core.FieldError{Field: "day", Error: errInvalidDay.Error()})
	}
	if day > AvailableDays(prog.StartDate, now) {
		return Progress{}, core.NewValidationError(errDayLocked,
			core.FieldError{Field: "day", Error: errDayLocked.Error()})
	}

	prog, err = svc.repo.CompleteDay(ctx, userID, challengeID, day)
	return prog, errors.Wrap(err, "completing challenge day")
}
