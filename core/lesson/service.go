package lesson

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/activity"
)

// CompletionState is the outcome of a completion attempt. DailyLimitReached
// and AlreadyCompleted are normal outcomes communicated on the success path,
// not errors.
type CompletionState string

const (
	StateCompleted         CompletionState = "completed"
	StateAlreadyCompleted  CompletionState = "already_completed"
	StateDailyLimitReached CompletionState = "daily_limit_reached"
)

var (
	errInvalidLessonID = errors.New("invalid lesson identifier")
	errUnknownLesson   = errors.New("unknown lesson")
)

type (
	Repository interface {
		GetAllCompletions(ctx context.Context, userID string) ([]Completion, error)
		// UpsertCompletion marks the lesson completed, keyed uniquely on
		// (userID, lessonID): insert-or-update, never a duplicate row.
		// Idempotency substitutes for locking under concurrent replays.
		UpsertCompletion(ctx context.Context, userID, lessonID string, now time.Time) error
	}

	// CompletionResult carries what the caller needs to redirect back to the
	// lesson view; Part only feeds the open-part UI cookie and never gates
	// eligibility.
	CompletionResult struct {
		State    CompletionState `json:"state"`
		LessonID string          `json:"lesson_id"`
		Index    int             `json:"index"`
		Part     string          `json:"part"`
	}

	Service struct {
		catalog           *Catalog
		repo              Repository
		activityRepo      activity.Repository
		logger            core.Logger
		starterWindowSize int
	}
)

func NewService(conf *core.Config, cat *Catalog, repo Repository, activityRepo activity.Repository, logger core.Logger) *Service {
	return &Service{
		catalog:           cat,
		repo:              repo,
		activityRepo:      activityRepo,
		logger:            logger,
		starterWindowSize: conf.Lessons.StarterWindowSize,
	}
}

func (svc *Service) Catalog() *Catalog { return svc.catalog }

// Snapshot loads the user's completions and derives their eligibility state.
func (svc *Service) Snapshot(ctx context.Context, userID string, now time.Time) (Snapshot, error) {
	completions, err := svc.repo.GetAllCompletions(ctx, userID)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "loading completions")
	}
	return ComputeSnapshot(svc.catalog, completions, svc.starterWindowSize, now), nil
}

// Complete validates and applies one lesson completion for the user.
//
// Replaying a completion is never an error: an already-completed lesson
// returns StateAlreadyCompleted without touching the store. A not-yet
// completed lesson beyond the starter window is rejected with
// StateDailyLimitReached while today's quota is spent. All validation reads
// happen before the single write; the activity-log entry is best-effort and
// independent of the completion write.
func (svc *Service) Complete(ctx context.Context, userID, teamID, rawID string, now time.Time) (CompletionResult, error) {
	id := Normalize(rawID)
	if !IsCanonicalID(id) {
		return CompletionResult{}, core.NewValidationError(errInvalidLessonID,
			core.FieldError{Field: "lesson_id", Error: errInvalidLessonID.Error()})
	}
	desc, ok := svc.catalog.Get(id)
	if !ok {
		return CompletionResult{}, core.NewValidationError(errUnknownLesson,
			core.FieldError{Field: "lesson_id", Error: errUnknownLesson.Error()})
	}

	completions, err := svc.repo.GetAllCompletions(ctx, userID)
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "loading completions")
	}
	snap := ComputeSnapshot(svc.catalog, completions, svc.starterWindowSize, now)

	res := CompletionResult{LessonID: desc.ID, Index: desc.Index, Part: desc.Part}

	if snap.Completed(desc.ID) {
		res.State = StateAlreadyCompleted
		return res, nil
	}
	if desc.Index > svc.starterWindowSize && snap.DailyQuotaSpent {
		res.State = StateDailyLimitReached
		return res, nil
	}

	if err := svc.repo.UpsertCompletion(ctx, userID, desc.ID, now); err != nil {
		return CompletionResult{}, errors.Wrap(err, "upserting completion")
	}

	entry := activity.New(teamID, userID, activity.EventLessonCompleted, map[string]interface{}{
		"lesson_id": desc.ID,
		"index":     desc.Index,
		"part":      desc.Part,
	})
	if err := svc.activityRepo.Record(ctx, entry); err != nil {
		// never fails the completion
		svc.logger.Error("recording lesson completion activity", err)
	}

	res.State = StateCompleted
	return res, nil
}
