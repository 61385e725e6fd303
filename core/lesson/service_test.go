package lesson

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/activity"
)

type fakeRepo struct {
	sync.Mutex
	completions map[string]Completion // keyed on userID+lessonID
	upserts     int
	failReads   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{completions: make(map[string]Completion)}
}

func (r *fakeRepo) GetAllCompletions(_ context.Context, userID string) ([]Completion, error) {
	r.Lock()
	defer r.Unlock()
	if r.failReads {
		return nil, errors.New("store unavailable")
	}
	var comps []Completion
	for _, c := range r.completions {
		if c.UserID == userID {
			comps = append(comps, c)
		}
	}
	return comps, nil
}

func (r *fakeRepo) UpsertCompletion(_ context.Context, userID, lessonID string, now time.Time) error {
	r.Lock()
	defer r.Unlock()
	r.upserts++
	r.completions[userID+lessonID] = Completion{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
		UpdatedAt: now,
	}
	return nil
}

type fakeActivityRepo struct {
	entries []activity.Entry
	fail    bool
}

func (r *fakeActivityRepo) Record(_ context.Context, entry activity.Entry) error {
	if r.fail {
		return errors.New("activity log unavailable")
	}
	r.entries = append(r.entries, entry)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestService(catSize, starterWindow int) (*Service, *fakeRepo, *fakeActivityRepo) {
	conf := &core.Config{Lessons: core.LessonsConfig{StarterWindowSize: starterWindow}}
	repo := newFakeRepo()
	actRepo := &fakeActivityRepo{}
	svc := NewService(conf, testCatalog(catSize), repo, actRepo, nopLogger{})
	return svc, repo, actRepo
}

func TestServiceCompleteIdempotent(t *testing.T) {
	svc, repo, _ := newTestService(5, 2)
	ctx := context.Background()
	now := time.Now()

	res1, err := svc.Complete(ctx, "u1", "", "1", now)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if res1.State != StateCompleted {
		t.Errorf("first Complete() state = %q, want %q", res1.State, StateCompleted)
	}

	res2, err := svc.Complete(ctx, "u1", "", "1", now)
	if err != nil {
		t.Fatalf("Complete() replay error = %v", err)
	}
	if res2.State != StateAlreadyCompleted {
		t.Errorf("replay state = %q, want %q", res2.State, StateAlreadyCompleted)
	}
	if res2.LessonID != res1.LessonID {
		t.Errorf("replay LessonID = %q, want %q", res2.LessonID, res1.LessonID)
	}
	if repo.upserts != 1 {
		t.Errorf("upserts = %d, want 1 (no second record)", repo.upserts)
	}
}

func TestServiceCompleteDailyLimitRoundTrip(t *testing.T) {
	// starter window 2, 5 lessons: completing 3 today spends the quota;
	// 4 is blocked today and allowed on the next calendar day
	svc, _, _ := newTestService(5, 2)
	ctx := context.Background()
	today := time.Now()

	res, err := svc.Complete(ctx, "u1", "", "3", today)
	if err != nil || res.State != StateCompleted {
		t.Fatalf("Complete(3) = (%+v, %v), want completed", res, err)
	}

	res, err = svc.Complete(ctx, "u1", "", "4", today)
	if err != nil {
		t.Fatalf("Complete(4) error = %v", err)
	}
	if res.State != StateDailyLimitReached {
		t.Errorf("Complete(4) today state = %q, want %q", res.State, StateDailyLimitReached)
	}

	tomorrow := today.Add(24 * time.Hour)
	res, err = svc.Complete(ctx, "u1", "", "4", tomorrow)
	if err != nil || res.State != StateCompleted {
		t.Errorf("Complete(4) tomorrow = (%+v, %v), want completed", res, err)
	}
}

func TestServiceCompleteStarterLessonsIgnoreQuota(t *testing.T) {
	svc, _, _ := newTestService(5, 2)
	ctx := context.Background()
	now := time.Now()

	// a spent quota never blocks starter lessons
	if res, err := svc.Complete(ctx, "u1", "", "3", now); err != nil || res.State != StateCompleted {
		t.Fatalf("Complete(3) = (%+v, %v), want completed", res, err)
	}
	if res, err := svc.Complete(ctx, "u1", "", "1", now); err != nil || res.State != StateCompleted {
		t.Errorf("Complete(1) with spent quota = (%+v, %v), want completed", res, err)
	}
	if res, err := svc.Complete(ctx, "u1", "", "2", now); err != nil || res.State != StateCompleted {
		t.Errorf("Complete(2) with spent quota = (%+v, %v), want completed", res, err)
	}
}

func TestServiceCompleteInvalidLesson(t *testing.T) {
	svc, repo, _ := newTestService(5, 2)
	ctx := context.Background()
	now := time.Now()

	for _, raw := range []string{"", "not-a-lesson", "42"} {
		_, err := svc.Complete(ctx, "u1", "", raw, now)
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("Complete(%q) error = %v, want ValidationError", raw, err)
		}
	}
	if repo.upserts != 0 {
		t.Errorf("upserts = %d, want 0 after rejected attempts", repo.upserts)
	}
}

func TestServiceCompleteActivityFailureSwallowed(t *testing.T) {
	svc, repo, actRepo := newTestService(5, 2)
	actRepo.fail = true
	ctx := context.Background()

	res, err := svc.Complete(ctx, "u1", "", "1", time.Now())
	if err != nil {
		t.Fatalf("Complete() error = %v, want activity failure swallowed", err)
	}
	if res.State != StateCompleted {
		t.Errorf("state = %q, want %q", res.State, StateCompleted)
	}
	if repo.upserts != 1 {
		t.Errorf("upserts = %d, want 1", repo.upserts)
	}
}

func TestServiceCompleteActivityAttribution(t *testing.T) {
	svc, _, actRepo := newTestService(5, 2)
	ctx := context.Background()
	now := time.Now()

	if _, err := svc.Complete(ctx, "u1", "team-9", "1", now); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if _, err := svc.Complete(ctx, "u2", "", "1", now); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(actRepo.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(actRepo.entries))
	}
	if actRepo.entries[0].TeamID != "team-9" || actRepo.entries[0].Event != activity.EventLessonCompleted {
		t.Errorf("entry = %+v, want team-9 / %s", actRepo.entries[0], activity.EventLessonCompleted)
	}
	if actRepo.entries[1].TeamID != activity.NoTeamID {
		t.Errorf("no-team entry TeamID = %q, want %q", actRepo.entries[1].TeamID, activity.NoTeamID)
	}
}

func TestServiceCompletePersistenceError(t *testing.T) {
	svc, repo, _ := newTestService(5, 2)
	repo.failReads = true

	_, err := svc.Complete(context.Background(), "u1", "", "1", time.Now())
	if err == nil {
		t.Fatal("Complete() error = nil, want store error")
	}
	if repo.upserts != 0 {
		t.Errorf("upserts = %d, want 0 (no mutation on failed validation reads)", repo.upserts)
	}
}
