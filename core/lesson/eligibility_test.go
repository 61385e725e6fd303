package lesson

import (
	"fmt"
	"testing"
	"time"
)

func testCatalog(size int) *Catalog {
	lessons := make([]Descriptor, 0, size)
	for i := 1; i <= size; i++ {
		part := "part-1"
		if i > size/2 {
			part = "part-2"
		}
		lessons = append(lessons, Descriptor{Title: fmt.Sprintf("Lesson %d", i), Part: part})
	}
	return NewCatalog(lessons)
}

func completed(userID string, at time.Time, indexes ...int) []Completion {
	comps := make([]Completion, 0, len(indexes))
	for _, i := range indexes {
		comps = append(comps, Completion{
			UserID:    userID,
			LessonID:  DeriveID(i),
			Completed: true,
			UpdatedAt: at,
		})
	}
	return comps
}

func TestComputeSnapshotEmptyCatalog(t *testing.T) {
	snap := ComputeSnapshot(NewCatalog(nil), nil, 2, time.Now())

	if len(snap.UnlockedIDs) != 0 {
		t.Errorf("UnlockedIDs = %v, want empty", snap.UnlockedIDs)
	}
	if snap.NextAvailableID != "" {
		t.Errorf("NextAvailableID = %q, want empty", snap.NextAvailableID)
	}
	if snap.DailyQuotaSpent {
		t.Error("DailyQuotaSpent = true, want false")
	}
}

func TestComputeSnapshotEndToEnd(t *testing.T) {
	// 10 lessons, starter window 3, completed {1,2,3,5}: 4 is the drip target
	// and 5 stays accessible as an out-of-order completion.
	cat := testCatalog(10)
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	snap := ComputeSnapshot(cat, completed("u1", yesterday, 1, 2, 3, 5), 3, now)

	if want := DeriveID(4); snap.NextAvailableID != want {
		t.Errorf("NextAvailableID = %q, want %q", snap.NextAvailableID, want)
	}
	for i := 1; i <= 5; i++ {
		if !snap.Accessible(DeriveID(i)) {
			t.Errorf("lesson %d not accessible, want accessible", i)
		}
	}
	for i := 6; i <= 10; i++ {
		if snap.Accessible(DeriveID(i)) {
			t.Errorf("lesson %d accessible, want locked", i)
		}
	}
}

func TestComputeSnapshotStarterExemption(t *testing.T) {
	cat := testCatalog(5)
	now := time.Now()

	// starter lessons are always unlocked regardless of completion state
	snap := ComputeSnapshot(cat, nil, 2, now)
	for i := 1; i <= 2; i++ {
		if !snap.Accessible(DeriveID(i)) {
			t.Errorf("starter lesson %d not accessible", i)
		}
	}

	// completing starter lessons today never spends the quota
	snap = ComputeSnapshot(cat, completed("u1", now, 1, 2), 2, now)
	if snap.DailyQuotaSpent {
		t.Error("DailyQuotaSpent = true after starter completions, want false")
	}

	// completing a non-starter lesson today does
	snap = ComputeSnapshot(cat, completed("u1", now, 3), 2, now)
	if !snap.DailyQuotaSpent {
		t.Error("DailyQuotaSpent = false after non-starter completion today, want true")
	}

	// ...but not on the next calendar day
	snap = ComputeSnapshot(cat, completed("u1", now, 3), 2, now.Add(24*time.Hour))
	if snap.DailyQuotaSpent {
		t.Error("DailyQuotaSpent = true on the next day, want false")
	}
}

func TestComputeSnapshotSingleDrip(t *testing.T) {
	cat := testCatalog(8)
	now := time.Now()

	for _, comps := range [][]Completion{
		nil,
		completed("u1", now.Add(-48*time.Hour), 3),
		completed("u1", now.Add(-48*time.Hour), 1, 2, 3, 6),
	} {
		snap := ComputeSnapshot(cat, comps, 2, now)

		var incompleteUnlocked int
		for _, l := range cat.All() {
			if l.Index > 2 && snap.Accessible(l.ID) && !snap.Completed(l.ID) {
				incompleteUnlocked++
			}
		}
		if incompleteUnlocked != 1 {
			t.Errorf("%d incomplete non-starter lessons unlocked, want exactly 1", incompleteUnlocked)
		}
	}
}

func TestComputeSnapshotZeroStarterWindow(t *testing.T) {
	cat := testCatalog(4)
	now := time.Now()

	// no lesson is exempt; drip still unlocks exactly one
	snap := ComputeSnapshot(cat, nil, 0, now)
	if want := DeriveID(1); snap.NextAvailableID != want {
		t.Errorf("NextAvailableID = %q, want %q", snap.NextAvailableID, want)
	}
	if !snap.Accessible(DeriveID(1)) || snap.Accessible(DeriveID(2)) {
		t.Error("want only lesson 1 accessible with zero starter window")
	}

	// even lesson 1 spends the quota
	snap = ComputeSnapshot(cat, completed("u1", now, 1), 0, now)
	if !snap.DailyQuotaSpent {
		t.Error("DailyQuotaSpent = false, want true with zero starter window")
	}
}

func TestComputeSnapshotAllComplete(t *testing.T) {
	cat := testCatalog(3)
	now := time.Now()

	snap := ComputeSnapshot(cat, completed("u1", now.Add(-48*time.Hour), 1, 2, 3), 1, now)
	if want := DeriveID(1); snap.NextAvailableID != want {
		t.Errorf("NextAvailableID = %q, want first lesson %q", snap.NextAvailableID, want)
	}
}

func TestComputeSnapshotMonotonicUnlock(t *testing.T) {
	cat := testCatalog(10)
	now := time.Now()
	at := now.Add(-72 * time.Hour)

	before := ComputeSnapshot(cat, completed("u1", at, 1, 3), 2, now)
	after := ComputeSnapshot(cat, completed("u1", at, 1, 3, 4), 2, now)

	for id := range before.UnlockedIDs {
		if !after.UnlockedIDs[id] {
			t.Errorf("lesson %s was unlocked and became locked after more completions", id)
		}
	}
}

func TestComputeSnapshotMixedIdentifierFormats(t *testing.T) {
	// historical numeric-index records must match catalog entries that
	// migrated to authored UUIDs
	cat := NewCatalog([]Descriptor{
		{Title: "Intro"},
		{ID: "6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21", Title: "Prompts"},
		{Title: "Context"},
	})
	now := time.Now()
	comps := []Completion{
		{UserID: "u1", LessonID: "1", Completed: true, UpdatedAt: now.Add(-48 * time.Hour)},
		{UserID: "u1", LessonID: DeriveID(2), Completed: true, UpdatedAt: now.Add(-48 * time.Hour)},
	}

	snap := ComputeSnapshot(cat, comps, 1, now)
	if !snap.Completed("6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21") {
		t.Error("lesson 2 (authored UUID) not marked completed from legacy index record")
	}
	if want := DeriveID(3); snap.NextAvailableID != want {
		t.Errorf("NextAvailableID = %q, want %q", snap.NextAvailableID, want)
	}
}
