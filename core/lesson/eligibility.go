package lesson

import "time"

type (
	// Completion is one persisted completion record; at most one exists per
	// (user, lesson) pair.
	Completion struct {
		UserID    string    `json:"user_id"`
		LessonID  string    `json:"lesson_id"` // canonical identifier
		Completed bool      `json:"completed"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Snapshot is the derived eligibility state for one user at one point in
	// time. It is recomputed per request and never persisted.
	Snapshot struct {
		CompletedIDs      map[string]bool
		UnlockedIDs       map[string]bool
		NextAvailableID   string // "" only when the catalog is empty
		DailyQuotaSpent   bool
		StarterWindowSize int
	}
)

// ComputeSnapshot derives the eligibility state from the catalog, a user's
// completion records and the starter window size.
//
// Unlocked is the union of every completed lesson, every lesson inside the
// starter window and the single first incomplete lesson beyond the window
// (the drip target). Only that one not-yet-completed lesson beyond the
// window is ever unlocked at a time.
//
// The daily quota is spent when any completion of a lesson beyond the
// starter window happened on the same local calendar day as now. Starter
// lessons never spend the quota.
func ComputeSnapshot(cat *Catalog, completions []Completion, starterWindowSize int, now time.Time) Snapshot {
	snap := Snapshot{
		CompletedIDs:      make(map[string]bool),
		UnlockedIDs:       make(map[string]bool),
		StarterWindowSize: starterWindowSize,
	}

	for _, rec := range completions {
		if !rec.Completed {
			continue
		}
		id := Normalize(rec.LessonID)
		idx := cat.IndexOf(id)
		if idx > 0 {
			// resolve historical identifiers to the catalog's canonical id
			if l, ok := cat.ByIndex(idx); ok {
				id = l.ID
			}
		}
		snap.CompletedIDs[id] = true
		snap.UnlockedIDs[id] = true

		// daily completion quota; starter lessons are exempt
		if idx > starterWindowSize && sameLocalDay(rec.UpdatedAt, now) {
			snap.DailyQuotaSpent = true
		}
	}

	for _, l := range cat.All() {
		if l.Index <= starterWindowSize {
			snap.UnlockedIDs[l.ID] = true
		}
	}

	// the drip target: first incomplete lesson beyond the starter window
	for _, l := range cat.All() {
		if l.Index <= starterWindowSize {
			continue
		}
		if !snap.CompletedIDs[l.ID] {
			snap.NextAvailableID = l.ID
			snap.UnlockedIDs[l.ID] = true
			break
		}
	}
	if snap.NextAvailableID == "" && cat.Len() > 0 {
		// all complete: point back at the catalog's first lesson
		if first, ok := cat.ByIndex(1); ok {
			snap.NextAvailableID = first.ID
		}
	}

	return snap
}

// Accessible reports whether the lesson may be viewed: completed and starter
// lessons stay viewable forever, plus the single drip target.
func (snap Snapshot) Accessible(id string) bool {
	return snap.UnlockedIDs[Normalize(id)]
}

// Completed reports whether the lesson has a completion record.
func (snap Snapshot) Completed(id string) bool {
	return snap.CompletedIDs[Normalize(id)]
}

func sameLocalDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
