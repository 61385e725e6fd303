package activity

import (
	"context"
	"time"
)

// Event types recorded by the app.
const (
	EventLessonCompleted = "lesson.completed"
)

// NoTeamID is the sentinel bucket entries are attributed to when the acting
// user has no team.
const NoTeamID = "no-team"

type (
	// Entry is one activity-log record. Recording is fire-and-forget from the
	// caller's perspective: a failed write must never fail the primary
	// operation it documents.
	Entry struct {
		ID        string                 `json:"id"`
		TeamID    string                 `json:"team_id"`
		UserID    string                 `json:"user_id"`
		Event     string                 `json:"event"`
		Metadata  map[string]interface{} `json:"metadata,omitempty"`
		CreatedAt time.Time              `json:"created_at"` // UTC
	}

	Repository interface {
		Record(ctx context.Context, entry Entry) error
	}
)

// New builds an entry attributed to teamID, falling back to the no-team
// bucket when the user has none.
func New(teamID, userID, event string, metadata map[string]interface{}) Entry {
	if teamID == "" {
		teamID = NoTeamID
	}
	return Entry{
		TeamID:    teamID,
		UserID:    userID,
		Event:     event,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
