package workout

import (
	"context"

	"github.com/meltforce/repbook/internal/models"
)

// Gateway is the persistence surface the editor depends on. *storage.DB
// (server-local) and client.Client (remote via REST API) both satisfy it.
type Gateway interface {
	// SaveEntry upserts an in-progress entry. Creates when existingID is
	// empty, else overwrites in place. Returns the entry ID.
	SaveEntry(ctx context.Context, userID int, entry models.Workout, existingID string) (string, error)

	// DeleteEntry removes an in-progress entry. Deleting an absent entry is
	// not an error.
	DeleteEntry(ctx context.Context, userID int, entryID string) error

	// ListEntries returns all in-progress entries, newest first.
	ListEntries(ctx context.Context, userID int) ([]models.Workout, error)

	// SaveWorkout upserts a finalized workout. Same semantics as SaveEntry
	// against the workout history collection.
	SaveWorkout(ctx context.Context, userID int, w models.Workout, existingID string) (string, error)

	// IncrementExerciseUsage bumps the usage counter on an exercise record.
	IncrementExerciseUsage(ctx context.Context, userID int, exerciseID string) error
}

// NoteKind classifies a user-visible notification.
type NoteKind string

const (
	NoteSuccess NoteKind = "success"
	NoteError   NoteKind = "error"
	NoteInfo    NoteKind = "info"
)

// Notifier receives fire-and-forget user-visible notifications. Validation
// rejections and autosave confirmations go through here, never through error
// returns.
type Notifier interface {
	Notify(message string, kind NoteKind)
}

// ExerciseRef is the slice of an exercise definition the editor copies into
// the draft when an exercise is added. The copy is not re-synced if the
// definition changes later.
type ExerciseRef struct {
	ID       string
	Name     string
	Category string
}
