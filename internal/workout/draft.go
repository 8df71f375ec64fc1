package workout

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
)

// Draft is the in-progress workout being edited. It is mutated only through
// Editor actions and serialized to the models.Workout shape on save.
type Draft struct {
	Name       string
	Date       string // YYYY-MM-DD
	BodyWeight string // raw input, parsed to float only at persistence time
	Exercises  []DraftExercise
	Active     bool

	// EditingWorkoutID is set when editing a previously completed workout;
	// finalization then updates that record instead of creating a new one.
	EditingWorkoutID string

	// EditingEntryID is the id of the persisted in-progress entry backing
	// this draft, when one exists. It is the autosave target.
	EditingEntryID string
}

// DraftExercise is one exercise in the draft, holding a denormalized copy of
// the exercise definition plus presentation flags.
type DraftExercise struct {
	ExerciseID  string
	Name        string
	Category    string
	Sets        []DraftSet
	Collapsed   bool
	ShowHistory bool
}

// DraftSet is one set mid-editing. ID is a local identity for the UI and is
// never persisted. Saved distinguishes a committed set from one still being
// typed.
type DraftSet struct {
	ID      string
	Weight  string
	Reps    string
	Remarks string
	Saved   bool
}

func newDraftSet() DraftSet {
	return DraftSet{ID: uuid.NewString()}
}

// valid reports whether the set may be committed: weight or reps present and
// non-zero.
func (s DraftSet) valid() bool {
	return models.ValidSet(s.Weight, s.Reps)
}

func emptyDraft(now time.Time) Draft {
	return Draft{Date: models.FormatDateYMD(now)}
}

// clone returns a deep copy so callers can render state without racing the
// editor.
func (d Draft) clone() Draft {
	out := d
	out.Exercises = make([]DraftExercise, len(d.Exercises))
	for i, ex := range d.Exercises {
		cp := ex
		cp.Sets = make([]DraftSet, len(ex.Sets))
		copy(cp.Sets, ex.Sets)
		out.Exercises[i] = cp
	}
	return out
}
