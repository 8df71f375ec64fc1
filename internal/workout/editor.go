package workout

import (
	"log/slog"
	"sync"
	"time"
)

// Editor owns the in-progress workout draft and every mutation of it. All
// actions are synchronous and guarded by a single mutex: there is exactly one
// writer (the current session) and one draft instance. The only asynchronous
// work is the debounced autosave write, which snapshots state under the lock
// and performs I/O outside it.
type Editor struct {
	mu    sync.Mutex
	draft Draft

	userID int
	gw     Gateway
	notes  Notifier
	log    *slog.Logger

	autosave      debouncer
	autosaveDelay time.Duration
	now           func() time.Time
}

// New creates an Editor for the given user. A userID of 0 means no
// authenticated user: every gateway-touching operation becomes a no-op.
func New(userID int, gw Gateway, notes Notifier, log *slog.Logger) *Editor {
	e := &Editor{
		userID:        userID,
		gw:            gw,
		notes:         notes,
		log:           log,
		autosaveDelay: autosaveDelay,
		now:           time.Now,
	}
	e.draft = emptyDraft(e.now())
	return e
}

// State returns a deep copy of the current draft for rendering.
func (e *Editor) State() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

// SetName replaces the workout label.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Name = name
}

// SetDate replaces the workout date (YYYY-MM-DD).
func (e *Editor) SetDate(ymd string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Date = ymd
}

// SetBodyWeight replaces the raw body weight input.
func (e *Editor) SetBodyWeight(weight string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.BodyWeight = weight
}

// AddExercise appends an exercise to the draft with a single empty set. A
// no-op if the exercise is already present. Every previously added exercise
// is collapsed so the new one stays in focus.
func (e *Editor) AddExercise(ref ExerciseRef) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ex := range e.draft.Exercises {
		if ex.ExerciseID == ref.ID {
			return
		}
	}
	for i := range e.draft.Exercises {
		e.draft.Exercises[i].Collapsed = true
	}
	e.draft.Exercises = append(e.draft.Exercises, DraftExercise{
		ExerciseID: ref.ID,
		Name:       ref.Name,
		Category:   ref.Category,
		Sets:       []DraftSet{newDraftSet()},
	})
}

// RemoveExercise removes an exercise from the draft.
func (e *Editor) RemoveExercise(exerciseID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.draft.Exercises[:0]
	for _, ex := range e.draft.Exercises {
		if ex.ExerciseID != exerciseID {
			kept = append(kept, ex)
		}
	}
	e.draft.Exercises = kept
}

// AddSet appends an empty unsaved set to the named exercise. A no-op if the
// exercise is not in the draft.
func (e *Editor) AddSet(exerciseID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.draft.Exercises {
		if e.draft.Exercises[i].ExerciseID == exerciseID {
			e.draft.Exercises[i].Sets = append(e.draft.Exercises[i].Sets, newDraftSet())
			return
		}
	}
}

// SetPatch carries the fields UpdateSet merges into a set. Nil fields are
// left untouched.
type SetPatch struct {
	Weight  *string
	Reps    *string
	Remarks *string
}

// UpdateSet merges patch fields into the matching set. Saved is never
// changed here.
func (e *Editor) UpdateSet(exerciseID, setID string, patch SetPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()

	set := e.findSet(exerciseID, setID)
	if set == nil {
		return
	}
	if patch.Weight != nil {
		set.Weight = *patch.Weight
	}
	if patch.Reps != nil {
		set.Reps = *patch.Reps
	}
	if patch.Remarks != nil {
		set.Remarks = *patch.Remarks
	}
}

// SaveSet commits a set. The set must be valid (weight or reps present and
// non-zero); otherwise the state is untouched and an error notification is
// emitted. A successful save schedules a debounced autosave — the only
// mutation that does.
func (e *Editor) SaveSet(exerciseID, setID string) {
	e.mu.Lock()

	set := e.findSet(exerciseID, setID)
	if set == nil || !set.valid() {
		e.mu.Unlock()
		e.notes.Notify("Please enter at least weight or reps", NoteError)
		return
	}
	set.Saved = true
	e.mu.Unlock()

	e.scheduleAutosave()
}

// DeleteSet removes a set. The last remaining set of an exercise cannot be
// deleted: the state is untouched and an error notification is emitted.
func (e *Editor) DeleteSet(exerciseID, setID string) {
	e.mu.Lock()

	var ex *DraftExercise
	for i := range e.draft.Exercises {
		if e.draft.Exercises[i].ExerciseID == exerciseID {
			ex = &e.draft.Exercises[i]
			break
		}
	}
	if ex == nil || len(ex.Sets) <= 1 {
		e.mu.Unlock()
		e.notes.Notify("Cannot delete the last set", NoteError)
		return
	}

	kept := ex.Sets[:0]
	for _, s := range ex.Sets {
		if s.ID != setID {
			kept = append(kept, s)
		}
	}
	ex.Sets = kept
	e.mu.Unlock()
}

// ToggleExerciseCollapse flips the presentation-only collapsed flag.
func (e *Editor) ToggleExerciseCollapse(exerciseID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.draft.Exercises {
		if e.draft.Exercises[i].ExerciseID == exerciseID {
			e.draft.Exercises[i].Collapsed = !e.draft.Exercises[i].Collapsed
		}
	}
}

// ToggleExerciseHistory flips the flag gating the caller's lazy prior-
// performance fetch. The fetch itself is the caller's concern.
func (e *Editor) ToggleExerciseHistory(exerciseID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.draft.Exercises {
		if e.draft.Exercises[i].ExerciseID == exerciseID {
			e.draft.Exercises[i].ShowHistory = !e.draft.Exercises[i].ShowHistory
		}
	}
}

// StartWorkout marks the session active. Pure flag flip; the caller pairs it
// with starting the timer.
func (e *Editor) StartWorkout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Active = true
}

// ResetWorkout discards the draft and returns to the empty initial state. Any
// persisted backing entry is left alone; only the in-memory link to it is
// cleared.
func (e *Editor) ResetWorkout() {
	e.autosave.stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = emptyDraft(e.now())
}

// RestoreDraft replaces the current draft wholesale. Used to resume a
// locally persisted session.
func (e *Editor) RestoreDraft(d Draft) {
	e.autosave.stop()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = d.clone()
}

// findSet returns a pointer into the draft; callers must hold e.mu.
func (e *Editor) findSet(exerciseID, setID string) *DraftSet {
	for i := range e.draft.Exercises {
		if e.draft.Exercises[i].ExerciseID != exerciseID {
			continue
		}
		sets := e.draft.Exercises[i].Sets
		for j := range sets {
			if sets[j].ID == setID {
				return &sets[j]
			}
		}
	}
	return nil
}
