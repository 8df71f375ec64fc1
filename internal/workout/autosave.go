package workout

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// autosaveDelay is the quiet period between the last SaveSet and the write.
const autosaveDelay = 500 * time.Millisecond

// debouncer collapses rapid triggers into one callback after a quiet period.
// A new schedule cancels the pending one, so only the latest snapshot is ever
// written.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncer) schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// scheduleAutosave arms the debounced best-effort entry write. Failures are
// logged and never surfaced as blocking errors: autosave is a convenience,
// not a user-initiated commitment, and the next attempt carries a full fresh
// snapshot anyway.
func (e *Editor) scheduleAutosave() {
	e.autosave.schedule(e.autosaveDelay, func() {
		saved, err := e.saveEntrySnapshot(context.Background())
		if err != nil {
			e.log.Error("autosave failed", "error", err)
			return
		}
		if saved {
			e.notes.Notify("Auto-saved", NoteSuccess)
		}
	})
}

// SaveCurrentEntry persists the draft as an in-progress entry immediately,
// without debouncing. Used when the user leaves mid-workout.
func (e *Editor) SaveCurrentEntry(ctx context.Context) error {
	saved, err := e.saveEntrySnapshot(ctx)
	if err != nil {
		e.log.Error("saving entry failed", "error", err)
		return err
	}
	if saved {
		e.notes.Notify("Auto-saved", NoteSuccess)
	}
	return nil
}

// saveEntrySnapshot serializes the full draft — every set, valid or not —
// and upserts it into the entries collection. The first successful create
// remembers the assigned id so later writes update in place. Returns false
// when there is no authenticated user and nothing was written.
func (e *Editor) saveEntrySnapshot(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.userID == 0 {
		e.mu.Unlock()
		return false, nil
	}
	entry := entryPayload(e.draft)
	existing := e.draft.EditingEntryID
	e.mu.Unlock()

	id, err := e.gw.SaveEntry(ctx, e.userID, entry, existing)
	if err != nil {
		return false, err
	}

	if existing == "" {
		e.mu.Lock()
		if e.draft.EditingEntryID == "" {
			e.draft.EditingEntryID = id
		}
		e.mu.Unlock()
	}
	return true, nil
}

// entryPayload converts the draft to the stored shape keeping all sets,
// renumbered contiguously in list order.
func entryPayload(d Draft) models.Workout {
	exercises := make(map[string]models.WorkoutExercise, len(d.Exercises))
	for _, ex := range d.Exercises {
		sets := make([]models.WorkoutSet, len(ex.Sets))
		for i, s := range ex.Sets {
			sets[i] = models.WorkoutSet{Weight: s.Weight, Reps: s.Reps, Remarks: s.Remarks}
		}
		exercises[ex.ExerciseID] = models.WorkoutExercise{
			Name:     ex.Name,
			Category: ex.Category,
			Sets:     models.SetsToMap(sets),
		}
	}
	return models.Workout{
		Name:       d.Name,
		Date:       d.Date,
		BodyWeight: parseBodyWeight(d.BodyWeight),
		Exercises:  exercises,
	}
}

// parseBodyWeight parses the raw input at persistence time. Empty or
// unparseable input means unset.
func parseBodyWeight(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
