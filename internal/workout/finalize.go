package workout

import (
	"context"

	"github.com/meltforce/repbook/internal/models"
)

// EndWorkout finalizes the draft into a permanent workout record. Returns
// true on success so the caller can sequence timer shutdown and UI reset.
//
// Preconditions, each rejected with its own notification and no effect: at
// least one exercise, a date, and at least one valid set anywhere. The
// persisted payload keeps only valid sets, renumbered per exercise; exercises
// left with no valid set are dropped entirely.
//
// The sequence — workout write, per-exercise usage increments, backing entry
// delete — is not atomic. Increment failures are logged and skipped; a failed
// workout write or entry delete surfaces as a generic failure and leaves the
// draft intact for retry.
func (e *Editor) EndWorkout(ctx context.Context) bool {
	e.mu.Lock()
	if e.userID == 0 {
		e.mu.Unlock()
		return false
	}

	if len(e.draft.Exercises) == 0 {
		e.mu.Unlock()
		e.notes.Notify("Add at least one exercise", NoteError)
		return false
	}
	if e.draft.Date == "" {
		e.mu.Unlock()
		e.notes.Notify("Please set a workout date", NoteError)
		return false
	}
	payload, included := workoutPayload(e.draft)
	if len(included) == 0 {
		e.mu.Unlock()
		e.notes.Notify("Add at least one set with weight or reps", NoteError)
		return false
	}

	editingID := e.draft.EditingWorkoutID
	entryID := e.draft.EditingEntryID
	e.mu.Unlock()

	if _, err := e.gw.SaveWorkout(ctx, e.userID, payload, editingID); err != nil {
		e.log.Error("saving workout failed", "error", err)
		e.notes.Notify("Failed to save workout", NoteError)
		return false
	}

	// Best effort, one call per exercise in draft order. A failed increment
	// only desynchronizes a usage counter; the workout itself is saved.
	for _, exerciseID := range included {
		if err := e.gw.IncrementExerciseUsage(ctx, e.userID, exerciseID); err != nil {
			e.log.Error("usage increment failed", "exercise_id", exerciseID, "error", err)
		}
	}

	// The draft is promoted to a finalized workout; it must not linger as an
	// in-progress entry too.
	if entryID != "" {
		if err := e.gw.DeleteEntry(ctx, e.userID, entryID); err != nil {
			e.log.Error("deleting entry failed", "entry_id", entryID, "error", err)
			e.notes.Notify("Failed to save workout", NoteError)
			return false
		}
	}

	e.notes.Notify("Workout saved!", NoteSuccess)

	e.autosave.stop()
	e.mu.Lock()
	e.draft = emptyDraft(e.now())
	e.mu.Unlock()
	return true
}

// workoutPayload converts the draft keeping only valid sets. Returns the
// payload and the ids of the exercises that made it in, in draft order.
func workoutPayload(d Draft) (models.Workout, []string) {
	exercises := make(map[string]models.WorkoutExercise)
	var included []string

	for _, ex := range d.Exercises {
		var sets []models.WorkoutSet
		for _, s := range ex.Sets {
			if s.valid() {
				sets = append(sets, models.WorkoutSet{Weight: s.Weight, Reps: s.Reps, Remarks: s.Remarks})
			}
		}
		if len(sets) == 0 {
			continue
		}
		exercises[ex.ExerciseID] = models.WorkoutExercise{
			Name:     ex.Name,
			Category: ex.Category,
			Sets:     models.SetsToMap(sets),
		}
		included = append(included, ex.ExerciseID)
	}

	return models.Workout{
		Name:       d.Name,
		Date:       d.Date,
		BodyWeight: parseBodyWeight(d.BodyWeight),
		Exercises:  exercises,
	}, included
}
