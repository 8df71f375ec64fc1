package workout

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// LoadSavedEntry replaces the draft with the contents of a persisted
// in-progress entry. The entry becomes the autosave target, so later
// autosaves update it in place. A pending autosave belongs to the draft
// being replaced and is cancelled.
func (e *Editor) LoadSavedEntry(entry models.Workout) {
	e.autosave.stop()
	e.mu.Lock()
	defer e.mu.Unlock()

	d := draftFromRecord(entry, e.now())
	d.EditingEntryID = entry.ID
	e.draft = d
}

// LoadWorkoutForEdit replaces the draft with a completed workout so it can be
// amended. Finalization will update the original record; no autosave target
// is remembered. A pending autosave belongs to the draft being replaced and
// is cancelled.
func (e *Editor) LoadWorkoutForEdit(w models.Workout) {
	e.autosave.stop()
	e.mu.Lock()
	defer e.mu.Unlock()

	d := draftFromRecord(w, e.now())
	d.EditingWorkoutID = w.ID
	e.draft = d
}

// ListSavedEntries fetches all in-progress entries for the user, newest
// first. Loading indication is the caller's concern.
func (e *Editor) ListSavedEntries(ctx context.Context) ([]models.Workout, error) {
	if e.userID == 0 {
		return nil, nil
	}
	return e.gw.ListEntries(ctx, e.userID)
}

// draftFromRecord maps a stored workout back into editable form. Sets come
// out ordered by their ordinal key suffix; a set counts as committed when it
// has any weight or reps recorded. An exercise whose stored set map is empty
// gets one synthesized empty set so the one-set-minimum invariant holds.
// Exercises are ordered by id since the stored map has no order of its own.
func draftFromRecord(w models.Workout, now time.Time) Draft {
	ids := make([]string, 0, len(w.Exercises))
	for id := range w.Exercises {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	exercises := make([]DraftExercise, 0, len(ids))
	for _, id := range ids {
		data := w.Exercises[id]

		var sets []DraftSet
		for _, s := range models.SetsFromMap(data.Sets) {
			set := newDraftSet()
			set.Weight = s.Weight
			set.Reps = s.Reps
			set.Remarks = s.Remarks
			set.Saved = s.Weight != "" || s.Reps != ""
			sets = append(sets, set)
		}
		if len(sets) == 0 {
			sets = append(sets, newDraftSet())
		}

		exercises = append(exercises, DraftExercise{
			ExerciseID: id,
			Name:       data.Name,
			Category:   data.Category,
			Sets:       sets,
		})
	}

	date := w.Date
	if date == "" {
		date = models.FormatDateYMD(now)
	}

	return Draft{
		Name:       w.Name,
		Date:       date,
		BodyWeight: formatBodyWeight(w.BodyWeight),
		Exercises:  exercises,
	}
}

// formatBodyWeight renders a stored body weight back to raw input form.
// Unset or zero means empty.
func formatBodyWeight(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
