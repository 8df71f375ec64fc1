package workout

import (
	"context"
	"testing"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// historyRecord builds a stored workout with one bench exercise holding a
// single valid set.
func historyRecord(id string) models.Workout {
	bw := 80.0
	return models.Workout{
		ID:         id,
		Name:       "Push Day",
		Date:       "2026-08-20",
		BodyWeight: &bw,
		Exercises: map[string]models.WorkoutExercise{
			"ex-bench": {
				Name:     "Bench Press",
				Category: "strength",
				Sets: map[string]models.WorkoutSet{
					"set1": {Weight: "60", Reps: "10"},
				},
			},
		},
	}
}

// TestLoadSavedEntry verifies hydration maps the stored shape back to an
// editable draft and remembers the entry as the autosave target.
func TestLoadSavedEntry(t *testing.T) {
	e, _, _ := newTestEditor(t)
	e.LoadSavedEntry(historyRecord("entry-1"))

	d := e.State()
	if d.Name != "Push Day" || d.Date != "2026-08-20" || d.BodyWeight != "80" {
		t.Errorf("draft metadata = %+v, want hydrated values", d)
	}
	if d.EditingEntryID != "entry-1" {
		t.Errorf("EditingEntryID = %q, want entry-1", d.EditingEntryID)
	}
	if d.EditingWorkoutID != "" {
		t.Errorf("EditingWorkoutID = %q, want empty", d.EditingWorkoutID)
	}
	if len(d.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(d.Exercises))
	}
	s := d.Exercises[0].Sets[0]
	if s.Weight != "60" || s.Reps != "10" || !s.Saved {
		t.Errorf("set = %+v, want saved 60x10", s)
	}
	if s.ID == "" {
		t.Error("hydrated sets need fresh local ids")
	}
}

// TestLoadSavedEntryOrdersSets verifies sets stored out of order come back
// sorted by ordinal suffix.
func TestLoadSavedEntryOrdersSets(t *testing.T) {
	e, _, _ := newTestEditor(t)
	entry := historyRecord("entry-1")
	entry.Exercises["ex-bench"] = models.WorkoutExercise{
		Name:     "Bench Press",
		Category: "strength",
		Sets: map[string]models.WorkoutSet{
			"set2": {Weight: "62.5", Reps: "8"},
			"set1": {Weight: "60", Reps: "10"},
		},
	}
	e.LoadSavedEntry(entry)

	sets := e.State().Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	if sets[0].Weight != "60" || sets[1].Weight != "62.5" {
		t.Errorf("order = [%s, %s], want [60, 62.5]", sets[0].Weight, sets[1].Weight)
	}
}

// TestLoadSavedEntryEmptySets verifies an exercise with no stored sets gets
// exactly one synthesized empty, unsaved set.
func TestLoadSavedEntryEmptySets(t *testing.T) {
	e, _, _ := newTestEditor(t)
	entry := historyRecord("entry-1")
	entry.Exercises["ex-bench"] = models.WorkoutExercise{Name: "Bench Press", Category: "strength"}
	e.LoadSavedEntry(entry)

	sets := e.State().Exercises[0].Sets
	if len(sets) != 1 {
		t.Fatalf("sets = %d, want 1 synthesized set", len(sets))
	}
	if sets[0].Saved || sets[0].Weight != "" || sets[0].Reps != "" {
		t.Errorf("synthesized set = %+v, want empty and unsaved", sets[0])
	}
}

// TestLoadSavedEntrySavedFlag verifies a set counts as committed when weight
// or reps are present, even "0".
func TestLoadSavedEntrySavedFlag(t *testing.T) {
	e, _, _ := newTestEditor(t)
	entry := historyRecord("entry-1")
	entry.Exercises["ex-bench"] = models.WorkoutExercise{
		Name: "Bench Press",
		Sets: map[string]models.WorkoutSet{
			"set1": {Weight: "0", Reps: ""},
			"set2": {Remarks: "skipped"},
		},
	}
	e.LoadSavedEntry(entry)

	sets := e.State().Exercises[0].Sets
	if !sets[0].Saved {
		t.Error("set with weight present should hydrate as saved")
	}
	if sets[1].Saved {
		t.Error("set with neither weight nor reps should hydrate as unsaved")
	}
}

// TestLoadWorkoutForEdit verifies edit-mode hydration targets the original
// workout record and remembers no autosave entry.
func TestLoadWorkoutForEdit(t *testing.T) {
	e, _, _ := newTestEditor(t)
	e.LoadWorkoutForEdit(historyRecord("w-1"))

	d := e.State()
	if d.EditingWorkoutID != "w-1" {
		t.Errorf("EditingWorkoutID = %q, want w-1", d.EditingWorkoutID)
	}
	if d.EditingEntryID != "" {
		t.Errorf("EditingEntryID = %q, want empty", d.EditingEntryID)
	}
	if d.Active {
		t.Error("hydrated draft must not be active")
	}
}

// TestLoadAutosaveTargetsLoadedEntry verifies autosaving after loading an
// entry updates that entry rather than creating a new one.
func TestLoadAutosaveTargetsLoadedEntry(t *testing.T) {
	e, gw, _ := newTestEditor(t)
	gw.entries["entry-1"] = models.Workout{}

	e.LoadSavedEntry(historyRecord("entry-1"))
	setID := e.State().Exercises[0].Sets[0].ID
	e.SaveSet("ex-bench", setID)
	waitForAutosave(t, gw)

	if len(gw.entries) != 1 {
		t.Errorf("entries = %d, want 1 (autosave must target the loaded entry)", len(gw.entries))
	}
	if gw.entries["entry-1"].Name != "Push Day" {
		t.Errorf("entry name = %q, want Push Day", gw.entries["entry-1"].Name)
	}
}

// TestLoadWorkoutForEditCancelsPendingAutosave verifies a SaveSet just before
// loading a workout for edit does not write the loaded workout into the
// entries collection or attach an autosave target to the edit draft.
func TestLoadWorkoutForEditCancelsPendingAutosave(t *testing.T) {
	e, gw, _ := newTestEditor(t)
	e.autosaveDelay = 50 * time.Millisecond

	e.AddExercise(benchRef())
	setID := e.State().Exercises[0].Sets[0].ID
	w := "60"
	e.UpdateSet("ex-bench", setID, SetPatch{Weight: &w})
	e.SaveSet("ex-bench", setID) // autosave pending

	e.LoadWorkoutForEdit(historyRecord("w-1"))

	time.Sleep(3 * e.autosaveDelay)
	if calls, _ := gw.calls(); calls != 0 {
		t.Errorf("entry writes = %d, want 0 (pending autosave must be cancelled)", calls)
	}
	if len(gw.entries) != 0 {
		t.Errorf("persisted entries = %d, want 0", len(gw.entries))
	}
	if got := e.State().EditingEntryID; got != "" {
		t.Errorf("EditingEntryID = %q, want empty on an edit draft", got)
	}
}

// TestLoadSavedEntryCancelsPendingAutosave verifies a pending autosave from
// the previous draft does not fire after a different entry is loaded.
func TestLoadSavedEntryCancelsPendingAutosave(t *testing.T) {
	e, gw, _ := newTestEditor(t)
	e.autosaveDelay = 50 * time.Millisecond
	gw.entries["entry-1"] = models.Workout{}

	e.AddExercise(squatRef())
	setID := e.State().Exercises[0].Sets[0].ID
	w := "100"
	e.UpdateSet("ex-squat", setID, SetPatch{Weight: &w})
	e.SaveSet("ex-squat", setID) // autosave pending

	e.LoadSavedEntry(historyRecord("entry-1"))

	time.Sleep(3 * e.autosaveDelay)
	if calls, _ := gw.calls(); calls != 0 {
		t.Errorf("entry writes = %d, want 0 (pending autosave must be cancelled)", calls)
	}
	if len(gw.entries) != 1 {
		t.Errorf("persisted entries = %d, want 1 (no extra entry created)", len(gw.entries))
	}
}

// TestLoadSavedEntryDefaultsDate verifies a record with no date hydrates to
// today.
func TestLoadSavedEntryDefaultsDate(t *testing.T) {
	e, _, _ := newTestEditor(t)
	entry := historyRecord("entry-1")
	entry.Date = ""
	entry.BodyWeight = nil
	e.LoadSavedEntry(entry)

	d := e.State()
	if d.Date == "" {
		t.Error("missing date should default to today")
	}
	if d.BodyWeight != "" {
		t.Errorf("bodyWeight = %q, want empty for nil", d.BodyWeight)
	}
}

func TestListSavedEntries(t *testing.T) {
	e, gw, _ := newTestEditor(t)
	gw.entries["entry-1"] = models.Workout{Name: "A"}
	gw.entries["entry-2"] = models.Workout{Name: "B"}

	entries, err := e.ListSavedEntries(context.Background())
	if err != nil {
		t.Fatalf("ListSavedEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}

func TestListSavedEntriesNoUser(t *testing.T) {
	e, gw, _ := newTestEditor(t)
	e.userID = 0
	gw.entries["entry-1"] = models.Workout{}

	entries, err := e.ListSavedEntries(context.Background())
	if err != nil || entries != nil {
		t.Errorf("no-user list = (%v, %v), want (nil, nil)", entries, err)
	}
}
