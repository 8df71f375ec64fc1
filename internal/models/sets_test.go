package models

import (
	"reflect"
	"testing"
)

// TestValidSet verifies the logged-set rule: at least one of weight or reps
// must be non-empty and non-zero.
func TestValidSet(t *testing.T) {
	cases := []struct {
		weight string
		reps   string
		want   bool
	}{
		{"60", "10", true},
		{"60", "", true},
		{"", "10", true},
		{"0", "10", true},
		{"", "", false},
		{"0", "0", false},
		{"0", "", false},
		{"", "0", false},
		{"60.5", "0", true},
	}
	for _, tc := range cases {
		if got := ValidSet(tc.weight, tc.reps); got != tc.want {
			t.Errorf("ValidSet(%q, %q) = %v, want %v", tc.weight, tc.reps, got, tc.want)
		}
	}
}

// TestSetsToMap verifies contiguous 1-based keys in list order.
func TestSetsToMap(t *testing.T) {
	sets := []WorkoutSet{
		{Weight: "60", Reps: "10"},
		{Weight: "62.5", Reps: "8"},
		{Weight: "65", Reps: "6", Remarks: "PR"},
	}
	m := SetsToMap(sets)
	if len(m) != 3 {
		t.Fatalf("len = %d, want 3", len(m))
	}
	for i, s := range sets {
		got, ok := m[SetKey(i+1)]
		if !ok {
			t.Fatalf("missing key %s", SetKey(i+1))
		}
		if got != s {
			t.Errorf("%s = %+v, want %+v", SetKey(i+1), got, s)
		}
	}
}

// TestSetsFromMap_OutOfOrder verifies that sets are ordered by numeric key
// suffix, not map insertion or iteration order.
func TestSetsFromMap_OutOfOrder(t *testing.T) {
	m := map[string]WorkoutSet{
		"set2": {Weight: "62.5", Reps: "8"},
		"set1": {Weight: "60", Reps: "10"},
	}
	sets := SetsFromMap(m)
	if len(sets) != 2 {
		t.Fatalf("len = %d, want 2", len(sets))
	}
	if sets[0].Weight != "60" || sets[1].Weight != "62.5" {
		t.Errorf("order = [%s, %s], want [60, 62.5]", sets[0].Weight, sets[1].Weight)
	}
}

// TestSetsFromMap_SparseKeys verifies tolerance of non-contiguous ordinals
// and sorting beyond single digits (set10 after set2).
func TestSetsFromMap_SparseKeys(t *testing.T) {
	m := map[string]WorkoutSet{
		"set10": {Reps: "3"},
		"set2":  {Reps: "2"},
		"set7":  {Reps: "1"},
	}
	sets := SetsFromMap(m)
	want := []string{"2", "1", "3"}
	if len(sets) != len(want) {
		t.Fatalf("len = %d, want %d", len(sets), len(want))
	}
	for i, reps := range want {
		if sets[i].Reps != reps {
			t.Errorf("sets[%d].Reps = %q, want %q", i, sets[i].Reps, reps)
		}
	}
}

// TestSetsFromMap_IgnoresMalformedKeys verifies keys that are not setN are
// dropped rather than breaking the conversion.
func TestSetsFromMap_IgnoresMalformedKeys(t *testing.T) {
	m := map[string]WorkoutSet{
		"set1":  {Reps: "5"},
		"bogus": {Reps: "9"},
		"setX":  {Reps: "9"},
	}
	sets := SetsFromMap(m)
	if len(sets) != 1 || sets[0].Reps != "5" {
		t.Errorf("sets = %+v, want single set with reps 5", sets)
	}
}

// TestSetMapRoundTrip verifies SetsFromMap(SetsToMap(list)) == list.
func TestSetMapRoundTrip(t *testing.T) {
	sets := []WorkoutSet{
		{Weight: "100", Reps: "5", Remarks: "belt"},
		{Weight: "", Reps: "12"},
		{Weight: "40", Reps: ""},
	}
	got := SetsFromMap(SetsToMap(sets))
	if !reflect.DeepEqual(got, sets) {
		t.Errorf("round trip = %+v, want %+v", got, sets)
	}
}

// TestSetsToMap_Renumbers verifies converting a list built from a gappy map
// yields contiguous keys again.
func TestSetsToMap_Renumbers(t *testing.T) {
	gappy := map[string]WorkoutSet{
		"set3": {Reps: "8"},
		"set5": {Reps: "6"},
	}
	m := SetsToMap(SetsFromMap(gappy))
	if _, ok := m["set1"]; !ok {
		t.Errorf("expected renumbered key set1, got %v", keysOf(m))
	}
	if _, ok := m["set2"]; !ok {
		t.Errorf("expected renumbered key set2, got %v", keysOf(m))
	}
	if len(m) != 2 {
		t.Errorf("len = %d, want 2", len(m))
	}
}

func keysOf(m map[string]WorkoutSet) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
