package models

import (
	"sort"
	"strconv"
	"strings"
)

// setKeyPrefix is the prefix of ordinal set keys: set1, set2, ...
const setKeyPrefix = "set"

// ValidSet reports whether a set counts as logged: at least one of weight or
// reps must be a non-empty, non-zero value.
func ValidSet(weight, reps string) bool {
	return nonZero(weight) || nonZero(reps)
}

func nonZero(v string) bool {
	return v != "" && v != "0"
}

// SetKey returns the ordinal key for the n-th set, 1-indexed.
func SetKey(n int) string {
	return setKeyPrefix + strconv.Itoa(n)
}

// setOrdinal parses the numeric suffix of an ordinal set key.
func setOrdinal(key string) (int, bool) {
	if !strings.HasPrefix(key, setKeyPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(setKeyPrefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetsToMap converts an ordered set list to the sparse ordinal-keyed storage
// shape. Keys are always contiguous and 1-based in list order, regardless of
// any gaps in a prior representation.
func SetsToMap(sets []WorkoutSet) map[string]WorkoutSet {
	m := make(map[string]WorkoutSet, len(sets))
	for i, s := range sets {
		m[SetKey(i+1)] = s
	}
	return m
}

// SetsFromMap converts the ordinal-keyed storage shape back to an ordered
// list, sorted by the numeric key suffix rather than map iteration order.
// Non-contiguous and out-of-order keys are tolerated; keys that are not of
// the form setN are ignored.
func SetsFromMap(m map[string]WorkoutSet) []WorkoutSet {
	type keyed struct {
		ord int
		set WorkoutSet
	}
	ordered := make([]keyed, 0, len(m))
	for k, s := range m {
		n, ok := setOrdinal(k)
		if !ok {
			continue
		}
		ordered = append(ordered, keyed{ord: n, set: s})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ord < ordered[j].ord })

	sets := make([]WorkoutSet, len(ordered))
	for i, k := range ordered {
		sets[i] = k.set
	}
	return sets
}
