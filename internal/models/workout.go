package models

import "time"

// ExerciseCategory is the fixed set of exercise categories.
type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryFlexibility ExerciseCategory = "flexibility"
	CategoryOther       ExerciseCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c ExerciseCategory) bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryFlexibility, CategoryOther:
		return true
	}
	return false
}

// Exercise is an exercise definition owned by a user. UsageCount is bumped
// each time a finalized workout includes the exercise.
type Exercise struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    ExerciseCategory `json:"category"`
	Description string           `json:"description"`
	CreatedAt   int64            `json:"createdAt"`
	UpdatedAt   int64            `json:"updatedAt"`
	UsageCount  int              `json:"usageCount"`
}

// WorkoutSet is one logged set as stored. Weight and reps stay raw strings:
// they are user input passed through unparsed.
type WorkoutSet struct {
	Weight  string `json:"weight"`
	Reps    string `json:"reps"`
	Remarks string `json:"remarks"`
}

// WorkoutExercise is one exercise inside a stored workout. Name and category
// are denormalized copies taken when the exercise was added to the workout.
// Sets is the sparse ordinal-keyed map: set1, set2, ...
type WorkoutExercise struct {
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Sets     map[string]WorkoutSet `json:"sets"`
}

// Workout is a stored workout record. The same shape backs two collections:
// finalized workout history and in-progress saved entries.
type Workout struct {
	ID         string                     `json:"id,omitempty"`
	Name       string                     `json:"name"`
	Date       string                     `json:"date"` // YYYY-MM-DD
	BodyWeight *float64                   `json:"bodyWeight"`
	Timestamp  int64                      `json:"timestamp"` // server-assigned, unix millis
	Exercises  map[string]WorkoutExercise `json:"exercises"`
}

// FormatDateYMD formats t as a YYYY-MM-DD calendar date.
func FormatDateYMD(t time.Time) string {
	return t.Format("2006-01-02")
}
