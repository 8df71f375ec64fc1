package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/repbook/internal/models"
)

// workoutHistoryLimit caps the default history read. Progress views only look
// at recent sessions; full exports go through ListAllWorkouts.
const workoutHistoryLimit = 50

// SaveWorkout upserts a finalized workout. Creates a new record when
// existingID is empty, else overwrites that record in place. The update arm
// only touches rows the user owns; an id colliding with another user's
// workout comes back as ErrNotFound. Returns the workout ID.
func (db *DB) SaveWorkout(ctx context.Context, userID int, w models.Workout, existingID string) (string, error) {
	id := existingID
	if id == "" {
		id = uuid.NewString()
	}
	doc, err := marshalExercises(w.Exercises)
	if err != nil {
		return "", err
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, user_id, name, workout_date, body_weight, exercises)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
			SET name = $3, workout_date = $4, body_weight = $5, exercises = $6, saved_at = NOW()
			WHERE workouts.user_id = $2`,
		id, userID, w.Name, w.Date, w.BodyWeight, doc)
	if err != nil {
		return "", fmt.Errorf("upserting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

// GetWorkout retrieves a single workout by ID. Returns ErrNotFound when it
// does not exist for this user.
func (db *DB) GetWorkout(ctx context.Context, userID int, id string) (models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, workout_date, body_weight, saved_at, exercises
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	w, err := scanWorkoutRecord(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Workout{}, ErrNotFound
		}
		return models.Workout{}, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// DeleteWorkout removes a workout from history. Returns ErrNotFound when it
// does not exist for this user.
func (db *DB) DeleteWorkout(ctx context.Context, userID int, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWorkoutHistory returns the user's most recent workouts, newest first,
// capped at workoutHistoryLimit.
func (db *DB) ListWorkoutHistory(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_date, body_weight, saved_at, exercises
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY saved_at DESC
		 LIMIT $2`,
		userID, workoutHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("querying workout history: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRecords(rows)
}

// ListAllWorkouts returns every workout for the user, oldest first.
func (db *DB) ListAllWorkouts(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_date, body_weight, saved_at, exercises
		 FROM workouts
		 WHERE user_id = $1
		 ORDER BY saved_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying all workouts: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRecords(rows)
}

// ExerciseHistory returns the workouts among the user's most recent
// workoutHistoryLimit that include the given exercise, newest first. The
// filter runs after the recency cut, so an exercise absent from recent
// sessions comes back empty even if it appears further back.
func (db *DB) ExerciseHistory(ctx context.Context, userID int, exerciseID string) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_date, body_weight, saved_at, exercises FROM (
			SELECT id, name, workout_date, body_weight, saved_at, exercises
			FROM workouts
			WHERE user_id = $1
			ORDER BY saved_at DESC
			LIMIT $3
		 ) recent
		 WHERE exercises ? $2
		 ORDER BY saved_at DESC`,
		userID, exerciseID, workoutHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRecords(rows)
}

func marshalExercises(exercises map[string]models.WorkoutExercise) ([]byte, error) {
	if exercises == nil {
		exercises = map[string]models.WorkoutExercise{}
	}
	doc, err := json.Marshal(exercises)
	if err != nil {
		return nil, fmt.Errorf("marshaling exercises: %w", err)
	}
	return doc, nil
}

func scanWorkoutRecord(scan func(dest ...any) error) (models.Workout, error) {
	var (
		w       models.Workout
		savedAt time.Time
		doc     []byte
	)
	if err := scan(&w.ID, &w.Name, &w.Date, &w.BodyWeight, &savedAt, &doc); err != nil {
		return models.Workout{}, err
	}
	w.Timestamp = savedAt.UnixMilli()
	if err := json.Unmarshal(doc, &w.Exercises); err != nil {
		return models.Workout{}, fmt.Errorf("unmarshaling exercises: %w", err)
	}
	return w, nil
}

func scanWorkoutRecords(rows pgx.Rows) ([]models.Workout, error) {
	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkoutRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
