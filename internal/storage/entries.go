package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repbook/internal/models"
)

// SaveEntry upserts an in-progress entry. Creates a new record when
// existingID is empty, else overwrites that record in place. The update arm
// only touches rows the user owns; an id colliding with another user's entry
// comes back as ErrNotFound. Returns the entry ID.
func (db *DB) SaveEntry(ctx context.Context, userID int, entry models.Workout, existingID string) (string, error) {
	id := existingID
	if id == "" {
		id = uuid.NewString()
	}
	doc, err := marshalExercises(entry.Exercises)
	if err != nil {
		return "", err
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO saved_entries (id, user_id, name, workout_date, body_weight, exercises)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
			SET name = $3, workout_date = $4, body_weight = $5, exercises = $6, saved_at = NOW()
			WHERE saved_entries.user_id = $2`,
		id, userID, entry.Name, entry.Date, entry.BodyWeight, doc)
	if err != nil {
		return "", fmt.Errorf("upserting entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

// DeleteEntry removes an in-progress entry. Deleting an absent entry is not
// an error: finalization deletes the backing entry, which may never have been
// autosaved.
func (db *DB) DeleteEntry(ctx context.Context, userID int, entryID string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM saved_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// ListEntries returns all in-progress entries for the user, newest first.
func (db *DB) ListEntries(ctx context.Context, userID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, workout_date, body_weight, saved_at, exercises
		 FROM saved_entries
		 WHERE user_id = $1
		 ORDER BY saved_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	return scanWorkoutRecords(rows)
}
