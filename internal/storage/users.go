package storage

import (
	"context"
	"fmt"
	"time"
)

// User is an account row, created on first authenticated contact.
type User struct {
	ID          int
	Login       string
	DisplayName string
	CreatedAt   time.Time
	LastSeen    time.Time
}

// GetOrCreateUser bootstraps the account for a login on each authenticated
// request: first contact inserts the row, later ones refresh last_seen. A
// non-empty displayName overwrites the stored one, so the profile tracks the
// identity provider. Returns the full row for the identity layer.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (User, error) {
	var u User
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id, login, display_name, created_at, last_seen
	`, login, displayName).Scan(&u.ID, &u.Login, &u.DisplayName, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return User{}, fmt.Errorf("upserting user: %w", err)
	}
	return u, nil
}
