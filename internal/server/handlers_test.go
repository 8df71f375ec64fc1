package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
)

// fakeStore satisfies Store with zero-value defaults; tests override the
// function fields they exercise.
type fakeStore struct {
	getOrCreateUser func(ctx context.Context, login, displayName string) (storage.User, error)
	saveWorkout     func(ctx context.Context, userID int, w models.Workout, existingID string) (string, error)
	saveEntry       func(ctx context.Context, userID int, entry models.Workout, existingID string) (string, error)
}

func (f *fakeStore) GetOrCreateUser(ctx context.Context, login, displayName string) (storage.User, error) {
	if f.getOrCreateUser != nil {
		return f.getOrCreateUser(ctx, login, displayName)
	}
	return storage.User{ID: 1, Login: login, DisplayName: displayName}, nil
}

func (f *fakeStore) ListExercises(context.Context, int) ([]models.Exercise, error) { return nil, nil }

func (f *fakeStore) CreateExercise(context.Context, int, string, models.ExerciseCategory, string) (models.Exercise, error) {
	return models.Exercise{}, nil
}

func (f *fakeStore) UpdateExercise(context.Context, int, string, string, models.ExerciseCategory, string) (models.Exercise, error) {
	return models.Exercise{}, nil
}

func (f *fakeStore) DeleteExercise(context.Context, int, string) error { return nil }

func (f *fakeStore) IncrementExerciseUsage(context.Context, int, string) error { return nil }

func (f *fakeStore) SubscribeExercises(int, func([]models.Exercise)) func() { return func() {} }

func (f *fakeStore) ExerciseHistory(context.Context, int, string) ([]models.Workout, error) {
	return nil, nil
}

func (f *fakeStore) ListWorkoutHistory(context.Context, int) ([]models.Workout, error) {
	return nil, nil
}

func (f *fakeStore) ListAllWorkouts(context.Context, int) ([]models.Workout, error) {
	return nil, nil
}

func (f *fakeStore) GetWorkout(context.Context, int, string) (models.Workout, error) {
	return models.Workout{}, nil
}

func (f *fakeStore) SaveWorkout(ctx context.Context, userID int, w models.Workout, existingID string) (string, error) {
	if f.saveWorkout != nil {
		return f.saveWorkout(ctx, userID, w, existingID)
	}
	return existingID, nil
}

func (f *fakeStore) DeleteWorkout(context.Context, int, string) error { return nil }

func (f *fakeStore) ListEntries(context.Context, int) ([]models.Workout, error) { return nil, nil }

func (f *fakeStore) SaveEntry(ctx context.Context, userID int, entry models.Workout, existingID string) (string, error) {
	if f.saveEntry != nil {
		return f.saveEntry(ctx, userID, entry, existingID)
	}
	return existingID, nil
}

func (f *fakeStore) DeleteEntry(context.Context, int, string) error { return nil }

func newTestServer(db Store) *Server {
	return &Server{
		db:  db,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// TestSaveWorkoutForeignID verifies an upsert naming a record the user does
// not own is answered with 404 and does not read like a silent success.
func TestSaveWorkoutForeignID(t *testing.T) {
	s := newTestServer(&fakeStore{
		saveWorkout: func(_ context.Context, _ int, _ models.Workout, existingID string) (string, error) {
			if existingID == "w-foreign" {
				return "", storage.ErrNotFound
			}
			return existingID, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts",
		strings.NewReader(`{"id":"w-foreign","name":"Push Day","date":"2026-08-30"}`))
	rec := httptest.NewRecorder()

	s.handleSaveWorkout(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestSaveEntryForeignID mirrors TestSaveWorkoutForeignID for the entries
// collection.
func TestSaveEntryForeignID(t *testing.T) {
	s := newTestServer(&fakeStore{
		saveEntry: func(_ context.Context, _ int, _ models.Workout, existingID string) (string, error) {
			return "", storage.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries",
		strings.NewReader(`{"id":"entry-foreign"}`))
	rec := httptest.NewRecorder()

	s.handleSaveEntry(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestSaveWorkoutFreshID verifies the ordinary create path still responds
// with the assigned id.
func TestSaveWorkoutFreshID(t *testing.T) {
	s := newTestServer(&fakeStore{
		saveWorkout: func(_ context.Context, _ int, _ models.Workout, existingID string) (string, error) {
			if existingID != "" {
				t.Errorf("existingID = %q, want empty for a fresh save", existingID)
			}
			return "w-new", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts",
		strings.NewReader(`{"name":"Push Day","date":"2026-08-30"}`))
	rec := httptest.NewRecorder()

	s.handleSaveWorkout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp["id"] != "w-new" {
		t.Errorf("id = %q, want w-new", resp["id"])
	}
}

// TestIdentityDevUser verifies the configured dev user is bootstrapped
// through the store and the stored profile row backs the request identity.
func TestIdentityDevUser(t *testing.T) {
	s := newTestServer(&fakeStore{
		getOrCreateUser: func(_ context.Context, login, displayName string) (storage.User, error) {
			if login != "dev@example.com" {
				t.Errorf("login = %q, want dev@example.com", login)
			}
			if displayName != "" {
				t.Errorf("displayName = %q, want empty from the dev path", displayName)
			}
			return storage.User{ID: 7, Login: login, DisplayName: "Stored Name"}, nil
		},
	})
	s.devUser = "dev@example.com"

	var gotID int
	var gotInfo UserInfo
	handler := s.identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = userIDFromContext(r)
		gotInfo = userInfoFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("userID = %d, want 7", gotID)
	}
	if gotInfo.DisplayName != "Stored Name" {
		t.Errorf("displayName = %q, want the stored profile value", gotInfo.DisplayName)
	}
}

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}
