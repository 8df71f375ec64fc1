// Package client talks to a repbook server over its REST API. It implements
// the editor's persistence gateway and the MCP data source, so the workout
// editor and MCP tools can run against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/repbook/internal/mcp"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/workout"
)

// UserInfo mirrors the server's identity response without importing the
// server package (which would pull in tailscale and other server-side
// dependencies).
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Client calls the repbook REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time checks: Client serves both the editor and MCP tools.
var (
	_ workout.Gateway = (*Client)(nil)
	_ mcp.DataSource  = (*Client)(nil)
)

// New creates a Client targeting the given base URL. The API key is sent on
// write requests.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client: %s returned %d: %s", path, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// Me returns the identity the server resolved for this connection.
func (c *Client) Me(ctx context.Context) (UserInfo, error) {
	var info UserInfo
	if err := c.getJSON(ctx, "/api/v1/me", &info); err != nil {
		return UserInfo{}, err
	}
	return info, nil
}

// --- workout.Gateway ---

// SaveEntry upserts an in-progress entry. The server owns user scoping, so
// the user ID parameter is unused here.
func (c *Client) SaveEntry(ctx context.Context, _ int, entry models.Workout, existingID string) (string, error) {
	entry.ID = existingID
	body, err := c.do(ctx, http.MethodPost, "/api/v1/entries", entry)
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("client: decode entry id: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) DeleteEntry(ctx context.Context, _ int, entryID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/entries/"+entryID, nil)
	return err
}

func (c *Client) ListEntries(ctx context.Context, _ int) ([]models.Workout, error) {
	var entries []models.Workout
	if err := c.getJSON(ctx, "/api/v1/entries", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) SaveWorkout(ctx context.Context, _ int, w models.Workout, existingID string) (string, error) {
	w.ID = existingID
	body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", w)
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("client: decode workout id: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) IncrementExerciseUsage(ctx context.Context, _ int, exerciseID string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/exercises/"+exerciseID+"/usage", nil)
	return err
}

// --- mcp.DataSource and CLI reads ---

func (c *Client) ListExercises(ctx context.Context, _ int) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.getJSON(ctx, "/api/v1/exercises", &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *Client) ListWorkoutHistory(ctx context.Context, _ int) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.getJSON(ctx, "/api/v1/workouts", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *Client) ListAllWorkouts(ctx context.Context, _ int) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.getJSON(ctx, "/api/v1/workouts/all", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *Client) ExerciseHistory(ctx context.Context, _ int, exerciseID string) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.getJSON(ctx, "/api/v1/exercises/"+exerciseID+"/history", &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// CreateExercise adds a new exercise definition.
func (c *Client) CreateExercise(ctx context.Context, name string, category models.ExerciseCategory, description string) (models.Exercise, error) {
	payload := map[string]any{"name": name, "category": category, "description": description}
	body, err := c.do(ctx, http.MethodPost, "/api/v1/exercises", payload)
	if err != nil {
		return models.Exercise{}, err
	}

	var ex models.Exercise
	if err := json.Unmarshal(body, &ex); err != nil {
		return models.Exercise{}, fmt.Errorf("client: decode exercise: %w", err)
	}
	return ex, nil
}

// DeleteWorkout removes a workout from history.
func (c *Client) DeleteWorkout(ctx context.Context, workoutID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/workouts/"+workoutID, nil)
	return err
}
