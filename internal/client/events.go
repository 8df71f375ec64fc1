package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meltforce/repbook/internal/models"
)

// WatchExercises subscribes to the server's exercise event stream and invokes
// fn with the full exercise list on connect and after every change. Blocks
// until ctx is cancelled or the stream breaks.
func (c *Client) WatchExercises(ctx context.Context, fn func([]models.Exercise)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/exercises/events", nil)
	if err != nil {
		return fmt.Errorf("client: create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The regular client enforces a request timeout, which would kill a
	// long-lived stream.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: exercise stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: exercise stream returned %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var list []models.Exercise
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &list); err != nil {
			return fmt.Errorf("client: decode exercise event: %w", err)
		}
		fn(list)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return scanner.Err()
}
