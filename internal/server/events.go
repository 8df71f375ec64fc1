package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/meltforce/repbook/internal/models"
)

// handleExerciseEvents streams the user's exercise list over SSE. Clients get
// the current list on connect, then the full updated list after every
// exercise mutation.
func (s *Server) handleExerciseEvents(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates := make(chan []models.Exercise, 8)
	cancel := s.db.SubscribeExercises(uid, func(list []models.Exercise) {
		// Drop rather than block: a stalled client gets the next update.
		select {
		case updates <- list:
		default:
		}
	})
	defer cancel()

	initial, err := s.db.ListExercises(r.Context(), uid)
	if err != nil {
		s.log.Error("exercise events initial list", "error", err)
		return
	}
	if err := writeSSE(w, flusher, initial); err != nil {
		return
	}

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case list := <-updates:
			if err := writeSSE(w, flusher, list); err != nil {
				return
			}
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, list []models.Exercise) error {
	if list == nil {
		list = []models.Exercise{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: exercises\ndata: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
