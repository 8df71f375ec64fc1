package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/repbook/internal/mcp"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/storage"
	"tailscale.com/client/local"
)

// Store is the persistence surface the handlers depend on. *storage.DB
// satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (storage.User, error)

	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, userID int, name string, category models.ExerciseCategory, description string) (models.Exercise, error)
	UpdateExercise(ctx context.Context, userID int, id, name string, category models.ExerciseCategory, description string) (models.Exercise, error)
	DeleteExercise(ctx context.Context, userID int, id string) error
	IncrementExerciseUsage(ctx context.Context, userID int, exerciseID string) error
	SubscribeExercises(userID int, fn func([]models.Exercise)) func()
	ExerciseHistory(ctx context.Context, userID int, exerciseID string) ([]models.Workout, error)

	ListWorkoutHistory(ctx context.Context, userID int) ([]models.Workout, error)
	ListAllWorkouts(ctx context.Context, userID int) ([]models.Workout, error)
	GetWorkout(ctx context.Context, userID int, id string) (models.Workout, error)
	SaveWorkout(ctx context.Context, userID int, w models.Workout, existingID string) (string, error)
	DeleteWorkout(ctx context.Context, userID int, id string) error

	ListEntries(ctx context.Context, userID int) ([]models.Workout, error)
	SaveEntry(ctx context.Context, userID int, entry models.Workout, existingID string) (string, error)
	DeleteEntry(ctx context.Context, userID int, entryID string) error
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      Store
	log     *slog.Logger
	apiKey  string
	devUser string
	ts      *local.Client
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, apiKey, devUser string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		log:     log,
		apiKey:  apiKey,
		devUser: devUser,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables Tailscale identity resolution for incoming requests.
// Must be called before the server starts accepting connections.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

// SetMCP mounts the MCP server over streamable HTTP at /api/v1/mcp. Tool
// calls run with the identity of the connecting client.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return mcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.With(s.identity).Mount("/api/v1/mcp", h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		// Read endpoints (no API key — tsnet handles access)
		r.Get("/me", s.handleMe)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/events", s.handleExerciseEvents)
		r.Get("/exercises/{id}/history", s.handleExerciseHistory)
		r.Get("/workouts", s.handleWorkoutHistory)
		r.Get("/workouts/all", s.handleAllWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/entries", s.handleListEntries)

		// Write endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/exercises", s.handleCreateExercise)
			r.Put("/exercises/{id}", s.handleUpdateExercise)
			r.Delete("/exercises/{id}", s.handleDeleteExercise)
			r.Post("/exercises/{id}/usage", s.handleIncrementUsage)
			r.Post("/workouts", s.handleSaveWorkout)
			r.Delete("/workouts/{id}", s.handleDeleteWorkout)
			r.Post("/entries", s.handleSaveEntry)
			r.Delete("/entries/{id}", s.handleDeleteEntry)
		})
	})
}
