package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dashboard is the part of the orchestrator the HTTP API depends on
type Dashboard interface {
	Snapshot() *models.Snapshot
	Load(ctx context.Context) (*models.Snapshot, error)
	Mentions(ctx context.Context, query backend.MentionsQuery) ([]models.MentionItem, error)
}

// SnapshotArchive lists and reads archived snapshots
type SnapshotArchive interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*models.Snapshot, error)
}

// Server exposes the dashboard snapshot over HTTP
type Server struct {
	dashboard     Dashboard
	archive       SnapshotArchive
	reloadTimeout time.Duration
}

// NewServer creates the API server. archive may be nil.
func NewServer(dashboard Dashboard, archive SnapshotArchive, reloadTimeout time.Duration) *Server {
	return &Server{
		dashboard:     dashboard,
		archive:       archive,
		reloadTimeout: reloadTimeout,
	}
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", s.healthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", s.snapshotHandler).Methods("GET")
	api.HandleFunc("/summary", s.panelHandler(func(snap *models.Snapshot) interface{} {
		return snap.Summary
	})).Methods("GET")
	api.HandleFunc("/platforms", s.panelHandler(func(snap *models.Snapshot) interface{} {
		return snap.Platforms
	})).Methods("GET")
	api.HandleFunc("/timeline", s.panelHandler(func(snap *models.Snapshot) interface{} {
		return timelinePanel{Points: snap.Timeline, Max: snap.TimelineMax}
	})).Methods("GET")
	api.HandleFunc("/top-mentions", s.panelHandler(func(snap *models.Snapshot) interface{} {
		return snap.TopMentions
	})).Methods("GET")
	api.HandleFunc("/words", s.panelHandler(func(snap *models.Snapshot) interface{} {
		return snap.Words
	})).Methods("GET")
	api.HandleFunc("/mentions", s.mentionsHandler).Methods("GET")
	api.HandleFunc("/reload", s.reloadHandler).Methods("POST")
	api.HandleFunc("/archive", s.archiveListHandler).Methods("GET")
	api.HandleFunc("/archive/{name}", s.archiveGetHandler).Methods("GET")

	return router
}

type timelinePanel struct {
	Points []models.TimelineDataPoint `json:"points"`
	Max    int                        `json:"max"`
}

type statePayload struct {
	State models.State `json:"state"`
	Error string       `json:"error,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"state":     s.dashboard.Snapshot().State,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Snapshot())
}

// panelHandler serves one section of the published snapshot, or 503 until a cycle succeeds
func (s *Server) panelHandler(section func(*models.Snapshot) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := s.dashboard.Snapshot()
		if !snapshot.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, statePayload{State: snapshot.State, Error: snapshot.Error})
			return
		}
		writeJSON(w, http.StatusOK, section(snapshot))
	}
}

func (s *Server) mentionsHandler(w http.ResponseWriter, r *http.Request) {
	query := backend.MentionsQuery{
		Platform:  r.URL.Query().Get("platform"),
		Sentiment: r.URL.Query().Get("sentiment"),
	}

	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		query.Days = days
	}

	switch models.Sentiment(query.Sentiment) {
	case "", models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative:
	default:
		writeError(w, http.StatusBadRequest, "sentiment must be positive, neutral or negative")
		return
	}

	items, err := s.dashboard.Mentions(r.Context(), query)
	if err != nil {
		logrus.Errorf("Mentions request failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if items == nil {
		items = []models.MentionItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// reloadHandler starts a fetch cycle in the background. With wait=true it blocks and
// returns the resulting snapshot.
func (s *Server) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), s.reloadTimeout)
		defer cancel()

		snapshot, err := s.dashboard.Load(ctx)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, snapshot)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.reloadTimeout)
		defer cancel()
		if _, err := s.dashboard.Load(ctx); err != nil {
			logrus.Errorf("Manual reload failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Reload triggered successfully"})
}

func (s *Server) archiveListHandler(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "snapshot archive is not configured")
		return
	}

	names, err := s.archive.List(r.Context())
	if err != nil {
		logrus.Errorf("Failed to list archived snapshots: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list archived snapshots")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) archiveGetHandler(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusNotFound, "snapshot archive is not configured")
		return
	}

	name := mux.Vars(r)["name"]
	snapshot, err := s.archive.Load(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		logrus.Errorf("Failed to load archived snapshot %s: %v", name, err)
		writeError(w, http.StatusInternalServerError, "failed to load archived snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("Handled request")
	})
}
