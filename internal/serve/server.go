// Package serve exposes the persisted model artifact over HTTP: a liveness
// endpoint and a scoring endpoint taking row-records.
package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/driftlabs/driftguard/internal/train"
)

// Config holds configuration for the model server.
type Config struct {
	// ModelPath is the persisted artifact loaded at startup.
	ModelPath string
	// Port is the listen port.
	Port int
	// Watch reloads the artifact when the file changes on disk.
	Watch bool
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Server scores row-records against the loaded model.
type Server struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	model   *train.Model
	encoder *train.Encoder
}

// NewServer loads the artifact and returns a ready server.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{cfg: cfg, logger: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload swaps in the artifact currently on disk.
func (s *Server) reload() error {
	model, err := train.LoadModel(s.cfg.ModelPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.model = model
	s.encoder = train.NewEncoderFromSpecs(model.Features)
	s.mu.Unlock()
	s.logger.Info("model loaded", "path", s.cfg.ModelPath, "features", len(model.Features))
	return nil
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/predict", s.handlePredict)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("model server listening", "addr", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	if s.cfg.Watch {
		g.Go(func() error { return s.watchArtifact(ctx) })
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// watchArtifact reloads the model when the artifact file changes. The
// parent directory is watched because trainers typically replace the file
// by rename.
func (s *Server) watchArtifact(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create artifact watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.cfg.ModelPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.cfg.ModelPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				// Keep serving the previous model; the trainer may still be
				// writing.
				s.logger.Warn("artifact reload failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("artifact watcher error", "error", err)
		}
	}
}

// PredictRequest is the scoring request body: a non-empty list of
// feature-name to scalar mappings.
type PredictRequest struct {
	Data []map[string]any `json:"data"`
}

// PredictResponse carries one probability per input row.
type PredictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "data must be a non-empty list of records")
		return
	}

	s.mu.RLock()
	model, encoder := s.model, s.encoder
	s.mu.RUnlock()

	rows := make([][]float64, len(req.Data))
	for i, record := range req.Data {
		rows[i] = encoder.EncodeRecord(record)
	}

	writeJSON(w, http.StatusOK, PredictResponse{Probabilities: model.PredictProba(rows)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
