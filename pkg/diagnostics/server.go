// Package diagnostics exposes exporter channel status over HTTP for
// operational inspection.
package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/otelship/internal/constants"
)

const readHeaderTimeout = 5 * time.Second

// Snapshot captures the state of one exporter channel at a point in time.
type Snapshot struct {
	Signal    string    `json:"signal"`
	Endpoint  string    `json:"endpoint"`
	Secure    bool      `json:"secure"`
	State     string    `json:"state"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotProvider supplies diagnostic snapshots. Both exporter types
// implement it.
type SnapshotProvider interface {
	Snapshot() Snapshot
}

// Config controls the diagnostics listener.
type Config struct {
	// HTTPAddr is the listen address, e.g. "127.0.0.1:9464".
	HTTPAddr string
	// AuthToken, when set, requires a matching bearer token on every request.
	AuthToken string
}

// Server exposes exporter status over HTTP for operational diagnostics.
type Server struct {
	cfg       Config
	providers []SnapshotProvider

	server *http.Server
	mu     sync.Mutex
	start  sync.Once
	stop   sync.Once
}

// NewServer constructs a diagnostics server reporting on the given exporters.
func NewServer(cfg Config, providers ...SnapshotProvider) *Server {
	return &Server{
		cfg:       cfg,
		providers: providers,
	}
}

// Start begins serving the diagnostics endpoint until the supplied context is
// canceled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.HTTPAddr == "" {
		return ewrap.New("diagnostics http_addr is required")
	}

	var startErr error

	s.start.Do(func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/otelship/status", s.HandleStatus)

		s.server = &http.Server{
			Addr:              s.cfg.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		lc := net.ListenConfig{}

		ln, err := lc.Listen(ctx, "tcp", s.cfg.HTTPAddr)
		if err != nil {
			startErr = ewrap.Wrap(err, "listen diagnostics")

			return
		}

		go func() {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownBound)
			defer cancel()

			//nolint:errcheck // best-effort stop on context cancellation
			_ = s.Shutdown(shutdownCtx)
		}()

		go func() {
			err := s.server.Serve(ln)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				//nolint:errcheck // Serve's terminal error has no receiver here
				_ = ewrap.Wrap(err, "diagnostics server stopped")
			}
		}()
	})

	return startErr
}

// Shutdown stops the diagnostics server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.stop.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.server == nil {
			return
		}

		ctxShutdown, cancel := context.WithTimeout(ctx, constants.ShutdownBound)
		defer cancel()

		shutdownErr = s.server.Shutdown(ctxShutdown)
		s.server = nil
	})

	if shutdownErr != nil {
		return ewrap.Wrap(shutdownErr, "shutdown diagnostics server")
	}

	return nil
}

// HandleStatus serves the /otelship/status endpoint with a JSON snapshot per
// registered exporter.
func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AuthToken != "" {
		if !validAuth(r.Header.Get("Authorization"), s.cfg.AuthToken) {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}
	}

	now := time.Now().UTC()
	snapshots := make([]Snapshot, 0, len(s.providers))

	for _, provider := range s.providers {
		snapshot := provider.Snapshot()
		snapshot.Timestamp = now
		snapshots = append(snapshots, snapshot)
	}

	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(snapshots)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func validAuth(header, token string) bool {
	const prefix = "Bearer "

	if header == "" {
		return false
	}

	if !strings.HasPrefix(header, prefix) {
		return false
	}

	return strings.TrimSpace(header[len(prefix):]) == token
}
