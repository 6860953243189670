package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/crafttable/pkg/index"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/pipeline"
	"github.com/matzehuels/crafttable/pkg/store"
)

// Default timeouts.
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr string

	// Store holds the built artifacts. Required.
	Store store.Store

	// Pipeline configures rebuilds. LoopsPath is honoured, so a rebuild
	// refreshes the loop table file as well as the store.
	Pipeline pipeline.Options

	Logger *log.Logger
}

// snapshot is the in-memory view of the last build.
type snapshot struct {
	manifest []string
	loops    loops.Table
	runID    string
	builtAt  time.Time
}

// Server serves built artifacts.
type Server struct {
	cfg    Config
	logger *log.Logger
	runner *pipeline.Runner

	mu   sync.RWMutex
	snap *snapshot

	rebuilds singleflight.Group
	handler  http.Handler
}

// New creates a server over cfg.Store and loads the current snapshot from
// it. An empty store is not an error: the server answers with an empty
// manifest until the first rebuild.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, stderrors.New("server: store is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	RegisterMetrics()

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		runner: pipeline.NewRunner(cfg.Logger),
	}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RebuildResult summarizes a rebuild.
type RebuildResult struct {
	RunID       string `json:"run_id"`
	Recipes     int    `json:"recipes"`
	Groups      int    `json:"groups"`
	LoopPairs   int    `json:"loop_pairs"`
	Diagnostics int    `json:"diagnostics"`
	Shared      bool   `json:"shared"` // joined a rebuild already in flight
}

// Rebuild runs the pipeline into the store and swaps in the new snapshot.
// Calls made while a rebuild is running wait for it and share its result.
func (s *Server) Rebuild(ctx context.Context) (RebuildResult, error) {
	v, err, shared := s.rebuilds.Do("rebuild", func() (any, error) {
		// Detached so one cancelled caller does not fail the others.
		ctx := context.WithoutCancel(ctx)
		res, err := s.runner.Execute(ctx, s.cfg.Pipeline, s.cfg.Store)
		if err != nil {
			return nil, err
		}
		manifest, err := index.ReadManifest(ctx, s.cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		s.swap(&snapshot{
			manifest: manifest,
			loops:    res.Loops,
			runID:    res.RunID,
			builtAt:  time.Now().UTC(),
		})
		return RebuildResult{
			RunID:       res.RunID,
			Recipes:     res.Stats.Recipes,
			Groups:      res.Stats.Groups,
			LoopPairs:   res.Stats.LoopPairs,
			Diagnostics: len(res.Diagnostics),
		}, nil
	})
	if err != nil {
		return RebuildResult{}, err
	}
	out := v.(RebuildResult)
	out.Shared = shared
	return out, nil
}

// reload reads the snapshot from the store.
func (s *Server) reload(ctx context.Context) error {
	manifest, err := index.ReadManifest(ctx, s.cfg.Store)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read manifest: %w", err)
	}
	table, err := pipeline.ReadLoops(ctx, s.cfg.Store)
	if err != nil && !stderrors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("read loops: %w", err)
	}
	if manifest == nil {
		manifest = []string{}
	}
	if table == nil {
		table = loops.Table{}
	}
	s.swap(&snapshot{manifest: manifest, loops: table})
	return nil
}

func (s *Server) swap(snap *snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Server) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
