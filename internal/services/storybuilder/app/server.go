package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	"github.com/louisbranch/storybuilder/internal/platform/timeouts"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/metrics"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/modules/iconslots"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/modules/mice"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/modules/probe"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/modules/story"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/modules/tryfail"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage/sqlite"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storytemplates"
)

const tracerName = "github.com/louisbranch/storybuilder/internal/services/storybuilder"

// Config defines startup inputs for the story builder service.
type Config struct {
	HTTPAddr      string
	DBPath        string
	Image         imagegen.Config
	IconWorkers   int
	IconQueueSize int
	AutoIcons     bool
	Logger        *zap.Logger
}

// Server hosts the story builder HTTP surface, its store, and icon workers.
type Server struct {
	httpServer *http.Server
	store      *sqlite.Store
	queue      *icons.Queue
	logger     *zap.Logger
}

// NewServer opens the store, starts the icon workers, and builds the root
// handler. Slots left pending by a previous process are reset to absent.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	logger := logging.OrNop(cfg.Logger)

	gen, err := imagegen.New(cfg.Image, logger)
	if err != nil {
		return nil, fmt.Errorf("configure image backend: %w", err)
	}
	catalog, err := storytemplates.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load story templates: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open story store: %w", err)
	}
	reset, err := store.ResetPendingIcons(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("reset pending icons: %w", err)
	}
	if reset > 0 {
		logger.Info("reset interrupted icon jobs", zap.Int64("slots", reset))
	}

	m := metrics.New()
	tracer := otel.Tracer(tracerName)
	queue := icons.NewQueue(store, gen, icons.Config{
		Workers:    cfg.IconWorkers,
		QueueSize:  cfg.IconQueueSize,
		JobTimeout: cfg.Image.Timeout,
		Logger:     logger,
		Metrics:    m,
		Tracer:     tracer,
	})

	iconRequests := module.Icons{Submitter: queue, Auto: cfg.AutoIcons, Logger: logger}
	handler, err := Composer{}.Compose(ComposeInput{
		Modules: []module.Module{
			story.New(store, catalog, imagegen.Label(cfg.Image.Backend), logger),
			mice.New(store, iconRequests, logger),
			tryfail.New(store, iconRequests, m, logger),
			iconslots.New(store, iconRequests, logger),
			probe.New(cfg.Image.Backend, gen, logger),
		},
		Metrics: m.Handler(),
		Logger:  logger,
		Tracer:  tracer,
	})
	if err != nil {
		_ = queue.Shutdown(context.Background())
		_ = store.Close()
		return nil, fmt.Errorf("compose story builder handler: %w", err)
	}

	logger.Info("story builder configured",
		zap.String("http_addr", httpAddr),
		zap.String("db_path", cfg.DBPath),
		zap.String("image_backend", imagegen.Label(cfg.Image.Backend)),
		zap.Bool("auto_icons", cfg.AutoIcons),
	)
	return &Server{
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		queue:  queue,
		logger: logger,
	}, nil
}

// Handler returns the composed root handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

// ListenAndServe serves HTTP traffic until context cancellation or server
// stop, then drains the icon queue and closes the store.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("story builder server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("story builder listening", zap.String("addr", s.httpServer.Addr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		if shutdownErr := s.httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			err = fmt.Errorf("shutdown story builder http server: %w", shutdownErr)
		}
		cancel()
	case serveFailure := <-serveErr:
		if !errors.Is(serveFailure, http.ErrServerClosed) {
			err = fmt.Errorf("serve story builder http: %w", serveFailure)
		}
	}
	return errors.Join(err, s.drain())
}

// Close stops the server without waiting for icon jobs.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = s.queue.Shutdown(ctx)
	_ = s.store.Close()
}

func (s *Server) drain() error {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.IconDrain)
	defer cancel()

	var errs []error
	if err := s.queue.Shutdown(ctx); err != nil {
		s.logger.Warn("icon queue did not drain", zap.Error(err))
		errs = append(errs, fmt.Errorf("drain icon queue: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close story store: %w", err))
	}
	return errors.Join(errs...)
}
