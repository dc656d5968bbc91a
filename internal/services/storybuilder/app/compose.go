// Package app composes story builder modules into the root handler and runs
// the HTTP server alongside the icon workers.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/platform/httpx"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

// ComposeInput carries modules and shared infrastructure handlers.
type ComposeInput struct {
	Modules []module.Module
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *zap.Logger
	Tracer  trace.Tracer
}

// Composer wires modules onto one root mux.
type Composer struct{}

// Compose builds the root handler. Modules register directly on the root mux;
// a duplicate module id or a conflicting route pattern is returned as an error.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	logger := logging.OrNop(input.Logger)
	root := http.NewServeMux()
	root.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth)
	if input.Metrics != nil {
		root.Handle(http.MethodGet+" "+routepath.Metrics, input.Metrics)
	}

	seen := make(map[string]struct{}, len(input.Modules))
	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		id := strings.TrimSpace(feature.ID())
		if id == "" {
			return nil, fmt.Errorf("module id is required")
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("module %q is registered twice", id)
		}
		seen[id] = struct{}{}
		if err := mount(root, feature); err != nil {
			return nil, err
		}
	}

	return httpx.Chain(root,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		httpx.Trace(input.Tracer),
		httpx.AccessLog(logger),
	), nil
}

// mount turns ServeMux registration panics into errors.
func mount(root *http.ServeMux, feature module.Module) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("mount module %q: %v", feature.ID(), recovered)
		}
	}()
	if err := feature.Mount(root); err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
