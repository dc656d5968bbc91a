// Package probe serves the image backend connection test.
package probe

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
)

// Module provides the connection test page and its result fragment.
type Module struct {
	backend imagegen.Backend
	gen     imagegen.Generator
	logger  *zap.Logger
}

// New returns a probe module for the configured backend.
func New(backend imagegen.Backend, gen imagegen.Generator, logger *zap.Logger) Module {
	return Module{backend: backend, gen: gen, logger: logging.OrNop(logger).Named("probe")}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "probe" }

// Mount wires probe route handlers.
func (m Module) Mount(mux *http.ServeMux) error {
	registerRoutes(mux, newHandlers(m.backend, m.gen, m.logger))
	return nil
}
