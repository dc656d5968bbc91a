// Package story serves the story builder page and whole-story operations.
package story

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storytemplates"
)

// Module provides the page, clear, and template load routes.
type Module struct {
	store        StoryStore
	catalog      *storytemplates.Catalog
	backendLabel string
	logger       *zap.Logger
}

// New returns a story module. backendLabel names the image backend in the
// page header.
func New(store StoryStore, catalog *storytemplates.Catalog, backendLabel string, logger *zap.Logger) Module {
	return Module{store: store, catalog: catalog, backendLabel: backendLabel, logger: logging.OrNop(logger).Named("story")}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "story" }

// Mount wires story route handlers.
func (m Module) Mount(mux *http.ServeMux) error {
	h := newHandlers(newService(m.store, m.catalog), m.backendLabel, m.logger)
	registerRoutes(mux, h)
	return nil
}
