// Package iconslots serves card icon images, slot status fragments, and
// manual generation triggers.
package iconslots

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
)

// Module provides icon slot routes.
type Module struct {
	store  SlotStore
	icons  module.Icons
	logger *zap.Logger
}

// New returns an icon slot module.
func New(store SlotStore, icons module.Icons, logger *zap.Logger) Module {
	return Module{store: store, icons: icons, logger: logging.OrNop(logger).Named("iconslots")}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "iconslots" }

// Mount wires icon slot route handlers.
func (m Module) Mount(mux *http.ServeMux) error {
	h := newHandlers(newService(m.store, m.icons), m.logger)
	registerRoutes(mux, h)
	return nil
}
