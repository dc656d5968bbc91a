package mice

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
)

// Module provides MICE card routes.
type Module struct {
	store  CardStore
	icons  module.Icons
	logger *zap.Logger
}

// New returns a MICE card module.
func New(store CardStore, icons module.Icons, logger *zap.Logger) Module {
	return Module{store: store, icons: icons, logger: logging.OrNop(logger).Named("mice")}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "mice" }

// Mount wires MICE card route handlers.
func (m Module) Mount(mux *http.ServeMux) error {
	h := newHandlers(newService(m.store, m.icons), m.logger)
	registerRoutes(mux, h)
	return nil
}
