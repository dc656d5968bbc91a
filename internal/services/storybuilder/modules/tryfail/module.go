package tryfail

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/metrics"
	module "github.com/louisbranch/storybuilder/internal/services/storybuilder/module"
)

// Module provides Try/Fail cycle card routes.
type Module struct {
	store   CardStore
	icons   module.Icons
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New returns a Try/Fail card module. metrics may be nil.
func New(store CardStore, icons module.Icons, m *metrics.Metrics, logger *zap.Logger) Module {
	return Module{store: store, icons: icons, metrics: m, logger: logging.OrNop(logger).Named("tryfail")}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "tryfail" }

// Mount wires Try/Fail card route handlers.
func (m Module) Mount(mux *http.ServeMux) error {
	h := newHandlers(newService(m.store, m.icons, m.metrics), m.logger)
	registerRoutes(mux, h)
	return nil
}
