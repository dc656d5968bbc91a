package probe

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/platform/httpx"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/render"
)

type handlers struct {
	backend imagegen.Backend
	gen     imagegen.Generator
	logger  *zap.Logger
}

func newHandlers(backend imagegen.Backend, gen imagegen.Generator, logger *zap.Logger) handlers {
	return handlers{backend: backend, gen: gen, logger: logger}
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	httpx.WriteComponent(w, r, render.ProbePage(imagegen.Label(h.backend)))
}

// handleRun generates one test image on the request goroutine. The
// request context bounds the backend call.
func (h handlers) handleRun(w http.ResponseWriter, r *http.Request) {
	result := imagegen.Probe(r.Context(), h.backend, h.gen)
	if result.Success {
		h.logger.Info("image backend probe succeeded", zap.String("mode", result.Mode), zap.Int("size_bytes", result.Bytes))
	} else {
		h.logger.Warn("image backend probe failed", zap.String("mode", result.Mode), zap.String("message", result.Message))
	}
	httpx.WriteComponent(w, r, render.ProbeResult(result))
}
