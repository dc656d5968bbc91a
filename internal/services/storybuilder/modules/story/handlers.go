package story

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/platform/httpx"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/render"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storytemplates"
)

type handlers struct {
	service      service
	backendLabel string
	logger       *zap.Logger
}

func newHandlers(s service, backendLabel string, logger *zap.Logger) handlers {
	return handlers{service: s, backendLabel: backendLabel, logger: logger}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.page(r.Context())
	if err != nil {
		httpx.WriteServerError(w, r, h.logger, "load story page", err)
		return
	}
	data.BackendLabel = h.backendLabel
	httpx.WriteComponent(w, r, render.Page(data))
}

func (h handlers) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.clear(r.Context()); err != nil {
		httpx.WriteServerError(w, r, h.logger, "clear story", err)
		return
	}
	h.logger.Info("story cleared")
	httpx.WriteHXRedirect(w, routepath.Root)
}

func (h handlers) handleLoadTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.service.loadTemplate(r.Context(), name); err != nil {
		if errors.Is(err, storytemplates.ErrUnknownTemplate) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, "Template '%s' not found", name)
			return
		}
		httpx.WriteServerError(w, r, h.logger, "load template", err)
		return
	}
	h.logger.Info("template loaded", zap.String("template", name))
	httpx.WriteHXRedirect(w, routepath.Root)
}
