package iconslots

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/platform/httpx"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/render"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

type handlers struct {
	service service
	logger  *zap.Logger
}

func newHandlers(s service, logger *zap.Logger) handlers {
	return handlers{service: s, logger: logger}
}

func (h handlers) handleImage(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseRef(w, r)
	if !ok {
		return
	}
	icon, err := h.service.icon(r.Context(), ref)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteServerError(w, r, h.logger, "get icon", err)
		return
	}
	switch icons.Resolve(icon) {
	case storage.IconPending:
		writePNG(w, icons.Placeholder(), "no-store")
	case storage.IconReady:
		writePNG(w, icon.Payload, "no-cache")
	default:
		http.NotFound(w, r)
	}
}

func (h handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseRef(w, r)
	if !ok {
		return
	}
	icon, err := h.service.icon(r.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
			return
		}
		httpx.WriteServerError(w, r, h.logger, "get icon status", err)
		return
	}
	httpx.WriteComponent(w, r, render.IconSlot(ref, icon))
}

func (h handlers) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseRef(w, r)
	if !ok {
		return
	}
	icon, err := h.service.generate(r.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
			return
		}
		httpx.WriteServerError(w, r, h.logger, "generate icon", err)
		return
	}
	httpx.WriteComponent(w, r, render.IconSlot(ref, icon))
}

func (h handlers) handlePlaceholder(w http.ResponseWriter, _ *http.Request) {
	writePNG(w, icons.Placeholder(), "public, max-age=86400")
}

func parseRef(w http.ResponseWriter, r *http.Request) (storage.IconRef, bool) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return storage.IconRef{}, false
	}
	ref, err := storage.ParseIconRef(r.PathValue("kind"), r.PathValue("slot"), id)
	if err != nil {
		http.NotFound(w, r)
		return storage.IconRef{}, false
	}
	return ref, true
}

func writePNG(w http.ResponseWriter, payload []byte, cacheControl string) {
	contentType := http.DetectContentType(payload)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
