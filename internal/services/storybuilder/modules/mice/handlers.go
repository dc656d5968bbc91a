package mice

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/platform/httpx"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/render"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

type handlers struct {
	service service
	logger  *zap.Logger
}

func newHandlers(s service, logger *zap.Logger) handlers {
	return handlers{service: s, logger: logger}
}

func (h handlers) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	httpx.WriteComponent(w, r, render.MiceCreateForm())
}

func (h handlers) handleClearForm(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteEmpty(w)
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := parseInput(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	if _, err := h.service.create(r.Context(), input); err != nil {
		httpx.WriteServerError(w, r, h.logger, "create mice card", err)
		return
	}
	httpx.WriteHXRedirect(w, routepath.Root)
}

func (h handlers) handleCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteComponent(w, r, render.MiceCard(card))
}

func (h handlers) handleEditForm(w http.ResponseWriter, r *http.Request) {
	card, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteComponent(w, r, render.MiceEditForm(card))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	input, err := parseInput(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	if _, err := h.service.update(r.Context(), id, input); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
			return
		}
		httpx.WriteServerError(w, r, h.logger, "update mice card", err)
		return
	}
	httpx.WriteHXRedirect(w, routepath.Root)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	if err := h.service.delete(r.Context(), id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteServerError(w, r, h.logger, "delete mice card", err)
		return
	}
	httpx.WriteEmpty(w)
}

// load resolves the {id} card. It writes the response and returns false
// when the card cannot be shown.
func (h handlers) load(w http.ResponseWriter, r *http.Request) (storage.StructuralCard, bool) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return storage.StructuralCard{}, false
	}
	card, err := h.service.get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
		} else {
			httpx.WriteServerError(w, r, h.logger, "get mice card", err)
		}
		return storage.StructuralCard{}, false
	}
	return card, true
}

func parseInput(r *http.Request) (storage.StructuralCardInput, error) {
	var input storage.StructuralCardInput
	var err error
	if input.Code, err = httpx.FormString(r, "code"); err != nil {
		return input, err
	}
	if input.Opening, err = httpx.FormString(r, "opening"); err != nil {
		return input, err
	}
	if input.Closing, err = httpx.FormString(r, "closing"); err != nil {
		return input, err
	}
	if input.NestingLevel, err = httpx.FormInt(r, "nesting_level"); err != nil {
		return input, err
	}
	return input, nil
}
