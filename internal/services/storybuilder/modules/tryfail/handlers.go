package tryfail

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
	httpx.WriteComponent(w, r, render.TryCreateForm())
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
		httpx.WriteServerError(w, r, h.logger, "create try card", err)
		return
	}
	httpx.WriteHXRedirect(w, routepath.Root)
}

func (h handlers) handleCard(w http.ResponseWriter, r *http.Request) {
	card, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteComponent(w, r, render.TryCard(card))
}

func (h handlers) handleEditForm(w http.ResponseWriter, r *http.Request) {
	card, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.WriteComponent(w, r, render.TryEditForm(card))
}

// handleUpdate re-renders the card in place unless its position changed,
// in which case the whole list is stale and the page reloads.
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
	result, err := h.service.update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
			return
		}
		httpx.WriteServerError(w, r, h.logger, "update try card", err)
		return
	}
	if result.moved {
		httpx.WriteHXRedirect(w, routepath.Root)
		return
	}
	httpx.WriteComponent(w, r, render.TryCard(result.card))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	if err := h.service.delete(r.Context(), id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteServerError(w, r, h.logger, "delete try card", err)
		return
	}
	httpx.WriteHXRedirect(w, routepath.Root)
}

func (h handlers) handleReorder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	position, err := httpx.FormInt(r, "new_order")
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return
	}
	if _, err := h.service.move(r.Context(), id, position); err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpx.WriteServerError(w, r, h.logger, "reorder try card", err)
		return
	}
	httpx.WriteHXRedirect(w, routepath.Root)
}

// load resolves the {id} card. It writes the response and returns false
// when the card cannot be shown.
func (h handlers) load(w http.ResponseWriter, r *http.Request) (storage.CycleCard, bool) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteBadRequest(w, err)
		return storage.CycleCard{}, false
	}
	card, err := h.service.get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpx.WriteEmpty(w)
		} else {
			httpx.WriteServerError(w, r, h.logger, "get try card", err)
		}
		return storage.CycleCard{}, false
	}
	return card, true
}

func parseInput(r *http.Request) (storage.CycleCardInput, error) {
	var input storage.CycleCardInput
	var err error
	if input.Type, err = httpx.FormString(r, "type"); err != nil {
		return input, err
	}
	if input.OrderNum, err = httpx.FormInt(r, "order_num"); err != nil {
		return input, err
	}
	if input.Attempt, err = httpx.FormString(r, "attempt"); err != nil {
		return input, err
	}
	if input.Failure, err = httpx.FormString(r, "failure"); err != nil {
		return input, err
	}
	if input.Consequence, err = httpx.FormString(r, "consequence"); err != nil {
		return input, err
	}
	return input, nil
}
