package tryfail

import (
	"net/http"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.TryForm, h.handleCreateForm)
	mux.HandleFunc(http.MethodGet+" "+routepath.TryFormClear, h.handleClearForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.TryCards, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.TryCardPattern, h.handleCard)
	mux.HandleFunc(http.MethodGet+" "+routepath.TryEditPattern, h.handleEditForm)
	mux.HandleFunc(http.MethodPut+" "+routepath.TryCardResourcePattern, h.handleUpdate)
	mux.HandleFunc(http.MethodDelete+" "+routepath.TryCardResourcePattern, h.handleDelete)
	mux.HandleFunc(http.MethodPost+" "+routepath.TryCardReorder, h.handleReorder)
}
