package mice

import (
	"net/http"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.MiceForm, h.handleCreateForm)
	mux.HandleFunc(http.MethodGet+" "+routepath.MiceFormClear, h.handleClearForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.MiceCards, h.handleCreate)
	mux.HandleFunc(http.MethodGet+" "+routepath.MiceCardPattern, h.handleCard)
	mux.HandleFunc(http.MethodGet+" "+routepath.MiceEditPattern, h.handleEditForm)
	mux.HandleFunc(http.MethodPut+" "+routepath.MiceCardResourcePattern, h.handleUpdate)
	mux.HandleFunc(http.MethodDelete+" "+routepath.MiceCardResourcePattern, h.handleDelete)
}
