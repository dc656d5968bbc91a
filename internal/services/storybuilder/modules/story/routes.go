package story

import (
	"net/http"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.ClearData, h.handleClear)
	mux.HandleFunc(http.MethodPost+" "+routepath.LoadTemplatePattern, h.handleLoadTemplate)
}
