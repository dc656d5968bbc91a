package iconslots

import (
	"net/http"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.IconPattern, h.handleImage)
	mux.HandleFunc(http.MethodGet+" "+routepath.IconStatusPattern, h.handleStatus)
	mux.HandleFunc(http.MethodPost+" "+routepath.IconGeneratePattern, h.handleGenerate)
	mux.HandleFunc(http.MethodGet+" "+routepath.PlaceholderIcon, h.handlePlaceholder)
}
