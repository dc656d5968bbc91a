package probe

import (
	"net/http"

	"github.com/louisbranch/storybuilder/internal/services/storybuilder/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.ProbePage, h.handlePage)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProbeRun, h.handleRun)
}
