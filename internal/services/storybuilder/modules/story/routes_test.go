package story

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(service{}, "", zap.NewNop()))
}

func TestRegisterRoutesMethodContract(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(service{}, "", zap.NewNop()))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodPost, path: "/", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/clear-data", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/load-template/adventure", want: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/load-template/", want: http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.want {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}

func TestModuleID(t *testing.T) {
	t.Parallel()

	if got := (Module{}).ID(); got != "story" {
		t.Fatalf("ID() = %q, want %q", got, "story")
	}
}
