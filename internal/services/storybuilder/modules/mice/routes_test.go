package mice

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(service{}, zap.NewNop()))
}

func TestRegisterRoutesMethodContract(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(service{}, zap.NewNop()))

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodPost, path: "/mice-form", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/mice-cards", want: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/mice-card/1", want: http.StatusMethodNotAllowed},
		{method: http.MethodPut, path: "/mice-cards/abc", want: http.StatusBadRequest},
		{method: http.MethodGet, path: "/mice-cards/1/extra", want: http.StatusNotFound},
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

	if got := (Module{}).ID(); got != "mice" {
		t.Fatalf("ID() = %q, want %q", got, "mice")
	}
}
