package tryfail

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
		{method: http.MethodGet, path: "/try-cards/1/reorder", want: http.StatusMethodNotAllowed},
		{method: http.MethodPost, path: "/try-cards/1", want: http.StatusMethodNotAllowed},
		{method: http.MethodDelete, path: "/try-cards/abc", want: http.StatusBadRequest},
		{method: http.MethodPost, path: "/try-cards/abc/reorder", want: http.StatusBadRequest},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.want {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}
