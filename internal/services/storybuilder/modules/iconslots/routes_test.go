package iconslots

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
		{method: http.MethodPost, path: "/icons/try/1/consequence", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/icons/try/1/consequence/generate", want: http.StatusMethodNotAllowed},
		{method: http.MethodGet, path: "/icons/try/x/consequence", want: http.StatusBadRequest},
		{method: http.MethodGet, path: "/icons/try/1/opening/status", want: http.StatusNotFound},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		if rr.Code != tc.want {
			t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, rr.Code, tc.want)
		}
	}
}
