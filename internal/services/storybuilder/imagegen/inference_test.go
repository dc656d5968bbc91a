package imagegen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInferenceGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/black-forest-labs/FLUX.1-dev" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf_test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["inputs"] != "a castle" {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("castle-png"))
	}))
	t.Cleanup(srv.Close)

	gen := NewInference(srv.URL+"/models", "", "hf_test", srv.Client(), nil)
	data, err := gen.Generate(context.Background(), "a castle")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(data) != "castle-png" {
		t.Fatalf("data = %q, want castle-png", data)
	}
}

func TestInferenceGeneratePaymentRequired(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"payment required"}`, http.StatusPaymentRequired)
	}))
	t.Cleanup(srv.Close)

	_, err := NewInference(srv.URL, "m", "hf", srv.Client(), nil).Generate(context.Background(), "x")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
}
