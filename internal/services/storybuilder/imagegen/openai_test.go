package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Prompt         string `json:"prompt"`
			ResponseFormat string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Prompt != "a comet" || req.ResponseFormat != "b64_json" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("comet"))}},
		})
	}))
	t.Cleanup(srv.Close)

	gen := NewOpenAI("sk-test", srv.URL+"/v1/", srv.Client(), nil)
	data, err := gen.Generate(context.Background(), "a comet")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(data) != "comet" {
		t.Fatalf("data = %q, want comet", data)
	}
}

func TestOpenAIGenerateEmptyResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewOpenAI("sk-test", srv.URL+"/v1", srv.Client(), nil).Generate(context.Background(), "x")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
}
