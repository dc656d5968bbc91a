package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultInferenceURL is the Hugging Face inference router.
	DefaultInferenceURL = "https://router.huggingface.co/hf-inference/models"
	// DefaultInferenceModel is the text-to-image model used for icons.
	DefaultInferenceModel = "black-forest-labs/FLUX.1-dev"
)

// Inference calls the Hugging Face text-to-image inference API, which
// answers with raw image bytes.
type Inference struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewInference builds an authenticated inference generator.
func NewInference(baseURL, model, token string, client *http.Client, logger *zap.Logger) *Inference {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultInferenceURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultInferenceModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inference{baseURL: baseURL, model: model, token: token, client: client, logger: logger}
}

// Generate implements Generator.
func (c *Inference) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}
	endpoint := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	c.logger.Debug("sending inference request", zap.String("url", endpoint))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, generationError("inference request: %v", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, generationError("inference returned %d: %s", resp.StatusCode, strings.TrimSpace(string(truncate(data, 512))))
	}
	if readErr != nil {
		return nil, generationError("read inference image: %v", readErr)
	}
	if len(data) == 0 {
		return nil, generationError("inference returned an empty image")
	}
	return data, nil
}

func truncate(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}
