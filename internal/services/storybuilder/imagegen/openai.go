package imagegen

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI generates icons through an OpenAI-compatible images endpoint.
type OpenAI struct {
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAI builds an images client. An empty baseURL keeps the library
// default.
func NewOpenAI(apiKey, baseURL string, httpClient *http.Client, logger *zap.Logger) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{client: openai.NewClientWithConfig(config), logger: logger}
}

// Generate implements Generator.
func (c *OpenAI) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          openai.CreateImageModelDallE2,
		N:              1,
		Size:           openai.CreateImageSize512x512,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, generationError("openai create image: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, generationError("openai returned no image data")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, generationError("decode openai image: %v", err)
	}
	c.logger.Debug("openai image received", zap.Int("size_bytes", len(data)))
	return data, nil
}
