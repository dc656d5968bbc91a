// Package imagegen turns card text into icon images through a configurable
// text-to-image backend.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrGeneration wraps every backend failure.
var ErrGeneration = errors.New("image generation failed")

// ErrDisabled is returned by the none backend.
var ErrDisabled = errors.New("image generation is disabled")

// ErrConfig reports a backend that cannot run with the given settings.
var ErrConfig = errors.New("image backend misconfigured")

// MaxPromptLength bounds prompts sent to any backend.
const MaxPromptLength = 200

// Backend names a generator implementation.
type Backend string

const (
	BackendGradio    Backend = "gradio"
	BackendInference Backend = "inference"
	BackendOpenAI    Backend = "openai"
	BackendNone      Backend = "none"
)

// Generator produces image bytes for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend        Backend
	HFToken        string
	GradioURL      string
	InferenceURL   string
	InferenceModel string
	OpenAIKey      string
	OpenAIBaseURL  string
	Timeout        time.Duration
	HTTPClient     *http.Client
}

// New builds the generator selected by cfg.Backend.
func New(cfg Config, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger = logger.With(zap.String("image_backend", string(cfg.Backend)))

	switch Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend)))) {
	case BackendGradio, "":
		return NewGradio(cfg.GradioURL, client, logger), nil
	case BackendInference:
		if strings.TrimSpace(cfg.HFToken) == "" {
			return nil, fmt.Errorf("%w: HF_TOKEN is required for the inference backend", ErrConfig)
		}
		return NewInference(cfg.InferenceURL, cfg.InferenceModel, cfg.HFToken, client, logger), nil
	case BackendOpenAI:
		if strings.TrimSpace(cfg.OpenAIKey) == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for the openai backend", ErrConfig)
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, client, logger), nil
	case BackendNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrConfig, cfg.Backend)
	}
}

// Label is a human readable backend description used by the probe page.
func Label(backend Backend) string {
	switch backend {
	case BackendGradio, "":
		return "Gradio API (Free)"
	case BackendInference:
		return "Inference API (Paid)"
	case BackendOpenAI:
		return "OpenAI Images API"
	case BackendNone:
		return "Disabled"
	default:
		return string(backend)
	}
}

// BuildPrompt trims text and prefixes an optional label. Results longer
// than MaxPromptLength runes are cut back to a word boundary and end in "...".
func BuildPrompt(text, label string) string {
	prompt := strings.TrimSpace(text)
	if label != "" {
		prompt = label + ": " + prompt
	}

	runes := []rune(prompt)
	if len(runes) <= MaxPromptLength {
		return prompt
	}
	cut := string(runes[:MaxPromptLength])
	if idx := strings.LastIndex(cut, " "); idx >= 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

// Disabled is the none backend.
type Disabled struct{}

// Generate always fails with ErrDisabled.
func (Disabled) Generate(context.Context, string) ([]byte, error) {
	return nil, ErrDisabled
}

func generationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrGeneration, fmt.Sprintf(format, args...))
}
