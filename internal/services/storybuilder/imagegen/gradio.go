package imagegen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultGradioURL is the public FLUX.1-dev Space.
const DefaultGradioURL = "https://black-forest-labs-flux-1-dev.hf.space"

const gradioEndpoint = "/gradio_api/call/infer"

// Gradio calls a Gradio Space through its REST call protocol: submit the
// inputs, read the event stream for the result, then download the file.
type Gradio struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGradio builds a Gradio generator for baseURL.
func NewGradio(baseURL string, client *http.Client, logger *zap.Logger) *Gradio {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultGradioURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gradio{baseURL: baseURL, client: client, logger: logger}
}

// gradioInputs mirrors the infer endpoint's positional parameters: prompt,
// seed, randomize seed, width, height, guidance scale, inference steps.
func gradioInputs(prompt string) []any {
	return []any{prompt, 0, true, 512, 512, 3.5, 28}
}

// Generate implements Generator.
func (g *Gradio) Generate(ctx context.Context, prompt string) ([]byte, error) {
	log := g.logger.With(zap.String("gradio_url", g.baseURL))

	eventID, err := g.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	log.Debug("gradio job submitted", zap.String("event_id", eventID))

	fileURL, err := g.await(ctx, eventID)
	if err != nil {
		return nil, err
	}
	log.Debug("gradio job complete", zap.String("file_url", fileURL))

	data, err := g.download(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, generationError("gradio returned an empty image")
	}
	return data, nil
}

func (g *Gradio) submit(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{"data": gradioInputs(prompt)})
	if err != nil {
		return "", fmt.Errorf("marshal gradio request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+gradioEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gradio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", generationError("gradio submit: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", generationError("gradio submit returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}
	var payload struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", generationError("decode gradio submit: %v", err)
	}
	if payload.EventID == "" {
		return "", generationError("gradio submit returned no event id")
	}
	return payload.EventID, nil
}

func (g *Gradio) await(ctx context.Context, eventID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+gradioEndpoint+"/"+eventID, nil)
	if err != nil {
		return "", fmt.Errorf("build gradio result request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", generationError("gradio result: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", generationError("gradio result returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			switch event {
			case "complete":
				return g.fileURL(data)
			case "error":
				return "", generationError("gradio job failed: %s", data)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", generationError("read gradio stream: %v", err)
	}
	return "", generationError("gradio stream ended without a result")
}

// fileURL extracts the image location from a complete event payload. The
// first output is a file descriptor carrying either a url or a path.
func (g *Gradio) fileURL(data string) (string, error) {
	var outputs []json.RawMessage
	if err := json.Unmarshal([]byte(data), &outputs); err != nil {
		return "", generationError("decode gradio result: %v", err)
	}
	if len(outputs) == 0 {
		return "", generationError("gradio result has no outputs")
	}
	var file struct {
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal(outputs[0], &file); err != nil {
		return "", generationError("decode gradio file: %v", err)
	}
	switch {
	case file.URL != "":
		return file.URL, nil
	case file.Path != "":
		return g.baseURL + "/gradio_api/file=" + file.Path, nil
	default:
		return "", generationError("gradio result has no file")
	}
}

func (g *Gradio) download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build gradio download: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, generationError("gradio download: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, generationError("gradio download returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, generationError("read gradio image: %v", err)
	}
	return data, nil
}

func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(data))
}
