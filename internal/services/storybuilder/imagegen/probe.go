package imagegen

import (
	"context"
	"errors"
	"fmt"
)

// ProbePrompt is the fixed prompt used to test a backend.
const ProbePrompt = "A simple red circle on white background"

// ProbeResult describes one backend connection test.
type ProbeResult struct {
	Success bool
	Message string
	Mode    string
	Bytes   int
}

// Probe generates one test image and reports the outcome.
func Probe(ctx context.Context, backend Backend, gen Generator) ProbeResult {
	mode := Label(backend)
	if gen == nil {
		return ProbeResult{Mode: mode, Message: "Configuration error: no image generator configured"}
	}

	data, err := gen.Generate(ctx, ProbePrompt)
	switch {
	case errors.Is(err, ErrDisabled):
		return ProbeResult{Mode: mode, Message: "Image generation is disabled"}
	case errors.Is(err, ErrConfig):
		return ProbeResult{Mode: mode, Message: fmt.Sprintf("Configuration error: %v", err)}
	case err != nil:
		return ProbeResult{Mode: mode, Message: fmt.Sprintf("%s connection failed: %v", mode, err)}
	case len(data) == 0:
		return ProbeResult{Mode: mode, Message: fmt.Sprintf("%s connection failed: No image data returned", mode)}
	}
	return ProbeResult{
		Success: true,
		Mode:    mode,
		Bytes:   len(data),
		Message: fmt.Sprintf("%s connection successful! Generated test image (%d bytes)", mode, len(data)),
	}
}
