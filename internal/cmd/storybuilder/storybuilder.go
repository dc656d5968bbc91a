// Package storybuilder parses story builder command flags and launches the
// HTTP service.
package storybuilder

import (
	"context"
	"flag"
	"strconv"
	"time"

	entrypoint "github.com/louisbranch/storybuilder/internal/platform/cmd"
	"github.com/louisbranch/storybuilder/internal/platform/logging"
	storybuilderapp "github.com/louisbranch/storybuilder/internal/services/storybuilder/app"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
)

// ImageConfig holds the image backend settings shared by every binary that
// talks to a backend.
type ImageConfig struct {
	Backend        string        `env:"STORYBUILDER_IMAGE_BACKEND" envDefault:"gradio"`
	HFToken        string        `env:"HF_TOKEN"`
	GradioURL      string        `env:"STORYBUILDER_GRADIO_URL" envDefault:"https://black-forest-labs-flux-1-dev.hf.space"`
	InferenceURL   string        `env:"STORYBUILDER_INFERENCE_URL" envDefault:"https://router.huggingface.co/hf-inference/models"`
	InferenceModel string        `env:"STORYBUILDER_INFERENCE_MODEL" envDefault:"black-forest-labs/FLUX.1-dev"`
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"STORYBUILDER_OPENAI_BASE_URL"`
	Timeout        time.Duration `env:"STORYBUILDER_IMAGE_TIMEOUT" envDefault:"2m"`
}

// Generator returns the imagegen configuration for c.
func (c ImageConfig) Generator() imagegen.Config {
	return imagegen.Config{
		Backend:        imagegen.Backend(c.Backend),
		HFToken:        c.HFToken,
		GradioURL:      c.GradioURL,
		InferenceURL:   c.InferenceURL,
		InferenceModel: c.InferenceModel,
		OpenAIKey:      c.OpenAIKey,
		OpenAIBaseURL:  c.OpenAIBaseURL,
		Timeout:        c.Timeout,
	}
}

// Config holds story builder command configuration.
type Config struct {
	HTTPAddr      string `env:"STORYBUILDER_HTTP_ADDR" envDefault:":8001"`
	DBPath        string `env:"STORYBUILDER_DB_PATH" envDefault:"data/story_builder.db"`
	LogLevel      string `env:"STORYBUILDER_LOG_LEVEL" envDefault:"info"`
	LogEncoding   string `env:"STORYBUILDER_LOG_ENCODING" envDefault:"json"`
	IconWorkers   int    `env:"STORYBUILDER_ICON_WORKERS" envDefault:"2"`
	IconQueueSize int    `env:"STORYBUILDER_ICON_QUEUE_SIZE" envDefault:"64"`
	AutoIcons     bool   `env:"STORYBUILDER_AUTO_ICONS" envDefault:"true"`
	Image         ImageConfig
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Story builder SQLite database path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogEncoding, "log-encoding", cfg.LogEncoding, "Log encoding (json, console)")
	fs.StringVar(&cfg.Image.Backend, "image-backend", cfg.Image.Backend, "Image backend (gradio, inference, openai, none)")
	fs.BoolVar(&cfg.AutoIcons, "auto-icons", cfg.AutoIcons, "Generate icons when card text changes")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TelemetrySettings lists the settings recorded on the trace resource.
func (c Config) TelemetrySettings() map[string]string {
	return map[string]string{
		"image_backend": c.Image.Backend,
		"auto_icons":    strconv.FormatBool(c.AutoIcons),
		"icon_workers":  strconv.Itoa(c.IconWorkers),
	}
}

// Run starts the story builder service and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	options := entrypoint.RunOptions{Logger: logger, Settings: cfg.TelemetrySettings()}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceStoryBuilder, options, func(ctx context.Context) error {
		server, err := storybuilderapp.NewServer(ctx, storybuilderapp.Config{
			HTTPAddr:      cfg.HTTPAddr,
			DBPath:        cfg.DBPath,
			Image:         cfg.Image.Generator(),
			IconWorkers:   cfg.IconWorkers,
			IconQueueSize: cfg.IconQueueSize,
			AutoIcons:     cfg.AutoIcons,
			Logger:        logger,
		})
		if err != nil {
			return err
		}
		return server.ListenAndServe(ctx)
	})
}
