// Package module defines the feature contract used by story builder composition.
package module

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/storybuilder/internal/platform/logging"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
)

// Module declares the minimum contract required by composition.
type Module interface {
	ID() string
	// Mount registers the module's routes on mux.
	Mount(mux *http.ServeMux) error
}

// IconSubmitter queues icon generation for one card slot.
type IconSubmitter interface {
	Submit(ctx context.Context, ref storage.IconRef, sourceText string) (*icons.Job, error)
}

// Icons requests icon generation on behalf of card handlers.
type Icons struct {
	Submitter IconSubmitter
	// Auto enables generation when cards are created or their text changes.
	Auto   bool
	Logger *zap.Logger
}

// Request queues generation for ref. Failures to queue are logged and
// reported; the caller's write has already succeeded.
func (i Icons) Request(ctx context.Context, ref storage.IconRef, sourceText string) error {
	if i.Submitter == nil {
		return imagegen.ErrDisabled
	}
	logger := logging.OrNop(i.Logger)
	job, err := i.Submitter.Submit(ctx, ref, sourceText)
	switch {
	case err == nil:
		logger.Debug("icon requested", zap.Stringer("slot", ref), zap.String("job_id", job.ID))
	case errors.Is(err, imagegen.ErrDisabled):
		logger.Debug("icon generation disabled", zap.Stringer("slot", ref))
	case errors.Is(err, icons.ErrQueueFull):
		logger.Warn("icon queue full", zap.Stringer("slot", ref))
	default:
		logger.Error("request icon", zap.Stringer("slot", ref), zap.Error(err))
	}
	return err
}

// AutoRequest is Request gated on the Auto flag.
func (i Icons) AutoRequest(ctx context.Context, ref storage.IconRef, sourceText string) {
	if !i.Auto {
		return
	}
	_ = i.Request(ctx, ref, sourceText)
}
