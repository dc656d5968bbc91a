// Package icons runs background icon generation for card slots.
//
// A request marks the slot pending with the placeholder image, then a worker
// calls the image backend and either stores the result (ready) or clears the
// slot (absent). Results for slots whose text changed meanwhile are dropped.
package icons

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/storybuilder/internal/platform/timeouts"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/imagegen"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/metrics"
	"github.com/louisbranch/storybuilder/internal/services/storybuilder/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrQueueFull is returned when no queue slot is free; the icon slot is
	// reset to absent.
	ErrQueueFull = errors.New("icon queue is full")
	// ErrQueueClosed is returned after Shutdown.
	ErrQueueClosed = errors.New("icon queue is closed")
	// ErrStale marks a job whose result was dropped because the slot moved on.
	ErrStale = errors.New("icon slot changed before generation finished")
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 64
	storeWriteBudget = 5 * time.Second
	tracerName       = "github.com/louisbranch/storybuilder/internal/services/storybuilder/icons"
)

// SlotStore is the storage subset the queue writes through.
type SlotStore interface {
	PutIcon(ctx context.Context, ref storage.IconRef, icon storage.Icon) error
	CompleteIcon(ctx context.Context, ref storage.IconRef, jobID, sourceText string, icon storage.Icon) (bool, error)
	ReleaseIcon(ctx context.Context, ref storage.IconRef, jobID string) (bool, error)
}

// Config sizes the worker pool.
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	Tracer     trace.Tracer
}

// Job is a handle on one submitted generation.
type Job struct {
	ID         string
	Ref        storage.IconRef
	SourceText string
	Prompt     string

	done chan struct{}
	err  error
}

// Done is closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the job failure once Done is closed. Stale results report
// ErrStale.
func (j *Job) Err() error {
	select {
	case <-j.done:
		return j.err
	default:
		return nil
	}
}

// Wait blocks until the job finishes or ctx ends.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) finish(err error) {
	j.err = err
	close(j.done)
}

// Queue is a bounded pool of icon workers.
type Queue struct {
	store   SlotStore
	gen     imagegen.Generator
	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan *Job

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewQueue starts the worker pool. Call Shutdown to stop it.
func NewQueue(store SlotStore, gen imagegen.Generator, cfg Config) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = timeouts.ImageGeneration
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(tracerName)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	q := &Queue{
		store:   store,
		gen:     gen,
		logger:  cfg.Logger.Named("icons"),
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
		timeout: cfg.JobTimeout,
		jobs:    make(chan *Job, cfg.QueueSize),
		group:   group,
		cancel:  cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		group.Go(func() error {
			for job := range q.jobs {
				q.metrics.SetQueueDepth(len(q.jobs))
				q.run(ctx, job)
			}
			return nil
		})
	}
	return q
}

// Enabled reports whether submissions reach a real backend.
func (q *Queue) Enabled() bool {
	if q == nil || q.gen == nil {
		return false
	}
	_, disabled := q.gen.(imagegen.Disabled)
	return !disabled
}

// Submit marks the slot pending and queues a generation for sourceText.
// With the none backend the slot is left untouched and imagegen.ErrDisabled
// is returned.
func (q *Queue) Submit(ctx context.Context, ref storage.IconRef, sourceText string) (*Job, error) {
	if !q.Enabled() {
		return nil, imagegen.ErrDisabled
	}
	if !ref.Valid() {
		return nil, fmt.Errorf("submit icon job: unknown slot %s", ref)
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return nil, ErrQueueClosed
	}

	job := &Job{
		ID:         uuid.NewString(),
		Ref:        ref,
		SourceText: sourceText,
		Prompt:     imagegen.BuildPrompt(sourceText, PromptLabel(ref.Slot)),
		done:       make(chan struct{}),
	}
	pending := storage.Icon{Status: storage.IconPending, Payload: Placeholder(), JobID: job.ID}
	if err := q.store.PutIcon(ctx, ref, pending); err != nil {
		return nil, fmt.Errorf("mark icon pending: %w", err)
	}
	select {
	case q.jobs <- job:
		q.metrics.SetQueueDepth(len(q.jobs))
		q.logger.Debug("icon job queued", zap.String("job_id", job.ID), zap.Stringer("slot", ref))
		return job, nil
	default:
		q.metrics.ObserveIconJob(ref.Label(), metrics.OutcomeRejected, 0)
		if _, err := q.store.ReleaseIcon(ctx, ref, job.ID); err != nil {
			q.logger.Error("reset rejected icon slot", zap.Stringer("slot", ref), zap.Error(err))
		}
		return nil, ErrQueueFull
	}
}

// Shutdown stops intake and waits for queued and in-flight jobs. When ctx
// ends first, in-flight generations are canceled and their slots cleared.
func (q *Queue) Shutdown(ctx context.Context) error {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- q.group.Wait() }()

	select {
	case err := <-done:
		q.cancel()
		return err
	case <-ctx.Done():
		q.cancel()
		<-done
		return ctx.Err()
	}
}

func (q *Queue) run(ctx context.Context, job *Job) {
	start := time.Now()
	label := job.Ref.Label()
	log := q.logger.With(zap.String("job_id", job.ID), zap.Stringer("slot", job.Ref))

	ctx, span := q.tracer.Start(ctx, "icons.generate", trace.WithAttributes(
		attribute.String("icon.slot", label),
		attribute.Int64("card.id", job.Ref.CardID),
		attribute.String("job.id", job.ID),
	))
	defer span.End()

	data, err := q.generate(ctx, job.Prompt)
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeWriteBudget)
	defer cancel()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		log.Warn("icon generation failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		q.release(writeCtx, job, log)
		q.metrics.ObserveIconJob(label, metrics.OutcomeFailure, time.Since(start))
		job.finish(err)
		return
	}

	wrote, err := q.store.CompleteIcon(writeCtx, job.Ref, job.ID, job.SourceText, storage.Icon{Status: storage.IconReady, Payload: data})
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		log.Error("store generated icon", zap.Error(err))
		q.release(writeCtx, job, log)
		q.metrics.ObserveIconJob(label, metrics.OutcomeFailure, time.Since(start))
		job.finish(fmt.Errorf("store icon: %w", err))
	case !wrote:
		log.Info("discarded stale icon")
		q.release(writeCtx, job, log)
		q.metrics.ObserveIconJob(label, metrics.OutcomeDiscarded, time.Since(start))
		job.finish(ErrStale)
	default:
		log.Info("icon generated", zap.Int("size_bytes", len(data)), zap.Duration("elapsed", time.Since(start)))
		q.metrics.ObserveIconJob(label, metrics.OutcomeSuccess, time.Since(start))
		job.finish(nil)
	}
}

// release clears a slot the job still owns. A newer job keeps its pending
// slot.
func (q *Queue) release(ctx context.Context, job *Job, log *zap.Logger) {
	released, err := q.store.ReleaseIcon(ctx, job.Ref, job.ID)
	if err != nil {
		log.Error("reset icon slot", zap.Error(err))
		return
	}
	if released {
		log.Debug("icon slot reset to absent")
	}
}

func (q *Queue) generate(ctx context.Context, prompt string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	data, err := q.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", imagegen.ErrGeneration)
	}
	return data, nil
}
