package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw payload messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer normalizes a raw payload message into a forecast document.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.ForecastDocument, error)
}

// BatchLoader writes multiple forecast documents to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Pipeline orchestrates the extract-normalize-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Ready reports whether at least one forecast has been loaded.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// CheckReadiness returns nil once a forecast has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any forecast yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Doubles after every failed extract or load, capped at maxBackoff, and
	// resets once a batch is read again.
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.wait(ctx, backoff)
	}
	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	docs, built := p.normalize(ctx, rawBatch)
	if len(docs) == 0 {
		return true
	}

	if err := p.loader.LoadBatch(ctx, docs); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(docs))
		// Offsets stay uncommitted so the batch is redelivered.
		return p.wait(ctx, backoff)
	}

	p.metrics.MessagesProduced.Add(float64(len(docs)))
	for _, raw := range built {
		p.commit(ctx, raw)
	}
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return true
}

// normalize builds a document per message. A message whose payload cannot be
// built is logged, counted and committed so it is not redelivered.
func (p *Pipeline) normalize(ctx context.Context, rawBatch []domain.RawEvent) ([]domain.ForecastDocument, []domain.RawEvent) {
	docs := make([]domain.ForecastDocument, 0, len(rawBatch))
	built := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		doc, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("forecast build failed, skipping message",
				"error", err,
				"key", string(raw.Key),
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.WithLabelValues(ErrorKind(err)).Inc()
			p.commit(ctx, raw)
			continue
		}
		docs = append(docs, doc)
		built = append(built, raw)
	}
	return docs, built
}

// wait sleeps for the current backoff and doubles it. Returns false if the
// context ended first.
func (p *Pipeline) wait(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = min(*backoff*2, maxBackoff)
	return true
}

// commit commits the message offset if a commit function is available.
func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
