package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/adapter/cache"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrMissingLocation is returned for messages with neither a location header nor a key.
var ErrMissingLocation = errors.New("message has no location")

// ForecastTransformer implements Transformer using the domain normalizer.
// Builds are memoized by location and payload digest, so a re-published
// payload is not normalized twice.
type ForecastTransformer struct {
	opts    domain.BuildOptions
	builds  *cache.LRU[domain.ForecastDocument]
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewTransformer creates a ForecastTransformer that remembers up to cacheSize builds.
func NewTransformer(opts domain.BuildOptions, cacheSize int, metrics *observability.Metrics, logger *slog.Logger) *ForecastTransformer {
	return &ForecastTransformer{
		opts:    opts,
		builds:  cache.NewLRU[domain.ForecastDocument](cacheSize),
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
		logger:  logger,
	}
}

// SetClock swaps the time source used for processed_at. Pass nil to reset to real time.
func (t *ForecastTransformer) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	t.clock = c
}

// Transform normalizes the payload carried by raw. The location comes from
// the "location" header, falling back to the message key.
func (t *ForecastTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.ForecastDocument, error) {
	location := raw.Headers["location"]
	if location == "" {
		location = string(raw.Key)
	}
	return t.Build(ctx, location, raw.Value)
}

// Build normalizes payload for location into a ForecastDocument.
func (t *ForecastTransformer) Build(_ context.Context, location string, payload []byte) (domain.ForecastDocument, error) {
	if location == "" {
		return domain.ForecastDocument{}, ErrMissingLocation
	}

	key := location + "|" + domain.PayloadDigest(payload)
	if doc, ok := t.builds.Get(key); ok {
		t.metrics.BuildCache.WithLabelValues("hit").Inc()
		t.logger.Debug("reusing cached forecast build", "location", location, "build_id", doc.BuildID)
		doc.ProcessedAt = t.clock.Now().UTC()
		return doc, nil
	}
	t.metrics.BuildCache.WithLabelValues("miss").Inc()

	start := time.Now()
	fc, long, err := domain.Normalize(payload, t.opts)
	if err != nil {
		return domain.ForecastDocument{}, err
	}
	t.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	t.metrics.ForecastDays.Observe(float64(len(fc)))

	doc := domain.ForecastDocument{
		ID:          domain.DocumentID(location, payload),
		Location:    location,
		BuildID:     uuid.NewString(),
		Days:        fc,
		Long:        long,
		ProcessedAt: t.clock.Now().UTC(),
	}
	t.builds.Put(key, doc)
	t.logger.Debug("forecast built", "location", location, "days", len(fc), "build_id", doc.BuildID)
	return doc, nil
}
