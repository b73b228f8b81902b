package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const forecastKeyFormat = "forecast:v1:%s"

// Store keeps the latest ForecastDocument per location in Redis.
// It implements domain.ForecastStore and pipeline.BatchLoader.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore connects to addr. Documents expire after ttl.
func NewStore(addr string, ttl time.Duration, logger *slog.Logger) *Store {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	return NewStoreWithClient(client, ttl, logger)
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{client: client, ttl: ttl, logger: logger}
}

func forecastKey(location string) string {
	return fmt.Sprintf(forecastKeyFormat, location)
}

// Get returns domain.ErrForecastNotFound when the location has no document.
func (s *Store) Get(ctx context.Context, location string) (domain.ForecastDocument, error) {
	data, err := s.client.Get(ctx, forecastKey(location)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.ForecastDocument{}, domain.ErrForecastNotFound
	}
	if err != nil {
		return domain.ForecastDocument{}, fmt.Errorf("get forecast %s: %w", location, err)
	}

	var doc domain.ForecastDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ForecastDocument{}, fmt.Errorf("decode forecast %s: %w", location, err)
	}
	return doc, nil
}

func (s *Store) Put(ctx context.Context, doc domain.ForecastDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode forecast %s: %w", doc.Location, err)
	}
	if err := s.client.Set(ctx, forecastKey(doc.Location), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set forecast %s: %w", doc.Location, err)
	}
	return nil
}

// LoadBatch stores every document in a single pipelined round trip.
func (s *Store) LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.client.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for i := range docs {
			data, err := json.Marshal(docs[i])
			if err != nil {
				return fmt.Errorf("encode forecast %s: %w", docs[i].Location, err)
			}
			p.Set(ctx, forecastKey(docs[i].Location), data, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store forecast batch: %w", err)
	}
	s.logger.Debug("stored forecast batch", "count", len(docs))
	return nil
}

// CheckReadiness pings the server.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
