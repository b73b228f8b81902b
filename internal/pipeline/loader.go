package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/forecast-etl/internal/domain"
)

// FanOutLoader loads every batch into each loader in order and stops at the
// first failure, so the batch is retried as a whole.
type FanOutLoader []BatchLoader

func (f FanOutLoader) LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error {
	for i, l := range f {
		if err := l.LoadBatch(ctx, docs); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}

// StoreLoader adapts a domain.ForecastStore into a BatchLoader.
type StoreLoader struct {
	Store domain.ForecastStore
}

func (s StoreLoader) LoadBatch(ctx context.Context, docs []domain.ForecastDocument) error {
	for i := range docs {
		if err := s.Store.Put(ctx, docs[i]); err != nil {
			return err
		}
	}
	return nil
}
