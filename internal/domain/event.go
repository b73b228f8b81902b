package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic. Value
// holds a provider payload.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ForecastDocument is a normalized forecast for one location, as published to
// the sink topic and kept in the store.
type ForecastDocument struct {
	ID          string        `json:"id"`
	Location    string        `json:"location"`
	BuildID     string        `json:"build_id"`
	Days        Forecast      `json:"days"`
	Long        LongRangeView `json:"long"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// Day returns the record at index, or false when index is out of range.
func (d ForecastDocument) Day(index int) (DayRecord, bool) {
	if index < 0 || index >= len(d.Days) {
		return DayRecord{}, false
	}
	return d.Days[index], true
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ForecastStore keeps the latest ForecastDocument per location.
type ForecastStore interface {
	// Get returns ErrForecastNotFound when no document is stored for location.
	Get(ctx context.Context, location string) (ForecastDocument, error)
	Put(ctx context.Context, doc ForecastDocument) error
}
