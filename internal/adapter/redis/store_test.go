package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s := NewStoreWithClient(client, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func testDocument(location string) domain.ForecastDocument {
	return domain.ForecastDocument{
		ID:       location + "-abc",
		Location: location,
		BuildID:  "build-1",
		Days: domain.Forecast{{
			Day:         "Fr",
			Temperature: []domain.RangedSample{{Time: 6, Value: 12.5, Low: 11, High: 14}},
			Wind:        []domain.WindSample{{Time: 6, Strength: 9, Direction: "SW"}},
			TempMin:     10,
			TempMax:     15,
			RainMax:     10,
		}},
		Long:        domain.LongRangeView{DayLabels: "Fr", TempMin: 10, TempMax: 15, RainMax: 10},
		ProcessedAt: time.Date(2020, time.May, 1, 6, 0, 0, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	doc := testDocument("8001")
	require.NoError(t, s.Put(ctx, doc))

	got, err := s.Get(ctx, "8001")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	assert.True(t, mr.Exists("forecast:v1:8001"))
	assert.Equal(t, time.Hour, mr.TTL("forecast:v1:8001"))
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "9999")
	assert.ErrorIs(t, err, domain.ErrForecastNotFound)
}

func TestStore_GetCorrupt(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set("forecast:v1:8001", "{not json"))

	_, err := s.Get(context.Background(), "8001")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrForecastNotFound)
	assert.Contains(t, err.Error(), "decode forecast 8001")
}

func TestStore_LoadBatch(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoadBatch(ctx, []domain.ForecastDocument{testDocument("8001"), testDocument("3000")}))
	assert.True(t, mr.Exists("forecast:v1:8001"))
	assert.True(t, mr.Exists("forecast:v1:3000"))

	require.NoError(t, s.LoadBatch(ctx, nil))
}

func TestStore_TTLExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, testDocument("8001")))

	mr.FastForward(2 * time.Hour)

	_, err := s.Get(ctx, "8001")
	assert.ErrorIs(t, err, domain.ErrForecastNotFound)
}

func TestStore_CheckReadiness(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.CheckReadiness(context.Background()))

	mr.Close()
	assert.Error(t, s.CheckReadiness(context.Background()))
}
