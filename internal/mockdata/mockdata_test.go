package mockdata_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/mockdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_BuildsCleanly(t *testing.T) {
	start := time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)
	payload, err := mockdata.PayloadJSON(mockdata.Options{Start: start, Days: 5})
	require.NoError(t, err)

	fc, long, err := domain.Normalize(payload, domain.BuildOptions{IconBasePath: "/icons", Location: time.UTC})
	require.NoError(t, err)
	require.Len(t, fc, 5)

	assert.Equal(t, "Fr", fc[0].Day)
	assert.Len(t, fc[0].Temperature, 9, "8 samples plus the next day's first")
	assert.Len(t, fc[4].Temperature, 8, "last day has no bleed-over")
	assert.Len(t, fc[0].Icons, 4)
	assert.Equal(t, "Fr,Sa,Su,Mo,Tu", long.DayLabels)
	assert.GreaterOrEqual(t, long.RainMax, 10)
}

func TestPayload_Deterministic(t *testing.T) {
	opts := mockdata.Options{Start: time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC), Days: 3}
	a, err := mockdata.PayloadJSON(opts)
	require.NoError(t, err)
	b, err := mockdata.PayloadJSON(opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
