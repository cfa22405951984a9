package pagination

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daybook/internal/domain/entity"
)

func TestParseQueryParams(t *testing.T) {
	cfg := Config{DefaultLimit: 10, MaxLimit: 50}

	tests := []struct {
		name    string
		query   string
		want    Params
		wantErr error
	}{
		{"defaults", "", Params{Page: 1, Limit: 10}, nil},
		{"page only", "page=3", Params{Page: 3, Limit: 10}, nil},
		{"limit only", "limit=25", Params{Page: 1, Limit: 25}, nil},
		{"both", "page=2&limit=50", Params{Page: 2, Limit: 50}, nil},
		{"page zero", "page=0", Params{}, entity.ErrInvalidIndex},
		{"page negative", "page=-1", Params{}, entity.ErrInvalidIndex},
		{"page not a number", "page=two", Params{}, entity.ErrInvalidIndex},
		{"limit zero", "limit=0", Params{}, ErrInvalidLimit},
		{"limit above max", "limit=51", Params{}, ErrInvalidLimit},
		{"limit not a number", "limit=lots", Params{}, ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/entries?"+tt.query, nil)

			got, err := ParseQueryParams(r, cfg)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrInvalidLimit_IsInvalidInput(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidLimit, entity.ErrInvalidInput))
}

func TestParams_Validate(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, Params{Page: 1, Limit: 1}.Validate(cfg))
	assert.NoError(t, Params{Page: 7, Limit: 100}.Validate(cfg))
	assert.ErrorIs(t, Params{Page: 0, Limit: 10}.Validate(cfg), entity.ErrInvalidIndex)
	assert.ErrorIs(t, Params{Page: 1, Limit: 101}.Validate(cfg), ErrInvalidLimit)
}

func TestOffset(t *testing.T) {
	tests := []struct{ index, n, want int }{
		{1, 10, 0},
		{2, 10, 10},
		{3, 7, 14},
		{1, 1, 0},
		{0, 10, 0},
		{1_000_000_000_000_000_000, 10, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt},
		{math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{math.MaxInt/10 + 2, 10, math.MaxInt},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Offset(tt.index, tt.n), "Offset(%d, %d)", tt.index, tt.n)
	}
}

func TestLastPage(t *testing.T) {
	tests := []struct {
		total int64
		n     int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{3, 2, 2},
		{100, 20, 5},
		{5, 0, 0},
		{math.MaxInt64, 1, math.MaxInt},
		{math.MaxInt64, 10, math.MaxInt64/10 + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastPage(tt.total, tt.n), "LastPage(%d, %d)", tt.total, tt.n)
	}
}

func TestPageBucket(t *testing.T) {
	assert.Equal(t, "1", pageBucket(1))
	assert.Equal(t, "2-10", pageBucket(10))
	assert.Equal(t, "11-100", pageBucket(11))
	assert.Equal(t, "100+", pageBucket(101))
}

func TestRecordRequestAndError(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("month", "2-10"))
	RecordRequest("month", 4)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("month", "2-10")))

	beforeErr := testutil.ToFloat64(ErrorsTotal.WithLabelValues("keywords", "unavailable"))
	RecordError("keywords", "unavailable")
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(ErrorsTotal.WithLabelValues("keywords", "unavailable")))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := Params{Page: 2, Limit: 5}

	LogRequest(logger, "req-1", entity.ByYearMonth{Year: 2024, Month: time.March}, p)
	LogResponse(logger, "req-1", p, 5, 12*time.Millisecond, 200)
	LogError(logger, "req-1", p, errors.New("index down"), "unavailable")

	out := buf.String()
	assert.Contains(t, out, `"condition":"month:2024-03"`)
	assert.Contains(t, out, `"kind":"month"`)
	assert.Contains(t, out, `"returned_count":5`)
	assert.Contains(t, out, `"duration_ms":12`)
	assert.Contains(t, out, `"error":"index down"`)
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte(`"request_id":"req-1"`)))
}
