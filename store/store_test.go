package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "eqx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqx.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	// Opening a second handle against the same file must not fail on
	// re-applying the schema.
	s2, err := Open(path)
	require.NoError(t, err)
	s2.Close()
}

func TestSnapshotsAppendOnce(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	snaps := []market.DailySnapshot{
		{Date: day(0), Ticker: "AAA", Close: market.Float(10), MarketCap: market.Float(1000)},
		{Date: day(0), Ticker: "BBB", Close: market.Float(20), MarketCap: market.Float(2000)},
	}
	require.NoError(t, s.AppendSnapshots(ctx, snaps))

	// A second ingest of the same day must not duplicate or overwrite rows.
	snaps[0].Close = market.Float(99)
	require.NoError(t, s.AppendSnapshots(ctx, snaps))

	got, err := s.SnapshotsForDate(ctx, day(0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAA", got[0].Ticker)
	assert.Equal(t, 10.0, *got[0].Close)
	assert.Equal(t, "BBB", got[1].Ticker)
}

func TestSnapshotsNullFieldsRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	snaps := []market.DailySnapshot{
		{Date: day(0), Ticker: "AAA", Close: nil, AdjClose: nil, Volume: nil, MarketCap: nil},
	}
	require.NoError(t, s.AppendSnapshots(ctx, snaps))

	got, err := s.SnapshotsForDate(ctx, day(0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Close)
	assert.Nil(t, got[0].MarketCap)
	assert.Nil(t, got[0].Volume)
}

func TestSnapshotsBetween(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	var snaps []market.DailySnapshot
	for i := 0; i < 4; i++ {
		snaps = append(snaps, market.DailySnapshot{
			Date: day(i), Ticker: "AAA", Close: market.Float(float64(10 + i)),
		})
	}
	require.NoError(t, s.AppendSnapshots(ctx, snaps))

	got, err := s.SnapshotsBetween(ctx, day(1), day(2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, day(1), got[0].Date)
	assert.Equal(t, day(2), got[1].Date)
}

func TestBenchmarkUpsertAndMissing(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertBenchmark(ctx, market.BenchmarkRow{Date: day(0), Close: market.Float(450)}))
	require.NoError(t, s.UpsertBenchmark(ctx, market.BenchmarkRow{Date: day(0), Close: market.Float(455)}))

	got, err := s.BenchmarkForDate(ctx, day(0))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 455.0, *got.Close)

	missing, err := s.BenchmarkForDate(ctx, day(9))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIndexRecordUpsertIdempotent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	rec := market.IndexRecord{
		Date: day(0), IndexLevel: 100,
		BenchmarkLevel: market.Float(450),
		Tickers:        []string{"AAA", "BBB"},
	}
	require.NoError(t, s.UpsertIndexRecord(ctx, rec))

	rec.IndexLevel = 101.5
	rec.Tickers = []string{"AAA", "CCC"}
	require.NoError(t, s.UpsertIndexRecord(ctx, rec))

	series, err := s.IndexSeriesThrough(ctx, day(0))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 101.5, series[0].IndexLevel)
	assert.Equal(t, []string{"AAA", "CCC"}, series[0].Tickers)
}

func TestPrevIndexRecord(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.UpsertIndexRecord(ctx, market.IndexRecord{
			Date: day(i), IndexLevel: 100 + float64(i), Tickers: []string{"AAA"},
		}))
	}

	prev, err := s.PrevIndexRecord(ctx, day(2))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, day(1), prev.Date)
	assert.Equal(t, 101.0, prev.IndexLevel)

	first, err := s.PrevIndexRecord(ctx, day(0))
	require.NoError(t, err)
	assert.Nil(t, first)
}

func TestDailyMetricsUpsertAndWindow(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := market.DailyMetricRecord{
			Date:       day(i),
			IndexLevel: 100 + float64(i),
			RollingMax: 100 + float64(i),
			Tickers:    []string{"AAA", "BBB"},
		}
		if i > 0 {
			rec.DailyReturn = market.Float(0.01)
		}
		require.NoError(t, s.UpsertDailyMetrics(ctx, rec))
	}

	// Re-running the last day overwrites it in place.
	require.NoError(t, s.UpsertDailyMetrics(ctx, market.DailyMetricRecord{
		Date: day(4), IndexLevel: 200, RollingMax: 200, Tickers: []string{"AAA"},
	}))

	window, err := s.MetricsWindow(ctx, day(4), 3)
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, day(2), window[0].Date)
	assert.Equal(t, day(4), window[2].Date)
	assert.Equal(t, 200.0, window[2].IndexLevel)
	assert.Nil(t, window[2].DailyReturn)

	all, err := s.AllMetrics(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestMetricsNullRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertDailyMetrics(ctx, market.DailyMetricRecord{
		Date: day(0), IndexLevel: 100, RollingMax: 100, Tickers: []string{"AAA"},
	}))

	all, err := s.AllMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got := all[0]
	assert.Nil(t, got.DailyReturn)
	assert.Nil(t, got.SpyReturn)
	assert.Nil(t, got.RollingVolatility)
	assert.Nil(t, got.RollingBeta)
	assert.Nil(t, got.ExposureSimilarity)
	assert.Equal(t, 0, got.Turnover)
}

func TestSummaryUpsertKeyedByWindow(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	base := market.SummaryMetricRecord{
		AsOfDate: day(9), WindowDays: 30,
		BestDay: day(3), WorstDay: day(5),
		FinalReturn: 0.05,
	}
	require.NoError(t, s.UpsertSummary(ctx, base))

	// Same as-of date, different window: a distinct row.
	wide := base
	wide.WindowDays = 90
	wide.FinalReturn = 0.12
	require.NoError(t, s.UpsertSummary(ctx, wide))

	// Re-running the 30-day summary overwrites it.
	base.FinalReturn = 0.06
	require.NoError(t, s.UpsertSummary(ctx, base))

	got, err := s.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 30, got[0].WindowDays)
	assert.Equal(t, 0.06, got[0].FinalReturn)
	assert.Equal(t, 90, got[1].WindowDays)
	assert.Equal(t, 0.12, got[1].FinalReturn)
	assert.Equal(t, day(3), got[0].BestDay)
}

func TestSummaryNullableFieldsRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	rec := market.SummaryMetricRecord{
		AsOfDate: day(1), WindowDays: 30,
		BestDay: day(0), WorstDay: day(1),
		SharpeRatio: market.Float(1.2),
	}
	require.NoError(t, s.UpsertSummary(ctx, rec))

	got, err := s.Summaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].SharpeRatio)
	assert.Equal(t, 1.2, *got[0].SharpeRatio)
	assert.Nil(t, got[0].SortinoRatio)
	assert.Nil(t, got[0].UpCapture)
	assert.Nil(t, got[0].ReturnSkewness)
}

func TestIssuesAppendWithGeneratedIDs(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	ticker := "AAA"
	issues := []market.ValidationIssue{
		{Date: day(0), Ticker: &ticker, Field: "close", Kind: market.IssueNullValue},
		{Date: day(0), Field: "spy_close", Kind: market.IssueNonPositivePrice, Observed: market.Float(-1)},
	}
	require.NoError(t, s.AppendIssues(ctx, issues))
	require.NoError(t, s.AppendIssues(ctx, issues[:1]))

	got, err := s.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	seen := map[string]bool{}
	for _, is := range got {
		assert.NotEmpty(t, is.ID)
		assert.False(t, seen[is.ID], "duplicate issue id %s", is.ID)
		seen[is.ID] = true
	}
}

func TestAppendIssuesEmptyIsNoop(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.AppendIssues(context.Background(), nil))
}
