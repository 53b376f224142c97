// Package market defines the record types that flow through the index
// pipeline: raw per-ticker snapshots, constituent sets, chained index values,
// per-day metrics, window summaries and validation issues.
//
// Fields where a missing value must stay distinguishable from a computed zero
// are *float64; nil means "not defined for this row".
package market

import "time"

// DateLayout is the canonical day format used across the store and exports.
const DateLayout = "2006-01-02"

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DailySnapshot is one observed (date, ticker) row from the upstream feed.
// Rows are append-once: a snapshot never changes after ingestion.
type DailySnapshot struct {
	Date      time.Time
	Ticker    string
	Close     *float64
	AdjClose  *float64
	Volume    *float64
	MarketCap *float64
}

// BenchmarkRow is the single (date, close) benchmark observation for a day.
type BenchmarkRow struct {
	Date  time.Time
	Close *float64
}

// IndexRecord is one day of the chained equal-weighted index series.
// BenchmarkLevel is the raw benchmark close (not rebased) and is nil when the
// benchmark snapshot was missing that day.
type IndexRecord struct {
	Date           time.Time
	IndexLevel     float64
	BenchmarkLevel *float64
	Tickers        []string
}

// DailyMetricRecord holds the derived quantities for one index day.
// Rolling fields are nil until the trailing window has enough observations.
type DailyMetricRecord struct {
	Date               time.Time
	IndexLevel         float64
	BenchmarkLevel     *float64
	DailyReturn        *float64
	SpyReturn          *float64
	CumulativeReturn   *float64
	RollingVolatility  *float64
	RollingBeta        *float64
	RollingMax         float64
	Drawdown           float64
	DrawdownPct        *float64
	Turnover           int
	ExposureSimilarity *float64
	Tickers            []string
}

// SummaryMetricRecord is the window-level aggregate produced on demand for a
// trailing slice of daily metrics. It is recomputed wholesale each run.
type SummaryMetricRecord struct {
	WindowDays int
	AsOfDate   time.Time

	BestDay  time.Time
	WorstDay time.Time

	MaxDrawdown    float64
	FinalReturn    float64
	AvgDailyReturn float64
	Volatility     float64

	SharpeRatio  *float64
	SortinoRatio *float64
	UlcerIndex   float64

	AnnualizedReturn     float64
	AnnualizedVolatility float64

	UpCapture   *float64
	DownCapture *float64
	WinRatio    float64

	AvgTurnover           float64
	TotalRebalances       int
	AvgExposureSimilarity *float64

	VaR95 float64
	VaR99 float64

	ReturnSkewness *float64
	ReturnKurtosis *float64

	MaxGainStreak int
	MaxLossStreak int
}

// Float returns a pointer to v. Convenience for optional fields in literals.
func Float(v float64) *float64 { return &v }
