package index

import (
	"time"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// BuildParams carries everything one day's index computation needs. Prices
// are close prices keyed by ticker; PrevPrices is the prior trading day.
type BuildParams struct {
	Date         time.Time
	Constituents market.ConstituentSet
	Prices       map[string]float64
	PrevPrices   map[string]float64

	// Prev is the prior date's record, nil on the first date of the series.
	Prev *market.IndexRecord

	// Benchmark is the raw benchmark close for Date, nil when missing.
	Benchmark *float64

	// BaseValue seeds the level when Prev is nil.
	BaseValue float64
}

// Build chains one day's equal-weighted index value.
//
// The day's index return is the arithmetic mean of simple returns over the
// constituents that traded on both days. A day with no overlapping tickers
// carries the level forward flat and surfaces a no_overlap issue instead of
// failing. The benchmark level is passed through unrebased; a missing
// benchmark is flagged, not fatal.
func Build(p BuildParams) (market.IndexRecord, []market.ValidationIssue, error) {
	date := market.Day(p.Date)
	var issues []market.ValidationIssue

	rec := market.IndexRecord{
		Date:           date,
		BenchmarkLevel: p.Benchmark,
		Tickers:        p.Constituents.Tickers,
	}

	if p.Constituents.Size() == 0 {
		return market.IndexRecord{}, nil, &InsufficientDataError{Date: date}
	}

	if p.Benchmark == nil {
		issues = append(issues, market.NewIssue(date, nil, "benchmark_level", market.IssueBenchmarkMissing, nil))
	}

	if p.Prev == nil {
		rec.IndexLevel = p.BaseValue
		return rec, issues, nil
	}

	sum := 0.0
	n := 0
	for _, tk := range p.Constituents.Tickers {
		cur, okCur := p.Prices[tk]
		prev, okPrev := p.PrevPrices[tk]
		if !okCur || !okPrev || prev <= 0 {
			continue
		}
		sum += cur/prev - 1
		n++
	}

	dayReturn := 0.0
	if n == 0 {
		// Universe gap: carry the level forward flat and let the validator
		// report it.
		issues = append(issues, market.NewIssue(date, nil, "index_level", market.IssueNoOverlap, nil))
	} else {
		dayReturn = sum / float64(n)
	}

	rec.IndexLevel = p.Prev.IndexLevel * (1 + dayReturn)
	return rec, issues, nil
}
