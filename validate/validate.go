// Package validate flags structural and statistical anomalies in raw and
// derived rows as discrete issue records. It never mutates data and never
// aborts the pipeline; downstream policies (carry-forward, null-out,
// zero-fill) run regardless of what is flagged here.
package validate

import (
	"sort"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// Validator holds the thresholds the rules need.
type Validator struct {
	// JumpThreshold flags single-day |return| moves above it.
	JumpThreshold float64
}

// New returns a Validator with the given extreme-jump threshold.
func New(jumpThreshold float64) Validator {
	return Validator{JumpThreshold: jumpThreshold}
}

// CheckSnapshots inspects one or more days of raw per-ticker rows for
// missing and non-positive values.
func (v Validator) CheckSnapshots(snaps []market.DailySnapshot) []market.ValidationIssue {
	var issues []market.ValidationIssue
	for _, s := range snaps {
		tk := s.Ticker
		if s.Close == nil {
			issues = append(issues, market.NewIssue(s.Date, &tk, "close", market.IssueNullValue, nil))
		} else if *s.Close <= 0 {
			issues = append(issues, market.NewIssue(s.Date, &tk, "close", market.IssueNonPositivePrice, s.Close))
		}
		if s.MarketCap == nil {
			issues = append(issues, market.NewIssue(s.Date, &tk, "market_cap", market.IssueNullValue, nil))
		} else if *s.MarketCap <= 0 {
			issues = append(issues, market.NewIssue(s.Date, &tk, "market_cap", market.IssueNonPositivePrice, s.MarketCap))
		}
	}
	return issues
}

// CheckPriceJumps scans per-ticker close histories for day-over-day moves
// whose absolute return exceeds the threshold. Rows may arrive out of order;
// each ticker's history is sorted by date before diffing.
func (v Validator) CheckPriceJumps(snaps []market.DailySnapshot) []market.ValidationIssue {
	byTicker := make(map[string][]market.DailySnapshot)
	for _, s := range snaps {
		if s.Close == nil || *s.Close <= 0 {
			continue
		}
		byTicker[s.Ticker] = append(byTicker[s.Ticker], s)
	}

	tickers := make([]string, 0, len(byTicker))
	for tk := range byTicker {
		tickers = append(tickers, tk)
	}
	sort.Strings(tickers)

	var issues []market.ValidationIssue
	for _, tk := range tickers {
		hist := byTicker[tk]
		sort.Slice(hist, func(i, j int) bool { return hist[i].Date.Before(hist[j].Date) })
		for i := 1; i < len(hist); i++ {
			prev, cur := *hist[i-1].Close, *hist[i].Close
			change := cur/prev - 1
			if change > v.JumpThreshold || change < -v.JumpThreshold {
				ticker := tk
				issues = append(issues, market.NewIssue(hist[i].Date, &ticker, "close", market.IssueExtremeJump, market.Float(change)))
			}
		}
	}
	return issues
}

// CheckBenchmark inspects benchmark rows for missing and non-positive closes.
func (v Validator) CheckBenchmark(rows []market.BenchmarkRow) []market.ValidationIssue {
	var issues []market.ValidationIssue
	for _, r := range rows {
		if r.Close == nil {
			issues = append(issues, market.NewIssue(r.Date, nil, "spy_close", market.IssueNullValue, nil))
		} else if *r.Close <= 0 {
			issues = append(issues, market.NewIssue(r.Date, nil, "spy_close", market.IssueNonPositivePrice, r.Close))
		}
	}
	return issues
}

// CheckIndexSeries inspects computed index rows. A non-positive level means
// the chained series has been corrupted upstream.
func (v Validator) CheckIndexSeries(recs []market.IndexRecord) []market.ValidationIssue {
	var issues []market.ValidationIssue
	for _, r := range recs {
		if r.IndexLevel <= 0 {
			issues = append(issues, market.NewIssue(r.Date, nil, "index_level", market.IssueNonPositivePrice, market.Float(r.IndexLevel)))
		}
		if r.BenchmarkLevel == nil {
			issues = append(issues, market.NewIssue(r.Date, nil, "benchmark_level", market.IssueNullValue, nil))
		}
	}
	return issues
}
