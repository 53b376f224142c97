package metrics

import (
	"fmt"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// DailyParams feeds ComputeDaily. Series is the full ordered index series
// from the first date through the target date, which is the last element.
type DailyParams struct {
	Series []market.IndexRecord

	// PrevSet is the prior date's constituent set, nil on the first date.
	PrevSet *market.ConstituentSet

	// Window is the trailing observation count for the rolling fields.
	Window int
}

// ComputeDaily derives the metric record for the last date of the series.
//
// Rolling volatility, beta and cumulative return need Window trailing return
// observations and are nil before that. Beta is also nil when the benchmark
// variance over the window is zero or any benchmark return in the window is
// missing. Turnover counts constituents removed since the prior set, 0 on
// the first date by convention; exposure similarity is nil on the first date.
func ComputeDaily(p DailyParams) (market.DailyMetricRecord, error) {
	n := len(p.Series)
	if n == 0 {
		return market.DailyMetricRecord{}, fmt.Errorf("metrics: empty index series")
	}
	if p.Window < 2 {
		return market.DailyMetricRecord{}, fmt.Errorf("metrics: rolling window must be at least 2, got %d", p.Window)
	}

	cur := p.Series[n-1]
	rec := market.DailyMetricRecord{
		Date:           cur.Date,
		IndexLevel:     cur.IndexLevel,
		BenchmarkLevel: cur.BenchmarkLevel,
		Tickers:        cur.Tickers,
	}

	// Per-row returns. Index returns exist from the second row on; benchmark
	// returns only where both sides of the change are present.
	idxRet := make([]float64, n)  // idxRet[i] valid for i >= 1
	spyRet := make([]*float64, n) // nil where undefined
	for i := 1; i < n; i++ {
		prev, now := p.Series[i-1], p.Series[i]
		if prev.IndexLevel != 0 {
			idxRet[i] = now.IndexLevel/prev.IndexLevel - 1
		}
		if prev.BenchmarkLevel != nil && now.BenchmarkLevel != nil && *prev.BenchmarkLevel != 0 {
			spyRet[i] = market.Float(*now.BenchmarkLevel / *prev.BenchmarkLevel - 1)
		}
	}

	t := n - 1
	if t >= 1 {
		rec.DailyReturn = market.Float(idxRet[t])
		rec.SpyReturn = spyRet[t]
	}

	// Rolling fields over the last Window return observations.
	if t >= p.Window {
		window := idxRet[t-p.Window+1 : t+1]

		cum := 1.0
		for _, r := range window {
			cum *= 1 + r
		}
		rec.CumulativeReturn = market.Float(cum - 1)
		rec.RollingVolatility = market.Float(SampleStdDev(window))

		spyWindow := make([]float64, 0, p.Window)
		for i := t - p.Window + 1; i <= t; i++ {
			if spyRet[i] == nil {
				break
			}
			spyWindow = append(spyWindow, *spyRet[i])
		}
		if len(spyWindow) == p.Window {
			if v := SampleVariance(spyWindow); v != 0 {
				rec.RollingBeta = market.Float(SampleCovariance(window, spyWindow) / v)
			}
		}
	}

	// Running peak and drawdown over the whole series.
	peak := p.Series[0].IndexLevel
	for _, r := range p.Series[1:] {
		if r.IndexLevel > peak {
			peak = r.IndexLevel
		}
	}
	rec.RollingMax = peak
	rec.Drawdown = cur.IndexLevel - peak
	if peak != 0 {
		rec.DrawdownPct = market.Float(rec.Drawdown / peak)
	}

	curSet := market.NewConstituentSet(cur.Date, cur.Tickers)
	if p.PrevSet != nil {
		rec.Turnover = p.PrevSet.Removed(curSet)
		rec.ExposureSimilarity = market.Float(curSet.Jaccard(*p.PrevSet))
	}

	return rec, nil
}
