package metrics

import (
	"math"
	"time"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// obs is one usable return observation inside a summary window.
type obs struct {
	date time.Time
	ret  float64
	spy  *float64
}

// SummaryParams feeds ComputeSummary. Rows is the trailing window of daily
// metric records in date order, ending at the as-of date.
type SummaryParams struct {
	Rows       []market.DailyMetricRecord
	WindowDays int
	AsOf       time.Time

	// AnnualizationDays converts daily figures to annual ones, typically 252.
	AnnualizationDays int
}

// ComputeSummary produces the window-level aggregate over Rows.
//
// All ratio denominators resolve to nil rather than a sentinel when they are
// zero or their subset is empty: a null summary field always means "not
// defined for this window", never "computed as zero". Fails with
// *InsufficientWindowError under 2 return observations.
func ComputeSummary(p SummaryParams) (market.SummaryMetricRecord, error) {
	asOf := market.Day(p.AsOf)

	observations := make([]obs, 0, len(p.Rows))
	for _, row := range p.Rows {
		if row.DailyReturn == nil {
			continue
		}
		observations = append(observations, obs{date: row.Date, ret: *row.DailyReturn, spy: row.SpyReturn})
	}
	if len(observations) < 2 {
		return market.SummaryMetricRecord{}, &InsufficientWindowError{
			AsOf:         asOf,
			Observations: len(observations),
			Required:     2,
		}
	}

	returns := make([]float64, len(observations))
	for i, o := range observations {
		returns[i] = o.ret
	}

	rec := market.SummaryMetricRecord{
		WindowDays: p.WindowDays,
		AsOfDate:   asOf,
	}

	// Best/worst day, ties broken by earliest date: strict comparisons keep
	// the first occurrence while scanning in date order.
	best, worst := observations[0], observations[0]
	for _, o := range observations[1:] {
		if o.ret > best.ret {
			best = o
		}
		if o.ret < worst.ret {
			worst = o
		}
	}
	rec.BestDay = best.date
	rec.WorstDay = worst.date

	final := 1.0
	wins := 0
	for _, r := range returns {
		final *= 1 + r
		if r > 0 {
			wins++
		}
	}
	rec.FinalReturn = final - 1
	rec.AvgDailyReturn = Mean(returns)
	rec.Volatility = SampleStdDev(returns)
	rec.WinRatio = float64(wins) / float64(len(returns))

	if rec.Volatility != 0 {
		rec.SharpeRatio = market.Float(rec.AvgDailyReturn / rec.Volatility)
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if dd := SampleStdDev(downside); dd != 0 {
		rec.SortinoRatio = market.Float(rec.AvgDailyReturn / dd)
	}

	ann := float64(p.AnnualizationDays)
	rec.AnnualizedReturn = math.Pow(1+rec.AvgDailyReturn, ann) - 1
	rec.AnnualizedVolatility = rec.Volatility * math.Sqrt(ann)

	// Drawdown figures come from the full window, not just return rows.
	ddSquares := make([]float64, 0, len(p.Rows))
	maxDD := 0.0
	for _, row := range p.Rows {
		if row.DrawdownPct == nil {
			continue
		}
		dd := *row.DrawdownPct
		ddSquares = append(ddSquares, dd*dd)
		if dd < maxDD {
			maxDD = dd
		}
	}
	rec.MaxDrawdown = maxDD
	rec.UlcerIndex = math.Sqrt(Mean(ddSquares))

	rec.UpCapture = captureRatio(observations, func(spy float64) bool { return spy > 0 })
	rec.DownCapture = captureRatio(observations, func(spy float64) bool { return spy < 0 })

	turnoverSum := 0.0
	rebalances := 0
	var similarities []float64
	for _, row := range p.Rows {
		turnoverSum += float64(row.Turnover)
		if row.Turnover > 0 {
			rebalances++
		}
		if row.ExposureSimilarity != nil {
			similarities = append(similarities, *row.ExposureSimilarity)
		}
	}
	rec.AvgTurnover = turnoverSum / float64(len(p.Rows))
	rec.TotalRebalances = rebalances
	if len(similarities) > 0 {
		rec.AvgExposureSimilarity = market.Float(Mean(similarities))
	}

	rec.VaR95 = PercentileLinear(returns, 0.05)
	rec.VaR99 = PercentileLinear(returns, 0.01)

	if v, ok := Skewness(returns); ok {
		rec.ReturnSkewness = market.Float(v)
	}
	if v, ok := ExcessKurtosis(returns); ok {
		rec.ReturnKurtosis = market.Float(v)
	}

	rec.MaxGainStreak = MaxStreak(returns, true)
	rec.MaxLossStreak = MaxStreak(returns, false)

	return rec, nil
}

// captureRatio is the mean index return over the days the benchmark moved in
// the selected direction, as a ratio to the benchmark's own mean over those
// days. Nil when the subset is empty or the benchmark mean is zero.
func captureRatio(observations []obs, include func(float64) bool) *float64 {
	var idx, spy []float64
	for _, o := range observations {
		if o.spy == nil || !include(*o.spy) {
			continue
		}
		idx = append(idx, o.ret)
		spy = append(spy, *o.spy)
	}
	if len(spy) == 0 {
		return nil
	}
	spyMean := Mean(spy)
	if spyMean == 0 {
		return nil
	}
	return market.Float(Mean(idx) / spyMean)
}
