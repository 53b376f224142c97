package store

import (
	"fmt"
	"strings"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// Row mirrors of the market types with db tags and string dates. Conversion
// happens at the store boundary so the rest of the code never sees SQL nulls.

type snapshotRow struct {
	Date      string   `db:"date"`
	Ticker    string   `db:"ticker"`
	Close     *float64 `db:"close"`
	AdjClose  *float64 `db:"adj_close"`
	Volume    *float64 `db:"volume"`
	MarketCap *float64 `db:"market_cap"`
}

func (r snapshotRow) toMarket() (market.DailySnapshot, error) {
	d, err := market.ParseDay(r.Date)
	if err != nil {
		return market.DailySnapshot{}, fmt.Errorf("snapshot row %s/%s: %w", r.Date, r.Ticker, err)
	}
	return market.DailySnapshot{
		Date:      d,
		Ticker:    r.Ticker,
		Close:     r.Close,
		AdjClose:  r.AdjClose,
		Volume:    r.Volume,
		MarketCap: r.MarketCap,
	}, nil
}

type benchmarkRowDB struct {
	Date     string   `db:"date"`
	SpyClose *float64 `db:"spy_close"`
}

type indexRow struct {
	Date           string   `db:"date"`
	IndexLevel     float64  `db:"index_level"`
	BenchmarkLevel *float64 `db:"benchmark_level"`
	Tickers        string   `db:"tickers"`
}

func (r indexRow) toMarket() (market.IndexRecord, error) {
	d, err := market.ParseDay(r.Date)
	if err != nil {
		return market.IndexRecord{}, fmt.Errorf("index row %s: %w", r.Date, err)
	}
	return market.IndexRecord{
		Date:           d,
		IndexLevel:     r.IndexLevel,
		BenchmarkLevel: r.BenchmarkLevel,
		Tickers:        splitTickers(r.Tickers),
	}, nil
}

type metricRow struct {
	Date               string   `db:"date"`
	IndexLevel         float64  `db:"index_level"`
	BenchmarkLevel     *float64 `db:"benchmark_level"`
	DailyReturn        *float64 `db:"daily_return"`
	SpyReturn          *float64 `db:"spy_return"`
	CumulativeReturn   *float64 `db:"cumulative_return"`
	RollingVolatility  *float64 `db:"rolling_volatility"`
	RollingBeta        *float64 `db:"rolling_beta_7d"`
	RollingMax         float64  `db:"rolling_max"`
	Drawdown           float64  `db:"drawdown"`
	DrawdownPct        *float64 `db:"drawdown_pct"`
	Turnover           int      `db:"turnover"`
	ExposureSimilarity *float64 `db:"exposure_similarity"`
	Tickers            string   `db:"tickers"`
}

func (r metricRow) toMarket() (market.DailyMetricRecord, error) {
	d, err := market.ParseDay(r.Date)
	if err != nil {
		return market.DailyMetricRecord{}, fmt.Errorf("metric row %s: %w", r.Date, err)
	}
	return market.DailyMetricRecord{
		Date:               d,
		IndexLevel:         r.IndexLevel,
		BenchmarkLevel:     r.BenchmarkLevel,
		DailyReturn:        r.DailyReturn,
		SpyReturn:          r.SpyReturn,
		CumulativeReturn:   r.CumulativeReturn,
		RollingVolatility:  r.RollingVolatility,
		RollingBeta:        r.RollingBeta,
		RollingMax:         r.RollingMax,
		Drawdown:           r.Drawdown,
		DrawdownPct:        r.DrawdownPct,
		Turnover:           r.Turnover,
		ExposureSimilarity: r.ExposureSimilarity,
		Tickers:            splitTickers(r.Tickers),
	}, nil
}

func metricToRow(m market.DailyMetricRecord) metricRow {
	return metricRow{
		Date:               m.Date.Format(market.DateLayout),
		IndexLevel:         m.IndexLevel,
		BenchmarkLevel:     m.BenchmarkLevel,
		DailyReturn:        m.DailyReturn,
		SpyReturn:          m.SpyReturn,
		CumulativeReturn:   m.CumulativeReturn,
		RollingVolatility:  m.RollingVolatility,
		RollingBeta:        m.RollingBeta,
		RollingMax:         m.RollingMax,
		Drawdown:           m.Drawdown,
		DrawdownPct:        m.DrawdownPct,
		Turnover:           m.Turnover,
		ExposureSimilarity: m.ExposureSimilarity,
		Tickers:            joinTickers(m.Tickers),
	}
}

type issueRow struct {
	ID       string   `db:"id"`
	Date     string   `db:"date"`
	Ticker   *string  `db:"ticker"`
	Field    string   `db:"field"`
	Kind     string   `db:"kind"`
	Observed *float64 `db:"observed"`
}

func (r issueRow) toMarket() (market.ValidationIssue, error) {
	d, err := market.ParseDay(r.Date)
	if err != nil {
		return market.ValidationIssue{}, fmt.Errorf("issue row %s: %w", r.ID, err)
	}
	return market.ValidationIssue{
		ID:       r.ID,
		Date:     d,
		Ticker:   r.Ticker,
		Field:    r.Field,
		Kind:     market.IssueKind(r.Kind),
		Observed: r.Observed,
	}, nil
}

type summaryRow struct {
	AsOfDate              string   `db:"as_of_date"`
	WindowDays            int      `db:"window_days"`
	BestDay               string   `db:"best_day"`
	WorstDay              string   `db:"worst_day"`
	MaxDrawdown           float64  `db:"max_drawdown"`
	FinalReturn           float64  `db:"final_return"`
	AvgDailyReturn        float64  `db:"avg_daily_return"`
	Volatility            float64  `db:"volatility"`
	SharpeRatio           *float64 `db:"sharpe_ratio"`
	SortinoRatio          *float64 `db:"sortino_ratio"`
	UlcerIndex            float64  `db:"ulcer_index"`
	AnnualizedReturn      float64  `db:"annualized_return"`
	AnnualizedVolatility  float64  `db:"annualized_volatility"`
	UpCapture             *float64 `db:"up_capture"`
	DownCapture           *float64 `db:"down_capture"`
	WinRatio              float64  `db:"win_ratio"`
	AvgTurnover           float64  `db:"avg_turnover"`
	TotalRebalances       int      `db:"total_rebalances"`
	AvgExposureSimilarity *float64 `db:"avg_exposure_similarity"`
	VaR95                 float64  `db:"var_95"`
	VaR99                 float64  `db:"var_99"`
	ReturnSkewness        *float64 `db:"return_skewness"`
	ReturnKurtosis        *float64 `db:"return_kurtosis"`
	MaxGainStreak         int      `db:"max_gain_streak"`
	MaxLossStreak         int      `db:"max_loss_streak"`
}

func (r summaryRow) toMarket() (market.SummaryMetricRecord, error) {
	asOf, err := market.ParseDay(r.AsOfDate)
	if err != nil {
		return market.SummaryMetricRecord{}, fmt.Errorf("summary row %s: %w", r.AsOfDate, err)
	}
	best, err := market.ParseDay(r.BestDay)
	if err != nil {
		return market.SummaryMetricRecord{}, fmt.Errorf("summary row %s best_day: %w", r.AsOfDate, err)
	}
	worst, err := market.ParseDay(r.WorstDay)
	if err != nil {
		return market.SummaryMetricRecord{}, fmt.Errorf("summary row %s worst_day: %w", r.AsOfDate, err)
	}
	return market.SummaryMetricRecord{
		WindowDays:            r.WindowDays,
		AsOfDate:              asOf,
		BestDay:               best,
		WorstDay:              worst,
		MaxDrawdown:           r.MaxDrawdown,
		FinalReturn:           r.FinalReturn,
		AvgDailyReturn:        r.AvgDailyReturn,
		Volatility:            r.Volatility,
		SharpeRatio:           r.SharpeRatio,
		SortinoRatio:          r.SortinoRatio,
		UlcerIndex:            r.UlcerIndex,
		AnnualizedReturn:      r.AnnualizedReturn,
		AnnualizedVolatility:  r.AnnualizedVolatility,
		UpCapture:             r.UpCapture,
		DownCapture:           r.DownCapture,
		WinRatio:              r.WinRatio,
		AvgTurnover:           r.AvgTurnover,
		TotalRebalances:       r.TotalRebalances,
		AvgExposureSimilarity: r.AvgExposureSimilarity,
		VaR95:                 r.VaR95,
		VaR99:                 r.VaR99,
		ReturnSkewness:        r.ReturnSkewness,
		ReturnKurtosis:        r.ReturnKurtosis,
		MaxGainStreak:         r.MaxGainStreak,
		MaxLossStreak:         r.MaxLossStreak,
	}, nil
}

func joinTickers(tickers []string) string {
	return strings.Join(tickers, ",")
}

func splitTickers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
