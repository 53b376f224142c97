// Package store is the analytical table store: a single-file SQLite database
// holding raw snapshots, the chained index series, derived metrics, summary
// rows and validation issues. Derived rows upsert by date key so re-running a
// date overwrites it in place; snapshots and issues only accumulate.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
	"github.com/nightcrawler3110/eqx-index-tracker/pkg/id"
)

type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendSnapshots inserts raw per-ticker rows. Snapshots are immutable once
// ingested for a date: an existing (date, ticker) row is left untouched.
func (s *Store) AppendSnapshots(ctx context.Context, snaps []market.DailySnapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO stock_prices (date, ticker, close, adj_close, volume, market_cap)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, sn := range snaps {
		_, err := stmt.ExecContext(ctx,
			sn.Date.Format(market.DateLayout), sn.Ticker,
			sn.Close, sn.AdjClose, sn.Volume, sn.MarketCap)
		if err != nil {
			return fmt.Errorf("insert snapshot %s/%s: %w", sn.Date.Format(market.DateLayout), sn.Ticker, err)
		}
	}
	return tx.Commit()
}

// SnapshotsForDate returns all per-ticker rows for one day.
func (s *Store) SnapshotsForDate(ctx context.Context, date time.Time) ([]market.DailySnapshot, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, ticker, close, adj_close, volume, market_cap
		FROM stock_prices
		WHERE date = ?
		ORDER BY ticker`, date.Format(market.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	return snapshotsToMarket(rows)
}

// SnapshotsBetween returns rows for [start, end] inclusive, ordered by
// ticker then date, as the jump validator consumes them.
func (s *Store) SnapshotsBetween(ctx context.Context, start, end time.Time) ([]market.DailySnapshot, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, ticker, close, adj_close, volume, market_cap
		FROM stock_prices
		WHERE date BETWEEN ? AND ?
		ORDER BY ticker, date`,
		start.Format(market.DateLayout), end.Format(market.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	return snapshotsToMarket(rows)
}

func snapshotsToMarket(rows []snapshotRow) ([]market.DailySnapshot, error) {
	out := make([]market.DailySnapshot, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UpsertBenchmark stores the single benchmark close for a day.
func (s *Store) UpsertBenchmark(ctx context.Context, row market.BenchmarkRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO market_index (date, spy_close)
		VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET spy_close = excluded.spy_close`,
		row.Date.Format(market.DateLayout), row.Close)
	if err != nil {
		return fmt.Errorf("upsert benchmark: %w", err)
	}
	return nil
}

// BenchmarkForDate returns the benchmark row for date, or nil when the day
// is missing from the feed.
func (s *Store) BenchmarkForDate(ctx context.Context, date time.Time) (*market.BenchmarkRow, error) {
	var row benchmarkRowDB
	err := s.db.GetContext(ctx, &row, `
		SELECT date, spy_close FROM market_index WHERE date = ?`,
		date.Format(market.DateLayout))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select benchmark: %w", err)
	}
	d, err := market.ParseDay(row.Date)
	if err != nil {
		return nil, fmt.Errorf("benchmark row %s: %w", row.Date, err)
	}
	return &market.BenchmarkRow{Date: d, Close: row.SpyClose}, nil
}

// Benchmarks returns all benchmark rows ordered by date.
func (s *Store) Benchmarks(ctx context.Context) ([]market.BenchmarkRow, error) {
	var rows []benchmarkRowDB
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, spy_close FROM market_index ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("select benchmarks: %w", err)
	}
	out := make([]market.BenchmarkRow, 0, len(rows))
	for _, r := range rows {
		d, err := market.ParseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("benchmark row %s: %w", r.Date, err)
		}
		out = append(out, market.BenchmarkRow{Date: d, Close: r.SpyClose})
	}
	return out, nil
}

// UpsertIndexRecord writes one day of the index series, overwriting any
// prior computation for that date.
func (s *Store) UpsertIndexRecord(ctx context.Context, rec market.IndexRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO index_values (date, index_level, benchmark_level, tickers)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			index_level = excluded.index_level,
			benchmark_level = excluded.benchmark_level,
			tickers = excluded.tickers`,
		rec.Date.Format(market.DateLayout), rec.IndexLevel, rec.BenchmarkLevel, joinTickers(rec.Tickers))
	if err != nil {
		return fmt.Errorf("upsert index record: %w", err)
	}
	return nil
}

// IndexSeriesThrough returns the ordered index series from the first date
// through date inclusive.
func (s *Store) IndexSeriesThrough(ctx context.Context, date time.Time) ([]market.IndexRecord, error) {
	var rows []indexRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, index_level, benchmark_level, tickers
		FROM index_values
		WHERE date <= ?
		ORDER BY date`, date.Format(market.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("select index series: %w", err)
	}
	out := make([]market.IndexRecord, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// PrevIndexRecord returns the latest index record strictly before date, or
// nil when date is the first of the series.
func (s *Store) PrevIndexRecord(ctx context.Context, date time.Time) (*market.IndexRecord, error) {
	var row indexRow
	err := s.db.GetContext(ctx, &row, `
		SELECT date, index_level, benchmark_level, tickers
		FROM index_values
		WHERE date < ?
		ORDER BY date DESC
		LIMIT 1`, date.Format(market.DateLayout))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select prev index record: %w", err)
	}
	m, err := row.toMarket()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertDailyMetrics writes one day's derived metrics, overwriting any prior
// computation for that date.
func (s *Store) UpsertDailyMetrics(ctx context.Context, rec market.DailyMetricRecord) error {
	row := metricToRow(rec)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO index_metrics (
			date, index_level, benchmark_level, daily_return, spy_return,
			cumulative_return, rolling_volatility, rolling_beta_7d,
			rolling_max, drawdown, drawdown_pct, turnover,
			exposure_similarity, tickers)
		VALUES (
			:date, :index_level, :benchmark_level, :daily_return, :spy_return,
			:cumulative_return, :rolling_volatility, :rolling_beta_7d,
			:rolling_max, :drawdown, :drawdown_pct, :turnover,
			:exposure_similarity, :tickers)
		ON CONFLICT(date) DO UPDATE SET
			index_level = excluded.index_level,
			benchmark_level = excluded.benchmark_level,
			daily_return = excluded.daily_return,
			spy_return = excluded.spy_return,
			cumulative_return = excluded.cumulative_return,
			rolling_volatility = excluded.rolling_volatility,
			rolling_beta_7d = excluded.rolling_beta_7d,
			rolling_max = excluded.rolling_max,
			drawdown = excluded.drawdown,
			drawdown_pct = excluded.drawdown_pct,
			turnover = excluded.turnover,
			exposure_similarity = excluded.exposure_similarity,
			tickers = excluded.tickers`, row)
	if err != nil {
		return fmt.Errorf("upsert daily metrics: %w", err)
	}
	return nil
}

// MetricsWindow returns the trailing windowDays metric rows ending at asOf,
// in date order.
func (s *Store) MetricsWindow(ctx context.Context, asOf time.Time, windowDays int) ([]market.DailyMetricRecord, error) {
	var rows []metricRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, index_level, benchmark_level, daily_return, spy_return,
		       cumulative_return, rolling_volatility, rolling_beta_7d,
		       rolling_max, drawdown, drawdown_pct, turnover,
		       exposure_similarity, tickers
		FROM index_metrics
		WHERE date <= ?
		ORDER BY date DESC
		LIMIT ?`, asOf.Format(market.DateLayout), windowDays)
	if err != nil {
		return nil, fmt.Errorf("select metrics window: %w", err)
	}
	out := make([]market.DailyMetricRecord, len(rows))
	for i, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out[len(rows)-1-i] = m // reverse back into date order
	}
	return out, nil
}

// AllMetrics returns the full metric series in date order.
func (s *Store) AllMetrics(ctx context.Context) ([]market.DailyMetricRecord, error) {
	var rows []metricRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date, index_level, benchmark_level, daily_return, spy_return,
		       cumulative_return, rolling_volatility, rolling_beta_7d,
		       rolling_max, drawdown, drawdown_pct, turnover,
		       exposure_similarity, tickers
		FROM index_metrics
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("select metrics: %w", err)
	}
	out := make([]market.DailyMetricRecord, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UpsertSummary writes a summary row keyed by (as_of_date, window_days).
func (s *Store) UpsertSummary(ctx context.Context, rec market.SummaryMetricRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_metrics (
			as_of_date, window_days, best_day, worst_day, max_drawdown,
			final_return, avg_daily_return, volatility, sharpe_ratio,
			sortino_ratio, ulcer_index, annualized_return,
			annualized_volatility, up_capture, down_capture, win_ratio,
			avg_turnover, total_rebalances, avg_exposure_similarity,
			var_95, var_99, return_skewness, return_kurtosis,
			max_gain_streak, max_loss_streak)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(as_of_date, window_days) DO UPDATE SET
			best_day = excluded.best_day,
			worst_day = excluded.worst_day,
			max_drawdown = excluded.max_drawdown,
			final_return = excluded.final_return,
			avg_daily_return = excluded.avg_daily_return,
			volatility = excluded.volatility,
			sharpe_ratio = excluded.sharpe_ratio,
			sortino_ratio = excluded.sortino_ratio,
			ulcer_index = excluded.ulcer_index,
			annualized_return = excluded.annualized_return,
			annualized_volatility = excluded.annualized_volatility,
			up_capture = excluded.up_capture,
			down_capture = excluded.down_capture,
			win_ratio = excluded.win_ratio,
			avg_turnover = excluded.avg_turnover,
			total_rebalances = excluded.total_rebalances,
			avg_exposure_similarity = excluded.avg_exposure_similarity,
			var_95 = excluded.var_95,
			var_99 = excluded.var_99,
			return_skewness = excluded.return_skewness,
			return_kurtosis = excluded.return_kurtosis,
			max_gain_streak = excluded.max_gain_streak,
			max_loss_streak = excluded.max_loss_streak`,
		rec.AsOfDate.Format(market.DateLayout), rec.WindowDays,
		rec.BestDay.Format(market.DateLayout), rec.WorstDay.Format(market.DateLayout),
		rec.MaxDrawdown, rec.FinalReturn, rec.AvgDailyReturn, rec.Volatility,
		rec.SharpeRatio, rec.SortinoRatio, rec.UlcerIndex,
		rec.AnnualizedReturn, rec.AnnualizedVolatility,
		rec.UpCapture, rec.DownCapture, rec.WinRatio,
		rec.AvgTurnover, rec.TotalRebalances, rec.AvgExposureSimilarity,
		rec.VaR95, rec.VaR99, rec.ReturnSkewness, rec.ReturnKurtosis,
		rec.MaxGainStreak, rec.MaxLossStreak)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// AppendIssues stores validation issues, assigning each a ULID so rows stay
// time-sortable. Issues never overwrite anything.
func (s *Store) AppendIssues(ctx context.Context, issues []market.ValidationIssue) error {
	if len(issues) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin issue append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO validation_issues (id, date, ticker, field, kind, observed)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for _, is := range issues {
		rowID := is.ID
		if rowID == "" {
			rowID = id.New()
		}
		_, err := stmt.ExecContext(ctx, rowID,
			is.Date.Format(market.DateLayout), is.Ticker, is.Field, string(is.Kind), is.Observed)
		if err != nil {
			return fmt.Errorf("insert issue %s: %w", rowID, err)
		}
	}
	return tx.Commit()
}

// ListIssues returns all accumulated issues ordered by id (creation order).
func (s *Store) ListIssues(ctx context.Context) ([]market.ValidationIssue, error) {
	var rows []issueRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, date, ticker, field, kind, observed
		FROM validation_issues
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select issues: %w", err)
	}
	out := make([]market.ValidationIssue, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Summaries returns all summary rows ordered by as-of date then window.
func (s *Store) Summaries(ctx context.Context) ([]market.SummaryMetricRecord, error) {
	var rows []summaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT as_of_date, window_days, best_day, worst_day, max_drawdown,
		       final_return, avg_daily_return, volatility, sharpe_ratio,
		       sortino_ratio, ulcer_index, annualized_return,
		       annualized_volatility, up_capture, down_capture, win_ratio,
		       avg_turnover, total_rebalances, avg_exposure_similarity,
		       var_95, var_99, return_skewness, return_kurtosis,
		       max_gain_streak, max_loss_streak
		FROM summary_metrics
		ORDER BY as_of_date, window_days`)
	if err != nil {
		return nil, fmt.Errorf("select summaries: %w", err)
	}
	out := make([]market.SummaryMetricRecord, 0, len(rows))
	for _, r := range rows {
		m, err := r.toMarket()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
