package store

// Schema creates the analytical tables. Date keys are TEXT in YYYY-MM-DD so
// upserts by date are exact. stock_prices and validation_issues are
// append-only; the derived tables carry UNIQUE date keys so recomputation
// overwrites instead of duplicating.
const Schema = `
CREATE TABLE IF NOT EXISTS stock_prices (
	date TEXT NOT NULL,
	ticker TEXT NOT NULL,
	close REAL,
	adj_close REAL,
	volume REAL,
	market_cap REAL,
	PRIMARY KEY (date, ticker)
);

CREATE TABLE IF NOT EXISTS market_index (
	date TEXT PRIMARY KEY,
	spy_close REAL
);

CREATE TABLE IF NOT EXISTS index_values (
	date TEXT PRIMARY KEY,
	index_level REAL NOT NULL,
	benchmark_level REAL,
	tickers TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS index_metrics (
	date TEXT PRIMARY KEY,
	index_level REAL NOT NULL,
	benchmark_level REAL,
	daily_return REAL,
	spy_return REAL,
	cumulative_return REAL,
	rolling_volatility REAL,
	rolling_beta_7d REAL,
	rolling_max REAL NOT NULL,
	drawdown REAL NOT NULL,
	drawdown_pct REAL,
	turnover INTEGER NOT NULL,
	exposure_similarity REAL,
	tickers TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS summary_metrics (
	as_of_date TEXT NOT NULL,
	window_days INTEGER NOT NULL,
	best_day TEXT,
	worst_day TEXT,
	max_drawdown REAL,
	final_return REAL,
	avg_daily_return REAL,
	volatility REAL,
	sharpe_ratio REAL,
	sortino_ratio REAL,
	ulcer_index REAL,
	annualized_return REAL,
	annualized_volatility REAL,
	up_capture REAL,
	down_capture REAL,
	win_ratio REAL,
	avg_turnover REAL,
	total_rebalances INTEGER,
	avg_exposure_similarity REAL,
	var_95 REAL,
	var_99 REAL,
	return_skewness REAL,
	return_kurtosis REAL,
	max_gain_streak INTEGER,
	max_loss_streak INTEGER,
	PRIMARY KEY (as_of_date, window_days)
);

CREATE TABLE IF NOT EXISTS validation_issues (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	ticker TEXT,
	field TEXT NOT NULL,
	kind TEXT NOT NULL,
	observed REAL
);

CREATE INDEX IF NOT EXISTS idx_validation_issues_date ON validation_issues(date);
`
