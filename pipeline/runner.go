// Package pipeline wires the stages together: load a day's snapshots, select
// constituents, chain the index value, derive daily metrics and persist
// everything. It contains the run orchestration only; the algorithmic work
// lives in index, metrics and validate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nightcrawler3110/eqx-index-tracker/config"
	"github.com/nightcrawler3110/eqx-index-tracker/export"
	"github.com/nightcrawler3110/eqx-index-tracker/index"
	"github.com/nightcrawler3110/eqx-index-tracker/market"
	"github.com/nightcrawler3110/eqx-index-tracker/metrics"
	"github.com/nightcrawler3110/eqx-index-tracker/store"
	"github.com/nightcrawler3110/eqx-index-tracker/validate"
)

// Runner executes pipeline steps against one store. Runs are serialized by
// the caller; a hard error aborts the date being processed and leaves prior
// dates untouched.
type Runner struct {
	Store  *store.Store
	Config *config.Config
}

func New(st *store.Store, cfg *config.Config) *Runner {
	return &Runner{Store: st, Config: cfg}
}

// Seed loads snapshot and benchmark CSV files into the store. Either path
// may be empty to skip that side.
func (r *Runner) Seed(ctx context.Context, snapshotsPath, benchmarkPath string) error {
	if snapshotsPath != "" {
		snaps, err := store.LoadSnapshotsCSV(snapshotsPath)
		if err != nil {
			return err
		}
		if err := r.Store.AppendSnapshots(ctx, snaps); err != nil {
			return err
		}
		log.Info().Int("rows", len(snaps)).Str("file", snapshotsPath).Msg("seeded snapshots")
	}
	if benchmarkPath != "" {
		rows, err := store.LoadBenchmarkCSV(benchmarkPath)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := r.Store.UpsertBenchmark(ctx, row); err != nil {
				return err
			}
		}
		log.Info().Int("rows", len(rows)).Str("file", benchmarkPath).Msg("seeded benchmark")
	}
	return nil
}

// RunDate computes and persists the index record and daily metrics for one
// date. Re-running a date overwrites its derived rows in place.
func (r *Runner) RunDate(ctx context.Context, date time.Time) error {
	date = market.Day(date)
	day := date.Format(market.DateLayout)
	log.Info().Str("date", day).Msg("building index")

	snaps, err := r.Store.SnapshotsForDate(ctx, date)
	if err != nil {
		return err
	}

	validator := validate.New(r.Config.Metrics.JumpThreshold)
	issues := validator.CheckSnapshots(snaps)

	constituents, err := index.SelectConstituents(date, snaps, r.Config.Index.TopN)
	if err != nil {
		// Still record what the validator saw before bailing on the date.
		if aerr := r.Store.AppendIssues(ctx, issues); aerr != nil {
			return aerr
		}
		return err
	}

	prev, err := r.Store.PrevIndexRecord(ctx, date)
	if err != nil {
		return err
	}

	prevPrices := map[string]float64{}
	if prev != nil {
		prevSnaps, err := r.Store.SnapshotsForDate(ctx, prev.Date)
		if err != nil {
			return err
		}
		prevPrices = closePrices(prevSnaps)
	}

	var benchClose *float64
	bench, err := r.Store.BenchmarkForDate(ctx, date)
	if err != nil {
		return err
	}
	if bench != nil {
		benchClose = bench.Close
	}

	rec, buildIssues, err := index.Build(index.BuildParams{
		Date:         date,
		Constituents: constituents,
		Prices:       closePrices(snaps),
		PrevPrices:   prevPrices,
		Prev:         prev,
		Benchmark:    benchClose,
		BaseValue:    r.Config.Index.BaseValue,
	})
	if err != nil {
		return err
	}
	issues = append(issues, buildIssues...)

	if err := r.Store.UpsertIndexRecord(ctx, rec); err != nil {
		return err
	}

	series, err := r.Store.IndexSeriesThrough(ctx, date)
	if err != nil {
		return err
	}

	var prevSet *market.ConstituentSet
	if prev != nil {
		set := market.NewConstituentSet(prev.Date, prev.Tickers)
		prevSet = &set
	}

	metric, err := metrics.ComputeDaily(metrics.DailyParams{
		Series:  series,
		PrevSet: prevSet,
		Window:  r.Config.Metrics.RollingWindow,
	})
	if err != nil {
		return err
	}
	if err := r.Store.UpsertDailyMetrics(ctx, metric); err != nil {
		return err
	}

	if err := r.Store.AppendIssues(ctx, issues); err != nil {
		return err
	}

	log.Info().Str("date", day).
		Float64("index_level", rec.IndexLevel).
		Int("constituents", constituents.Size()).
		Int("issues", len(issues)).
		Msg("index day complete")
	return nil
}

// RunRange processes every calendar day in [start, end] in order. Days with
// no eligible tickers (weekends, holidays, universe gaps) are skipped with a
// warning; any other error aborts the range.
func (r *Runner) RunRange(ctx context.Context, start, end time.Time) error {
	start, end = market.Day(start), market.Day(end)
	if end.Before(start) {
		return fmt.Errorf("pipeline: range end %s before start %s",
			end.Format(market.DateLayout), start.Format(market.DateLayout))
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		err := r.RunDate(ctx, d)
		var insufficient *index.InsufficientDataError
		if errors.As(err, &insufficient) {
			log.Warn().Str("date", d.Format(market.DateLayout)).Msg("no eligible tickers, skipping day")
			continue
		}
		if err != nil {
			return fmt.Errorf("run %s: %w", d.Format(market.DateLayout), err)
		}
	}
	return nil
}

// RunSummary computes, persists and returns the summary aggregate for the
// trailing windowDays metric rows ending at asOf.
func (r *Runner) RunSummary(ctx context.Context, asOf time.Time, windowDays int) (market.SummaryMetricRecord, error) {
	if windowDays <= 0 {
		windowDays = r.Config.Metrics.SummaryWindowDays
	}
	rows, err := r.Store.MetricsWindow(ctx, asOf, windowDays)
	if err != nil {
		return market.SummaryMetricRecord{}, err
	}

	summary, err := metrics.ComputeSummary(metrics.SummaryParams{
		Rows:              rows,
		WindowDays:        windowDays,
		AsOf:              asOf,
		AnnualizationDays: r.Config.Metrics.AnnualizationDays,
	})
	if err != nil {
		return market.SummaryMetricRecord{}, err
	}

	if err := r.Store.UpsertSummary(ctx, summary); err != nil {
		return market.SummaryMetricRecord{}, err
	}

	log.Info().Str("as_of", summary.AsOfDate.Format(market.DateLayout)).
		Int("window_days", windowDays).
		Int("rows", len(rows)).
		Msg("summary metrics stored")
	return summary, nil
}

// RunValidation sweeps stored rows in [start, end] through every validator
// rule and appends the findings.
func (r *Runner) RunValidation(ctx context.Context, start, end time.Time) ([]market.ValidationIssue, error) {
	validator := validate.New(r.Config.Metrics.JumpThreshold)

	snaps, err := r.Store.SnapshotsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	benchRows, err := r.Store.Benchmarks(ctx)
	if err != nil {
		return nil, err
	}
	series, err := r.Store.IndexSeriesThrough(ctx, end)
	if err != nil {
		return nil, err
	}

	var issues []market.ValidationIssue
	issues = append(issues, validator.CheckSnapshots(snaps)...)
	issues = append(issues, validator.CheckPriceJumps(snaps)...)
	issues = append(issues, validator.CheckBenchmark(benchRows)...)
	issues = append(issues, validator.CheckIndexSeries(series)...)

	if err := r.Store.AppendIssues(ctx, issues); err != nil {
		return nil, err
	}
	log.Info().Int("issues", len(issues)).Msg("validation sweep complete")
	return issues, nil
}

// Export writes the workbook report from everything currently stored.
func (r *Runner) Export(ctx context.Context, path string) error {
	if path == "" {
		path = r.Config.Export.OutputPath
	}
	metricRows, err := r.Store.AllMetrics(ctx)
	if err != nil {
		return err
	}
	summaries, err := r.Store.Summaries(ctx)
	if err != nil {
		return err
	}
	issues, err := r.Store.ListIssues(ctx)
	if err != nil {
		return err
	}

	data := export.Data{Metrics: metricRows, Summaries: summaries, Issues: issues}
	if err := export.WriteWorkbook(path, data); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("days", len(metricRows)).Msg("workbook exported")
	return nil
}

func closePrices(snaps []market.DailySnapshot) map[string]float64 {
	prices := make(map[string]float64, len(snaps))
	for _, s := range snaps {
		if s.Close != nil && *s.Close > 0 {
			prices[s.Ticker] = *s.Close
		}
	}
	return prices
}
