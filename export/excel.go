// Package export renders store projections into an Excel workbook: daily
// performance, index composition, day-over-day composition changes, summary
// rows and accumulated validation issues. It is a read-only consumer of the
// record streams; nothing here feeds back into computation.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// Data is everything a workbook export needs, already loaded from the store.
type Data struct {
	Metrics   []market.DailyMetricRecord
	Summaries []market.SummaryMetricRecord
	Issues    []market.ValidationIssue
}

const (
	sheetDaily   = "Daily Metrics"
	sheetComp    = "Composition"
	sheetChanges = "Composition Changes"
	sheetSummary = "Summary"
	sheetIssues  = "Validation Issues"
)

// WriteWorkbook writes the report workbook to path, one sheet per record
// stream.
func WriteWorkbook(path string, data Data) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetDaily)
	for _, name := range []string{sheetComp, sheetChanges, sheetSummary, sheetIssues} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeDaily(f, data.Metrics); err != nil {
		return err
	}
	if err := writeComposition(f, data.Metrics); err != nil {
		return err
	}
	if err := writeChanges(f, data.Metrics); err != nil {
		return err
	}
	if err := writeSummaries(f, data.Summaries); err != nil {
		return err
	}
	if err := writeIssues(f, data.Issues); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeDaily(f *excelize.File, metrics []market.DailyMetricRecord) error {
	header := []interface{}{
		"date", "index_level", "benchmark_level", "daily_return", "spy_return",
		"cumulative_return", "rolling_volatility", "rolling_beta_7d",
		"rolling_max", "drawdown", "drawdown_pct", "turnover",
		"exposure_similarity",
	}
	if err := setRow(f, sheetDaily, 1, header); err != nil {
		return err
	}
	for i, m := range metrics {
		row := []interface{}{
			m.Date.Format(market.DateLayout), m.IndexLevel, opt(m.BenchmarkLevel),
			opt(m.DailyReturn), opt(m.SpyReturn), opt(m.CumulativeReturn),
			opt(m.RollingVolatility), opt(m.RollingBeta),
			m.RollingMax, m.Drawdown, opt(m.DrawdownPct), m.Turnover,
			opt(m.ExposureSimilarity),
		}
		if err := setRow(f, sheetDaily, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeComposition(f *excelize.File, metrics []market.DailyMetricRecord) error {
	if err := setRow(f, sheetComp, 1, []interface{}{"date", "constituents", "tickers"}); err != nil {
		return err
	}
	for i, m := range metrics {
		row := []interface{}{
			m.Date.Format(market.DateLayout), len(m.Tickers), strings.Join(m.Tickers, ","),
		}
		if err := setRow(f, sheetComp, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeChanges(f *excelize.File, metrics []market.DailyMetricRecord) error {
	if err := setRow(f, sheetChanges, 1, []interface{}{"date", "added", "removed"}); err != nil {
		return err
	}
	outRow := 2
	for i := 1; i < len(metrics); i++ {
		prev := market.NewConstituentSet(metrics[i-1].Date, metrics[i-1].Tickers)
		cur := market.NewConstituentSet(metrics[i].Date, metrics[i].Tickers)

		var added, removed []string
		for _, tk := range cur.Tickers {
			if !prev.Contains(tk) {
				added = append(added, tk)
			}
		}
		for _, tk := range prev.Tickers {
			if !cur.Contains(tk) {
				removed = append(removed, tk)
			}
		}
		if len(added) == 0 && len(removed) == 0 {
			continue
		}
		row := []interface{}{
			cur.Date.Format(market.DateLayout),
			strings.Join(added, ","),
			strings.Join(removed, ","),
		}
		if err := setRow(f, sheetChanges, outRow, row); err != nil {
			return err
		}
		outRow++
	}
	return nil
}

func writeSummaries(f *excelize.File, summaries []market.SummaryMetricRecord) error {
	header := []interface{}{
		"as_of_date", "window_days", "best_day", "worst_day", "max_drawdown",
		"final_return", "avg_daily_return", "volatility", "sharpe_ratio",
		"sortino_ratio", "ulcer_index", "annualized_return",
		"annualized_volatility", "up_capture", "down_capture", "win_ratio",
		"avg_turnover", "total_rebalances", "avg_exposure_similarity",
		"var_95", "var_99", "return_skewness", "return_kurtosis",
		"max_gain_streak", "max_loss_streak",
	}
	if err := setRow(f, sheetSummary, 1, header); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.AsOfDate.Format(market.DateLayout), s.WindowDays,
			s.BestDay.Format(market.DateLayout), s.WorstDay.Format(market.DateLayout),
			s.MaxDrawdown, s.FinalReturn, s.AvgDailyReturn, s.Volatility,
			opt(s.SharpeRatio), opt(s.SortinoRatio), s.UlcerIndex,
			s.AnnualizedReturn, s.AnnualizedVolatility,
			opt(s.UpCapture), opt(s.DownCapture), s.WinRatio,
			s.AvgTurnover, s.TotalRebalances, opt(s.AvgExposureSimilarity),
			s.VaR95, s.VaR99, opt(s.ReturnSkewness), opt(s.ReturnKurtosis),
			s.MaxGainStreak, s.MaxLossStreak,
		}
		if err := setRow(f, sheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeIssues(f *excelize.File, issues []market.ValidationIssue) error {
	if err := setRow(f, sheetIssues, 1, []interface{}{"id", "date", "ticker", "field", "kind", "observed"}); err != nil {
		return err
	}
	for i, is := range issues {
		ticker := ""
		if is.Ticker != nil {
			ticker = *is.Ticker
		}
		row := []interface{}{
			is.ID, is.Date.Format(market.DateLayout), ticker,
			is.Field, string(is.Kind), opt(is.Observed),
		}
		if err := setRow(f, sheetIssues, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

// opt unwraps an optional value for a cell; nil leaves the cell blank so a
// null metric stays visually distinct from a zero.
func opt(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
