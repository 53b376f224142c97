package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func sampleData() Data {
	ticker := "BBB"
	return Data{
		Metrics: []market.DailyMetricRecord{
			{
				Date: day(0), IndexLevel: 100, BenchmarkLevel: market.Float(450),
				RollingMax: 100, Tickers: []string{"AAA", "BBB"},
			},
			{
				Date: day(1), IndexLevel: 110, BenchmarkLevel: market.Float(455),
				DailyReturn: market.Float(0.1), RollingMax: 110,
				Turnover: 1, ExposureSimilarity: market.Float(1.0 / 3.0),
				Tickers: []string{"AAA", "CCC"},
			},
		},
		Summaries: []market.SummaryMetricRecord{
			{
				AsOfDate: day(1), WindowDays: 30,
				BestDay: day(1), WorstDay: day(0),
				FinalReturn: 0.1, SharpeRatio: market.Float(1.5),
			},
		},
		Issues: []market.ValidationIssue{
			{ID: "01ARZ", Date: day(1), Ticker: &ticker, Field: "close", Kind: market.IssueNullValue},
		},
	}
}

func TestWriteWorkbookSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Daily Metrics", "Composition", "Composition Changes", "Summary", "Validation Issues"},
		f.GetSheetList())
}

func TestWriteWorkbookDailySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Daily Metrics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "date", header)

	date, err := f.GetCellValue("Daily Metrics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", date)

	// Null metrics stay blank cells, not zeros.
	firstReturn, err := f.GetCellValue("Daily Metrics", "D2")
	require.NoError(t, err)
	assert.Equal(t, "", firstReturn)

	secondReturn, err := f.GetCellValue("Daily Metrics", "D3")
	require.NoError(t, err)
	assert.Equal(t, "0.1", secondReturn)
}

func TestWriteWorkbookCompositionChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	added, err := f.GetCellValue("Composition Changes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "CCC", added)

	removed, err := f.GetCellValue("Composition Changes", "C2")
	require.NoError(t, err)
	assert.Equal(t, "BBB", removed)
}

func TestWriteWorkbookIssuesAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	kind, err := f.GetCellValue("Validation Issues", "E2")
	require.NoError(t, err)
	assert.Equal(t, "null_value", kind)

	sharpe, err := f.GetCellValue("Summary", "I2")
	require.NoError(t, err)
	assert.Equal(t, "1.5", sharpe)
}

func TestWriteWorkbookEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteWorkbook(path, Data{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "as_of_date", header)
}
