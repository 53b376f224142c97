package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSnapshotsCSV(t *testing.T) {
	path := writeFile(t, "prices.csv",
		"date,ticker,close,adj_close,volume,market_cap\n"+
			"2024-06-01,AAA,10.5,10.4,1000,500000\n"+
			"2024-06-01,BBB,,,,\n")

	snaps, err := LoadSnapshotsCSV(path)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, "AAA", snaps[0].Ticker)
	assert.Equal(t, day(0), snaps[0].Date)
	assert.Equal(t, 10.5, *snaps[0].Close)
	assert.Equal(t, 10.4, *snaps[0].AdjClose)
	assert.Equal(t, 1000.0, *snaps[0].Volume)
	assert.Equal(t, 500000.0, *snaps[0].MarketCap)

	// Blank optional fields load as nulls, not zeros.
	assert.Equal(t, "BBB", snaps[1].Ticker)
	assert.Nil(t, snaps[1].Close)
	assert.Nil(t, snaps[1].MarketCap)
}

func TestLoadSnapshotsCSVWithoutHeader(t *testing.T) {
	path := writeFile(t, "prices.csv", "2024-06-01,AAA,10.5,10.4,1000,500000\n")

	snaps, err := LoadSnapshotsCSV(path)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "AAA", snaps[0].Ticker)
}

func TestLoadSnapshotsCSVRejectsBadRows(t *testing.T) {
	badDate := writeFile(t, "bad_date.csv", "date,ticker,close,adj_close,volume,market_cap\nnot-a-date,AAA,1,1,1,1\n")
	_, err := LoadSnapshotsCSV(badDate)
	assert.Error(t, err)

	badFloat := writeFile(t, "bad_float.csv", "2024-06-01,AAA,abc,1,1,1\n")
	_, err = LoadSnapshotsCSV(badFloat)
	assert.Error(t, err)

	badWidth := writeFile(t, "bad_width.csv", "2024-06-01,AAA,1\n")
	_, err = LoadSnapshotsCSV(badWidth)
	assert.Error(t, err)
}

func TestLoadBenchmarkCSV(t *testing.T) {
	path := writeFile(t, "spy.csv",
		"date,spy_close\n"+
			"2024-06-01,450.25\n"+
			"2024-06-02,\n")

	rows, err := LoadBenchmarkCSV(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 450.25, *rows[0].Close)
	assert.Equal(t, day(1), rows[1].Date)
	assert.Nil(t, rows[1].Close)
}

func TestLoadBenchmarkCSVMissingFile(t *testing.T) {
	_, err := LoadBenchmarkCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
