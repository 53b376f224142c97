package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// CSV seeding for the store. The ingestion collaborator hands the core its
// output as flat daily tables; these loaders read that shape from disk.
// Blank optional fields become nil, not zero.

// LoadSnapshotsCSV reads per-ticker rows from a CSV file with columns
// date,ticker,close,adj_close,volume,market_cap. A header row is skipped.
func LoadSnapshotsCSV(path string) ([]market.DailySnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshots csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var out []market.DailySnapshot
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshots csv: %w", err)
		}
		line++
		if line == 1 && rec[0] == "date" {
			continue
		}

		date, err := market.ParseDay(rec[0])
		if err != nil {
			return nil, fmt.Errorf("snapshots csv line %d: %w", line, err)
		}

		snap := market.DailySnapshot{Date: date, Ticker: rec[1]}
		if snap.Close, err = optFloat(rec[2]); err != nil {
			return nil, fmt.Errorf("snapshots csv line %d close: %w", line, err)
		}
		if snap.AdjClose, err = optFloat(rec[3]); err != nil {
			return nil, fmt.Errorf("snapshots csv line %d adj_close: %w", line, err)
		}
		if snap.Volume, err = optFloat(rec[4]); err != nil {
			return nil, fmt.Errorf("snapshots csv line %d volume: %w", line, err)
		}
		if snap.MarketCap, err = optFloat(rec[5]); err != nil {
			return nil, fmt.Errorf("snapshots csv line %d market_cap: %w", line, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

// LoadBenchmarkCSV reads benchmark rows from a CSV file with columns
// date,spy_close. A header row is skipped.
func LoadBenchmarkCSV(path string) ([]market.BenchmarkRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open benchmark csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var out []market.BenchmarkRow
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read benchmark csv: %w", err)
		}
		line++
		if line == 1 && rec[0] == "date" {
			continue
		}

		date, err := market.ParseDay(rec[0])
		if err != nil {
			return nil, fmt.Errorf("benchmark csv line %d: %w", line, err)
		}
		row := market.BenchmarkRow{Date: date}
		if row.Close, err = optFloat(rec[1]); err != nil {
			return nil, fmt.Errorf("benchmark csv line %d spy_close: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func optFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
