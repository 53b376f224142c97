// Package index builds the equal-weighted EQX index: constituent selection by
// market capitalization and day-over-day chaining of the index level.
package index

import (
	"sort"
	"time"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

// SelectConstituents ranks one day's snapshots by market cap and returns the
// top-N ticker set. A ticker is eligible only when both market cap and close
// are present and positive. Ties on market cap break by ticker ascending so
// selection is deterministic.
//
// Returns *InsufficientDataError when no ticker is eligible.
func SelectConstituents(date time.Time, snapshots []market.DailySnapshot, topN int) (market.ConstituentSet, error) {
	type ranked struct {
		ticker string
		mcap   float64
	}

	eligible := make([]ranked, 0, len(snapshots))
	for _, s := range snapshots {
		if s.MarketCap == nil || *s.MarketCap <= 0 {
			continue
		}
		if s.Close == nil || *s.Close <= 0 {
			continue
		}
		eligible = append(eligible, ranked{ticker: s.Ticker, mcap: *s.MarketCap})
	}

	if len(eligible) == 0 {
		return market.ConstituentSet{}, &InsufficientDataError{Date: market.Day(date)}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].mcap != eligible[j].mcap {
			return eligible[i].mcap > eligible[j].mcap
		}
		return eligible[i].ticker < eligible[j].ticker
	})

	if topN > 0 && len(eligible) > topN {
		eligible = eligible[:topN]
	}

	tickers := make([]string, len(eligible))
	for i, r := range eligible {
		tickers[i] = r.ticker
	}
	return market.NewConstituentSet(date, tickers), nil
}
