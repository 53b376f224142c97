package market

import (
	"sort"
	"time"
)

// ConstituentSet is the set of tickers making up the index on one date.
// Tickers are kept sorted so set output is deterministic.
type ConstituentSet struct {
	Date    time.Time
	Tickers []string
}

// NewConstituentSet builds a set for date from tickers, sorting and
// de-duplicating the input.
func NewConstituentSet(date time.Time, tickers []string) ConstituentSet {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, tk := range tickers {
		if _, ok := seen[tk]; ok {
			continue
		}
		seen[tk] = struct{}{}
		out = append(out, tk)
	}
	sort.Strings(out)
	return ConstituentSet{Date: Day(date), Tickers: out}
}

func (s ConstituentSet) Size() int { return len(s.Tickers) }

// Contains reports whether ticker is in the set.
func (s ConstituentSet) Contains(ticker string) bool {
	i := sort.SearchStrings(s.Tickers, ticker)
	return i < len(s.Tickers) && s.Tickers[i] == ticker
}

// Removed counts tickers present in s but absent from next. This is the
// turnover between consecutive rebalances: constituents dropped going from
// s to next.
func (s ConstituentSet) Removed(next ConstituentSet) int {
	n := 0
	for _, tk := range s.Tickers {
		if !next.Contains(tk) {
			n++
		}
	}
	return n
}

// Jaccard returns |s ∩ other| / |s ∪ other|. Two empty sets have an empty
// union; that degenerate case reports 0.
func (s ConstituentSet) Jaccard(other ConstituentSet) float64 {
	inter := 0
	for _, tk := range s.Tickers {
		if other.Contains(tk) {
			inter++
		}
	}
	union := len(s.Tickers) + len(other.Tickers) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
