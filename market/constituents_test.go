package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testDay = time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)

func TestNewConstituentSetSortsAndDedupes(t *testing.T) {
	s := NewConstituentSet(testDay, []string{"MSFT", "AAPL", "MSFT", "GOOG"})
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, s.Tickers)
	assert.Equal(t, 3, s.Size())
}

func TestConstituentSetContains(t *testing.T) {
	s := NewConstituentSet(testDay, []string{"AAPL", "GOOG", "MSFT"})
	assert.True(t, s.Contains("GOOG"))
	assert.False(t, s.Contains("TSLA"))
}

func TestConstituentSetRemoved(t *testing.T) {
	prev := NewConstituentSet(testDay, []string{"AAPL", "GOOG", "MSFT"})
	next := NewConstituentSet(testDay.AddDate(0, 0, 1), []string{"AAPL", "NVDA", "TSLA"})

	// GOOG and MSFT dropped out.
	assert.Equal(t, 2, prev.Removed(next))
	assert.Equal(t, 0, prev.Removed(prev))
}

func TestConstituentSetJaccard(t *testing.T) {
	a := NewConstituentSet(testDay, []string{"AAPL", "GOOG", "MSFT"})
	b := NewConstituentSet(testDay, []string{"AAPL", "GOOG", "NVDA"})

	// |{AAPL,GOOG}| / |{AAPL,GOOG,MSFT,NVDA}|
	assert.InDelta(t, 0.5, a.Jaccard(b), 1e-12)
	assert.InDelta(t, 1.0, a.Jaccard(a), 1e-12)

	empty := NewConstituentSet(testDay, nil)
	assert.InDelta(t, 0.0, a.Jaccard(empty), 1e-12)

	sim := a.Jaccard(b)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
}
