package index

import (
	"fmt"
	"time"
)

// InsufficientDataError means no eligible tickers existed for a date. Index
// computation for that date must not proceed: a zero-constituent record would
// poison the chained series.
type InsufficientDataError struct {
	Date     time.Time
	Eligible int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("index: no eligible tickers for %s (eligible=%d)",
		e.Date.Format("2006-01-02"), e.Eligible)
}
