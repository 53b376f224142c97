package metrics

import (
	"fmt"
	"time"
)

// InsufficientWindowError means a summary window held too few observations
// for the ratio battery. It is fatal for that summary request only.
type InsufficientWindowError struct {
	AsOf         time.Time
	Observations int
	Required     int
}

func (e *InsufficientWindowError) Error() string {
	return fmt.Sprintf("metrics: window ending %s has %d observations, need %d",
		e.AsOf.Format("2006-01-02"), e.Observations, e.Required)
}
