package market

import "time"

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueNullValue        IssueKind = "null_value"
	IssueNonPositivePrice IssueKind = "non_positive_price"
	IssueExtremeJump      IssueKind = "extreme_jump"
	IssueNoOverlap        IssueKind = "no_overlap"
	IssueBenchmarkMissing IssueKind = "benchmark_missing"
)

// ValidationIssue is one advisory annotation produced by the validator or by
// the index builder. Issues are append-only: they accumulate across runs and
// are never deleted or used to correct data.
type ValidationIssue struct {
	ID       string
	Date     time.Time
	Ticker   *string // nil for issues not tied to a single ticker
	Field    string
	Kind     IssueKind
	Observed *float64
}

// NewIssue builds an issue without an ID; the store assigns one on append.
func NewIssue(date time.Time, ticker *string, field string, kind IssueKind, observed *float64) ValidationIssue {
	return ValidationIssue{
		Date:     Day(date),
		Ticker:   ticker,
		Field:    field,
		Kind:     kind,
		Observed: observed,
	}
}
