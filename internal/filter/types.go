package filter

import (
	"time"

	"taskmaster-bot/internal/model"
)

// Token is one of the closed set of filter selections.
type Token string

const (
	TokenHigh      Token = "high"
	TokenMedium    Token = "medium"
	TokenLow       Token = "low"
	TokenUpcoming  Token = "upcoming"
	TokenOverdue   Token = "overdue"
	TokenCompleted Token = "completed"
	TokenCategory  Token = "category"
	TokenTag       Token = "tag"
	TokenAll       Token = "all"
)

// Field is a drill-down field whose concrete value the user picks in a second step.
type Field string

const (
	FieldCategory Field = "category"
	FieldTag      Field = "tag"
)

// Predicate selects tasks. Nil members are not applied; set members are ANDed.
type Predicate struct {
	Status         *model.Status
	Priority       *model.Priority
	DeadlineAfter  *time.Time // deadline > value
	DeadlineBefore *time.Time // deadline < value
	Category       *string
	Tag            *string // tag membership
}

// SortKey is the canonical ordering: priority rank ascending, then deadline ascending with nulls last.
// It carries no options because the ordering never varies by filter.
type SortKey struct{}

// Resolution is the outcome of resolving a token.
type Resolution struct {
	Token     Token
	Predicate Predicate
	Sort      SortKey
	// DrillDown is set when the caller must first offer the distinct values of a field
	// and then call ResolveChoice with the picked value.
	DrillDown Field
}

// NeedsChoice reports whether the resolution is the first phase of a drill-down.
func (r Resolution) NeedsChoice() bool {
	return r.DrillDown != ""
}
