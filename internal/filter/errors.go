package filter

import "errors"

var (
	ErrEmptyChoice  = errors.New("filter: empty drill-down value")
	ErrUnknownField = errors.New("filter: unknown drill-down field")
)
