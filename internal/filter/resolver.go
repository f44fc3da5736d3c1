package filter

import (
	"sort"
	"strings"
	"time"

	"taskmaster-bot/internal/model"
)

// Resolve maps token to a predicate and the canonical sort. now is the instant that
// "upcoming" and "overdue" compare deadlines against. Unknown tokens resolve as TokenAll.
func Resolve(token Token, now time.Time) Resolution {
	active := model.StatusActive
	res := Resolution{Token: token}

	switch token {
	case TokenHigh, TokenMedium, TokenLow:
		p := model.Priority(token)
		res.Predicate = Predicate{Status: &active, Priority: &p}
	case TokenUpcoming:
		res.Predicate = Predicate{Status: &active, DeadlineAfter: &now}
	case TokenOverdue:
		res.Predicate = Predicate{Status: &active, DeadlineBefore: &now}
	case TokenCompleted:
		completed := model.StatusCompleted
		res.Predicate = Predicate{Status: &completed}
	case TokenCategory:
		res.DrillDown = FieldCategory
	case TokenTag:
		res.DrillDown = FieldTag
	default:
		res.Token = TokenAll
		res.Predicate = Predicate{Status: &active}
	}
	return res
}

// ResolveChoice is the second phase of a drill-down: an equality predicate on the picked value.
// Drill-down listings include tasks of every status.
func ResolveChoice(field Field, value string) (Resolution, error) {
	value = strings.TrimSpace(value)

	switch field {
	case FieldCategory:
		if value == "" {
			return Resolution{}, ErrEmptyChoice
		}
		return Resolution{Token: TokenCategory, Predicate: Predicate{Category: &value}}, nil
	case FieldTag:
		value = strings.TrimLeft(value, "#")
		if value == "" {
			return Resolution{}, ErrEmptyChoice
		}
		return Resolution{Token: TokenTag, Predicate: Predicate{Tag: &value}}, nil
	}
	return Resolution{}, ErrUnknownField
}

// Matches evaluates the predicate against t. A missing deadline never satisfies a deadline bound.
func (p Predicate) Matches(t model.Task) bool {
	if p.Status != nil && t.Status != *p.Status {
		return false
	}
	if p.Priority != nil && t.Priority != *p.Priority {
		return false
	}
	if p.DeadlineAfter != nil && (t.Deadline == nil || !t.Deadline.After(*p.DeadlineAfter)) {
		return false
	}
	if p.DeadlineBefore != nil && (t.Deadline == nil || !t.Deadline.Before(*p.DeadlineBefore)) {
		return false
	}
	if p.Category != nil && (t.Category == nil || *t.Category != *p.Category) {
		return false
	}
	if p.Tag != nil && !containsTag(t.Tags, *p.Tag) {
		return false
	}
	return true
}

// Less orders a before b by priority rank, then deadline ascending, nulls last.
func (SortKey) Less(a, b model.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	switch {
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	}
	return a.Deadline.Before(*b.Deadline)
}

// Sort orders tasks in place, stable for equal keys.
func (k SortKey) Sort(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return k.Less(tasks[i], tasks[j]) })
}

func (SortKey) String() string {
	return "priority_rank ASC, deadline ASC NULLS LAST"
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
