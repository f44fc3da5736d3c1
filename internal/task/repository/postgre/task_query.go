package postgre

import (
	"fmt"
	"strings"

	repo "taskmaster-bot/internal/task/repository"
)

// orderByRank renders filter.SortKey: priority rank, then deadline with nulls last.
const orderByRank = `CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 2 END ASC, deadline ASC NULLS LAST, task_id ASC`

// buildQueryTasks builds the WHERE + ORDER BY clause and args for QueryTasks.
func (r *implRepository) buildQueryTasks(opt repo.QueryTasksOptions) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{opt.UserID}

	add := func(format string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	p := opt.Predicate
	if p.Status != nil {
		add("status = $%d", string(*p.Status))
	}
	if p.Priority != nil {
		add("priority = $%d", string(*p.Priority))
	}
	if p.DeadlineAfter != nil {
		add("deadline > $%d", p.DeadlineAfter.UTC())
	}
	if p.DeadlineBefore != nil {
		add("deadline < $%d", p.DeadlineBefore.UTC())
	}
	if p.Category != nil {
		add("category = $%d", *p.Category)
	}
	if p.Tag != nil {
		add("$%d = ANY(tags)", *p.Tag)
	}

	return "WHERE " + strings.Join(conditions, " AND ") + " ORDER BY " + orderByRank, args
}
