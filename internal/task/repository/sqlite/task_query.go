package sqlite

import (
	"strings"

	repo "taskmaster-bot/internal/task/repository"
)

const orderByRank = `CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 2 END ASC, deadline ASC NULLS LAST, task_id ASC`

// buildQueryTasks builds the WHERE + ORDER BY clause and args for QueryTasks.
// Deadlines are stored as fixed-width UTC text, so range bounds compare as strings.
func (r *implRepository) buildQueryTasks(opt repo.QueryTasksOptions) (string, []any) {
	conditions := []string{"user_id = ?"}
	args := []any{opt.UserID}

	p := opt.Predicate
	if p.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*p.Priority))
	}
	if p.DeadlineAfter != nil {
		conditions = append(conditions, "deadline > ?")
		args = append(args, formatTime(*p.DeadlineAfter))
	}
	if p.DeadlineBefore != nil {
		conditions = append(conditions, "deadline < ?")
		args = append(args, formatTime(*p.DeadlineBefore))
	}
	if p.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *p.Category)
	}
	if p.Tag != nil {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)")
		args = append(args, *p.Tag)
	}

	return "WHERE " + strings.Join(conditions, " AND ") + " ORDER BY " + orderByRank, args
}
