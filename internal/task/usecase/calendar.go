package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskmaster-bot/internal/model"
	"taskmaster-bot/pkg/gcalendar"
)

const defaultEventDuration = 30 * time.Minute

// eventID names the single calendar event that mirrors a task's deadline.
// Calendar IDs are base32hex, so the prefix only uses the letters a-v.
func eventID(taskID int64) string {
	return fmt.Sprintf("taskmaster%d", taskID)
}

// mirrorDeadline makes the task's calendar event match its deadline: the event ends at the
// deadline, or is removed when the task has none. Failures are logged and never reach the caller.
func (uc *implUseCase) mirrorDeadline(ctx context.Context, t model.Task) {
	if uc.calendar == nil {
		return
	}
	if t.Deadline == nil {
		uc.dropEvent(ctx, t.ID)
		return
	}

	event, err := uc.calendar.PutEvent(ctx, gcalendar.EventRequest{
		CalendarID:  uc.calCfg.CalendarID,
		EventID:     eventID(t.ID),
		Summary:     t.Title,
		Description: eventDescription(t),
		StartTime:   t.Deadline.Add(-uc.calCfg.EventDuration),
		EndTime:     *t.Deadline,
		Timezone:    uc.calCfg.Timezone,
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.mirrorDeadline: task=%d (non-fatal): %v", t.ID, err)
		return
	}
	uc.l.Infof(ctx, "internal.task.usecase.mirrorDeadline: task=%d event=%s", t.ID, event.ID)
}

func (uc *implUseCase) dropEvent(ctx context.Context, taskID int64) {
	if uc.calendar == nil {
		return
	}
	if err := uc.calendar.DeleteEvent(ctx, uc.calCfg.CalendarID, eventID(taskID)); err != nil {
		uc.l.Warnf(ctx, "internal.task.usecase.dropEvent: task=%d (non-fatal): %v", taskID, err)
	}
}

func sameDeadline(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func eventDescription(t model.Task) string {
	var b strings.Builder
	if t.Description != nil {
		b.WriteString(*t.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Priority: %s", t.Priority)
	if t.Category != nil {
		fmt.Fprintf(&b, "\nCategory: %s", *t.Category)
	}
	if len(t.Tags) > 0 {
		b.WriteString("\nTags: #" + strings.Join(t.Tags, " #"))
	}
	return b.String()
}
