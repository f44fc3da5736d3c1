package usecase

import (
	"context"
	"time"

	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/task/repository"
	"taskmaster-bot/pkg/gcalendar"
	pkgLog "taskmaster-bot/pkg/log"
)

// CalendarClient writes and removes calendar events. *gcalendar.Client satisfies it.
type CalendarClient interface {
	PutEvent(ctx context.Context, req gcalendar.EventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// CalendarConfig controls the optional deadline mirror.
type CalendarConfig struct {
	CalendarID    string
	Timezone      string
	EventDuration time.Duration
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	calendar CalendarClient
	calCfg   CalendarConfig
}

// New creates a new task UseCase instance. calendar may be nil to disable the deadline mirror.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	calendar CalendarClient,
	calCfg CalendarConfig,
) task.UseCase {
	if calCfg.EventDuration <= 0 {
		calCfg.EventDuration = defaultEventDuration
	}
	return &implUseCase{
		l:        l,
		repo:     repo,
		calendar: calendar,
		calCfg:   calCfg,
	}
}
