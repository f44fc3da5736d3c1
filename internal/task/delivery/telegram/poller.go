package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgLog "taskmaster-bot/pkg/log"
)

const pollRetryDelay = 3 * time.Second

// Poll receives updates by long polling and processes them in arrival order.
// The webhook is removed first because Telegram refuses getUpdates while one is set.
func (h *handler) Poll(ctx context.Context, timeout time.Duration) error {
	if err := h.bot.DeleteWebhook(ctx); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	h.l.Infof(ctx, "internal.task.delivery.telegram.Poll: started, timeout=%s", timeout)

	var offset int64
	for {
		updates, err := h.bot.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				h.l.Infof(ctx, "internal.task.delivery.telegram.Poll: stopped")
				return nil
			}
			h.l.Warnf(ctx, "internal.task.delivery.telegram.Poll: getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			h.dispatch(pkgLog.WithTraceID(ctx, uuid.NewString()), u)
		}
	}
}
