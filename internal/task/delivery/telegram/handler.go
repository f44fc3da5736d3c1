package telegram

import (
	"context"
	"crypto/hmac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgLog "taskmaster-bot/pkg/log"
	pkgResponse "taskmaster-bot/pkg/response"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the update in the background, one
// update at a time per chat, so a slow store or Telegram round trip never makes Telegram
// retry the delivery.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.validSecret(c.GetHeader(pkgTelegram.SecretTokenHeader)) {
		h.l.Warnf(ctx, "internal.task.delivery.telegram.HandleWebhook: secret token mismatch from %s", c.ClientIP())
		pkgResponse.Unauthorized(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.telegram.HandleWebhook: failed to parse update: %v", err)
		pkgResponse.BadRequest(c, err)
		return
	}

	if update.Message == nil && update.CallbackQuery == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Detach from the request context, which is cancelled once the response is written.
	bgCtx := pkgLog.WithTraceID(context.Background(), uuid.NewString())
	job := func() { h.dispatch(bgCtx, update) }
	if chatID, ok := chatOf(update); ok {
		// Telegram may deliver a chat's updates over parallel connections; answers to a
		// wizard must still be applied in the order they arrived.
		h.queue.Enqueue(chatID, job)
	} else {
		go job()
	}

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

func (h *handler) validSecret(got string) bool {
	if h.secretToken == "" {
		return true
	}
	return hmac.Equal([]byte(got), []byte(h.secretToken))
}

// dispatch processes one update and reports failures to the chat on a best-effort basis.
func (h *handler) dispatch(ctx context.Context, update pkgTelegram.Update) {
	err := h.processUpdate(ctx, update)
	if err == nil {
		return
	}

	h.l.Errorf(ctx, "internal.task.delivery.telegram.dispatch: update=%d: %v", update.UpdateID, err)
	if chatID, ok := chatOf(update); ok {
		_ = h.bot.SendMessage(ctx, chatID, errorMessage(err))
	}
}

func chatOf(update pkgTelegram.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}
