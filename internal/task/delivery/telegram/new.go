package telegram

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"taskmaster-bot/internal/task"
	"taskmaster-bot/internal/wizard"
	pkgLog "taskmaster-bot/pkg/log"
	"taskmaster-bot/pkg/ratelimit"
	"taskmaster-bot/pkg/sessionstore"
	pkgTelegram "taskmaster-bot/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
	// Poll receives updates through getUpdates until ctx is cancelled.
	Poll(ctx context.Context, timeout time.Duration) error
}

// BrowseStore keeps the /mytasks filter state per chat.
type BrowseStore = sessionstore.Store[int64, browseState]

// NewBrowseStore creates the store for the /mytasks flow.
func NewBrowseStore(capacity int, ttl time.Duration) *BrowseStore {
	return sessionstore.New[int64, browseState](capacity, ttl)
}

type handler struct {
	l           pkgLog.Logger
	uc          task.UseCase
	bot         *pkgTelegram.Bot
	wizard      *wizard.Machine
	browse      *BrowseStore
	limiter     *ratelimit.Limiter
	clock       wizard.Clock
	view        presenter
	queue       *chatQueue
	secretToken string
}

// New creates a new Telegram delivery handler.
// An empty secretToken disables the webhook header check.
func New(
	l pkgLog.Logger,
	uc task.UseCase,
	bot *pkgTelegram.Bot,
	machine *wizard.Machine,
	browse *BrowseStore,
	limiter *ratelimit.Limiter,
	clock wizard.Clock,
	loc *time.Location,
	secretToken string,
) Handler {
	return &handler{
		l:           l,
		uc:          uc,
		bot:         bot,
		wizard:      machine,
		browse:      browse,
		limiter:     limiter,
		clock:       clock,
		view:        presenter{loc: loc, clock: clock},
		queue:       newChatQueue(),
		secretToken: secretToken,
	}
}
