package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	tgDelivery "taskmaster-bot/internal/task/delivery/telegram"
	"taskmaster-bot/pkg/log"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	telegramHandler tgDelivery.Handler
	readiness       ReadinessCheck
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// TelegramHandler serves POST /webhook/telegram. Nil leaves the route out.
	TelegramHandler tgDelivery.Handler
	// Readiness backs GET /ready, typically a database ping. Nil means always ready.
	Readiness ReadinessCheck
}

// New creates a new HTTPServer instance with all routes registered.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		telegramHandler: cfg.TelegramHandler,
		readiness:       cfg.Readiness,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
