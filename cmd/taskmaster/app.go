package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmaster-bot/config"
	"taskmaster-bot/internal/task"
	tgDelivery "taskmaster-bot/internal/task/delivery/telegram"
	"taskmaster-bot/internal/task/repository"
	"taskmaster-bot/internal/task/repository/postgre"
	"taskmaster-bot/internal/task/repository/sqlite"
	"taskmaster-bot/internal/task/usecase"
	"taskmaster-bot/internal/wizard"
	"taskmaster-bot/pkg/datemath"
	"taskmaster-bot/pkg/gcalendar"
	"taskmaster-bot/pkg/log"
	"taskmaster-bot/pkg/ratelimit"
	"taskmaster-bot/pkg/sessionstore"
	"taskmaster-bot/pkg/telegram"
)

// app is everything a bot-facing command needs.
type app struct {
	cfg     *config.Config
	l       log.Logger
	db      *sql.DB
	bot     *telegram.Bot
	handler tgDelivery.Handler
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig(file string) (*config.Config, log.Logger, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	return cfg, logger, nil
}

// openDB opens the configured database and brings its schema up to date.
func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = sql.Open(postgre.DriverName, cfg.DSN)
		if err == nil {
			err = db.Ping()
		}
	case config.DriverSQLite:
		db, err = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return db, nil
}

func migrateUp(driver string, db *sql.DB) error {
	if driver == config.DriverPostgres {
		return postgre.MigrateUp(db)
	}
	return sqlite.MigrateUp(db)
}

func migrateDown(driver string, db *sql.DB) error {
	if driver == config.DriverPostgres {
		return postgre.MigrateDown(db)
	}
	return sqlite.MigrateDown(db)
}

func newRepository(driver string, db *sql.DB, l log.Logger) repository.Repository {
	if driver == config.DriverPostgres {
		return postgre.New(db, l)
	}
	return sqlite.New(db, l)
}

// newUseCase wires the task use case, mirroring deadlines to Google Calendar when configured.
// A calendar that fails to initialise is logged and skipped.
func newUseCase(ctx context.Context, cfg *config.Config, l log.Logger, repo repository.Repository) task.UseCase {
	var calendar usecase.CalendarClient
	if cfg.GoogleCalendar.Enabled() {
		client, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath, cfg.GoogleCalendar.TokenPath)
		if err != nil {
			l.Warnf(ctx, "Google Calendar disabled: %v", err)
		} else {
			calendar = client
			l.Info(ctx, "Google Calendar deadline mirror enabled")
		}
	}
	return usecase.New(l, repo, calendar, usecase.CalendarConfig{
		CalendarID:    cfg.GoogleCalendar.CalendarID,
		Timezone:      cfg.Timezone,
		EventDuration: cfg.GoogleCalendar.EventDuration,
	})
}

// buildApp assembles the bot: storage, use case, wizard and Telegram delivery.
func buildApp(ctx context.Context, cfg *config.Config, l log.Logger) (*app, error) {
	if err := cfg.RequireBot(); err != nil {
		return nil, err
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := migrateUp(cfg.Database.Driver, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	parser, err := datemath.NewParser(cfg.Timezone)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repo := newRepository(cfg.Database.Driver, db, l)
	uc := newUseCase(ctx, cfg, l, repo)

	bot := telegram.NewBot(cfg.Telegram.BotToken)
	clock := wizard.ClockFunc(time.Now)
	prompter := tgDelivery.NewPrompter(bot, parser.Location(), clock)
	sessions := sessionstore.New[int64, wizard.Session](cfg.Session.Capacity, cfg.Session.TTL)
	machine := wizard.New(l, parser, uc, prompter, sessions, clock)

	handler := tgDelivery.New(
		l,
		uc,
		bot,
		machine,
		tgDelivery.NewBrowseStore(cfg.Session.Capacity, cfg.Session.TTL),
		ratelimit.New(cfg.RateLimit.PerMin),
		clock,
		parser.Location(),
		cfg.Telegram.SecretToken,
	)

	return &app{cfg: cfg, l: l, db: db, bot: bot, handler: handler}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.l.Errorf(context.Background(), "close database: %v", err)
	}
}
