// Package app assembles the referral bot: configuration, infrastructure,
// repositories, services, and the Telegram wiring consumed by the core
// cmd runner.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"refbot/core/bootstrap"
	"refbot/core/cmd"
	"refbot/core/logger"
	tg "refbot/core/telegram"
	"refbot/core/telegram/router"
	"refbot/core/telegram/state"
	"refbot/internal/handlers"
	"refbot/internal/keepalive"
	"refbot/internal/service"
	"refbot/internal/storage"
)

// App holds the assembled bot ready to produce run options.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	registry *tg.Registry
	handlers *handlers.Handlers
}

// Bootstrap initializes infrastructure and wires the domain graph.
func Bootstrap(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	userStore := storage.NewUsers(res.DB)
	referralStore := storage.NewReferrals(res.DB)

	users := service.NewUsers(userStore, referralStore)
	wallet := service.NewWallet(userStore)

	fsm := state.NewMemoryManager()
	h := handlers.New(handlers.Config{
		Channel1:     cfg.Bot.Channel1,
		Channel2:     cfg.Bot.Channel2,
		AdminContact: cfg.Bot.AdminContact,
		EarnMoreURL:  cfg.Bot.EarnMoreURL,
	}, users, wallet, fsm)

	reg := tg.NewRegistry()
	h.Register(reg)

	return &App{
		cfg:      cfg,
		db:       res.DB,
		registry: reg,
		handlers: h,
	}, nil
}

// TelegramRunOptions satisfies cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.handlers.FSM(), a.registry, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	ka := keepalive.New(
		a.cfg.Bot.KeepAlive.Listen,
		a.cfg.Bot.KeepAlive.PublicURL,
		time.Duration(a.cfg.Bot.KeepAlive.PingIntervalMinutes)*time.Minute,
	)

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			go func() {
				if err := ka.Run(ctx); err != nil {
					logger.Error(ctx, "keepalive", "serve",
						slog.String("err", err.Error()))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
