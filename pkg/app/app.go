// Package app wires the cinema services from their infrastructure
// dependencies.
package app

import (
	"log/slog"

	"github.com/amirasaad/cinema/pkg/cache"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain/transaction"
	"github.com/amirasaad/cinema/pkg/eventbus"
	"github.com/amirasaad/cinema/pkg/handler/audit"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/service/auth"
	"github.com/amirasaad/cinema/pkg/service/film"
	txsvc "github.com/amirasaad/cinema/pkg/service/transaction"
	"github.com/amirasaad/cinema/pkg/service/user"
)

// Deps contains everything the services are built from.
type Deps struct {
	Uow      repository.UnitOfWork
	Media    media.Media
	EventBus eventbus.Bus
	Denylist cache.TokenDenylist
	Logger   *slog.Logger
	// OnTransition is told the target status of every review. Optional.
	OnTransition func(status string)
}

type App struct {
	Deps               *Deps
	Config             *config.App
	AuthService        *auth.Service
	UserService        *user.Service
	FilmService        *film.Service
	TransactionService *txsvc.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	audit.Register(deps.EventBus, deps.Logger)

	txOpts := []txsvc.Option{}
	if cfg.Transaction != nil && cfg.Transaction.LockTerminal {
		txOpts = append(txOpts, txsvc.WithPolicy(transaction.LockTerminal))
	}
	if deps.OnTransition != nil {
		txOpts = append(txOpts, txsvc.WithTransitionObserver(deps.OnTransition))
	}

	app.AuthService = auth.New(deps.Uow, cfg.Auth.Jwt, deps.Denylist, deps.Logger)
	app.UserService = user.New(deps.Uow, deps.Media, cfg.Media, deps.Logger)
	app.TransactionService = txsvc.New(deps.Uow, deps.Media, cfg.Media, deps.EventBus, deps.Logger, txOpts...)
	app.FilmService = film.New(deps.Uow, deps.Media, cfg.Media, deps.EventBus, app.TransactionService, deps.Logger)
	return app
}
