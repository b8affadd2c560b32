package awaybot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/tg-awaybot/internal/api"
	"github.com/anthropics/tg-awaybot/internal/biz"
	"github.com/anthropics/tg-awaybot/internal/conf"
	"github.com/anthropics/tg-awaybot/internal/data"
	"github.com/anthropics/tg-awaybot/internal/server"
	"github.com/anthropics/tg-awaybot/telegram"
)

// App wires the Telegram client, the state store, the dispatch engine
// and the HTTP control plane into one runnable unit.
type App struct {
	cfg    *conf.Config
	repos  *data.Repositories
	server *server.TelegramServer
	api    *api.Server
}

// New creates the application from a validated configuration
func New(cfg *conf.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.BaseURL, cfg.Telegram.PollTimeout)

	repos, err := data.NewRepositories(client, cfg.State.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	texts := cfg.Replies.ToReplyTexts()
	ucs := biz.NewUsecases(context.Background(), repos.State, repos.Transport, texts,
		cfg.Telegram.OwnerID, cfg.Telegram.ArchiveChatID)

	return &App{
		cfg:    cfg,
		repos:  repos,
		server: server.NewTelegramServer(client, repos.Transport, ucs.Dispatch, ucs.Commands, cfg.Telegram.OwnerID),
		api:    api.NewServer(ucs.State, texts, cfg.HTTP.Addr),
	}, nil
}

// Start runs the control server and the polling loop. Blocks until Stop.
func (a *App) Start() error {
	go func() {
		if err := a.api.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("[App] HTTP server error: %v\n", err)
		}
	}()
	return a.server.Start()
}

// Stop shuts everything down
func (a *App) Stop() {
	a.server.Stop()
	if err := a.api.Stop(); err != nil {
		fmt.Printf("[App] HTTP shutdown error: %v\n", err)
	}
	if err := a.repos.Close(); err != nil {
		fmt.Printf("[App] Store close error: %v\n", err)
	}
}
