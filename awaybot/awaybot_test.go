package awaybot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/anthropics/tg-awaybot/internal/conf"
)

func TestNewRejectsIncompleteConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  *conf.Config
	}{
		{
			name: "missing token",
			cfg: &conf.Config{
				Telegram: conf.TelegramConfig{OwnerID: 1000},
			},
		},
		{
			name: "missing owner",
			cfg: &conf.Config{
				Telegram: conf.TelegramConfig{BotToken: "123:abc"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Error("expected a config error")
			}
		})
	}
}

func TestNewWiresApp(t *testing.T) {
	cfg := &conf.Config{
		Telegram: conf.TelegramConfig{
			BotToken:    "123:abc",
			OwnerID:     1000,
			PollTimeout: time.Second,
		},
		State: conf.StateConfig{DBPath: filepath.Join(t.TempDir(), "state.db")},
		HTTP:  conf.HTTPConfig{Addr: ":0"},
	}

	app, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Stop()

	if app.server == nil || app.api == nil || app.repos == nil {
		t.Error("app is missing components")
	}
}
