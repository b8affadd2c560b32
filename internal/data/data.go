package data

import (
	"github.com/anthropics/tg-awaybot/internal/biz/repo"
	"github.com/anthropics/tg-awaybot/telegram"
)

// Repositories contains all repositories
type Repositories struct {
	State     repo.StateRepo
	Transport repo.TransportRepo
}

// NewRepositories creates all repositories
func NewRepositories(telegramClient *telegram.Client, stateDBPath string) (*Repositories, error) {
	stateRepo, err := NewStateRepo(stateDBPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		State:     stateRepo,
		Transport: NewTelegramRepo(telegramClient),
	}, nil
}

// Close releases the durable resources
func (r *Repositories) Close() error {
	if r.State != nil {
		return r.State.Close()
	}
	return nil
}
