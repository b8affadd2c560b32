package biz

import (
	"context"

	"github.com/anthropics/tg-awaybot/internal/biz/repo"
	"github.com/anthropics/tg-awaybot/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	State    *usecase.StateManager
	Dispatch *usecase.DispatchUsecase
	Commands *usecase.OwnerCommandUsecase
}

// NewUsecases wires the usecase layer on top of the repositories
func NewUsecases(
	ctx context.Context,
	stateRepo repo.StateRepo,
	transport repo.TransportRepo,
	texts usecase.ReplyTexts,
	ownerID, archiveChatID int64,
) *Usecases {
	state := usecase.NewStateManager(ctx, stateRepo)
	return &Usecases{
		State:    state,
		Dispatch: usecase.NewDispatchUsecase(state, texts, ownerID, archiveChatID),
		Commands: usecase.NewOwnerCommandUsecase(state, transport, texts),
	}
}
