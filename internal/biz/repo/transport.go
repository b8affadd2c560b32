package repo

import (
	"context"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

// TransportRepo is the messaging transport interface.
// Every method is a possibly-failing remote call.
type TransportRepo interface {
	// Reply sends a text reply to a specific message in a chat
	Reply(ctx context.Context, chatID, replyToMsgID int64, text string) error

	// SendText sends a plain text message to a chat
	SendText(ctx context.Context, chatID int64, text string) error

	// SendMedia re-sends a stored media asset, optionally as a reply
	SendMedia(ctx context.Context, chatID int64, media *domain.MediaRef, caption string, replyToMsgID int64) error

	// Forward forwards a message to another chat
	Forward(ctx context.Context, toChatID, fromChatID, messageID int64) error

	// ResolveEntity resolves a numeric chat id or @handle to an entity
	ResolveEntity(ctx context.Context, idOrHandle string) (*domain.Entity, error)
}
