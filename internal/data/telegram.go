package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/repo"
	"github.com/anthropics/tg-awaybot/telegram"
)

// telegramRepo implements the transport repository on the Telegram client
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a new Telegram transport repository
func NewTelegramRepo(client *telegram.Client) repo.TransportRepo {
	return &telegramRepo{client: client}
}

// Reply sends a text reply to a specific message
func (r *telegramRepo) Reply(ctx context.Context, chatID, replyToMsgID int64, text string) error {
	return r.client.Reply(ctx, chatID, replyToMsgID, text)
}

// SendText sends a plain text message
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	return r.client.SendText(ctx, chatID, text)
}

// SendMedia re-sends a stored media asset by its access token
func (r *telegramRepo) SendMedia(ctx context.Context, chatID int64, media *domain.MediaRef, caption string, replyToMsgID int64) error {
	if media == nil || media.AccessToken == "" {
		return fmt.Errorf("media reference has no access token")
	}
	if media.IsPhoto {
		return r.client.SendPhotoByID(ctx, chatID, media.AccessToken, caption, replyToMsgID)
	}
	return r.client.SendDocumentByID(ctx, chatID, media.AccessToken, caption, replyToMsgID)
}

// Forward forwards a message to another chat
func (r *telegramRepo) Forward(ctx context.Context, toChatID, fromChatID, messageID int64) error {
	return r.client.Forward(ctx, toChatID, fromChatID, messageID)
}

// ResolveEntity resolves a numeric chat id or @handle to an entity
func (r *telegramRepo) ResolveEntity(ctx context.Context, idOrHandle string) (*domain.Entity, error) {
	idOrHandle = strings.TrimSpace(idOrHandle)
	if idOrHandle == "" {
		return nil, fmt.Errorf("empty chat reference")
	}
	info, err := r.client.GetChat(ctx, idOrHandle)
	if err != nil {
		return nil, err
	}

	name := info.Title
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(info.FirstName) + " " + strings.TrimSpace(info.LastName))
	}
	return &domain.Entity{
		ID:       info.ID,
		Name:     name,
		Username: info.Username,
	}, nil
}
