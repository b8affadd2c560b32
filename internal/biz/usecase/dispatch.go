package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

// DispatchUsecase decides the outbound actions for one inbound message.
// Evaluation order: DND silence, lazy presence expiry, offline auto-reply
// with archive forward, online trigger matching, public help. Owner
// commands are routed separately before dispatch is consulted.
type DispatchUsecase struct {
	state         *StateManager
	texts         ReplyTexts
	ownerID       int64
	archiveChatID int64
}

// NewDispatchUsecase creates a dispatch usecase.
// An archive chat id of 0 falls back to the owner's own chat.
func NewDispatchUsecase(state *StateManager, texts ReplyTexts, ownerID, archiveChatID int64) *DispatchUsecase {
	if archiveChatID == 0 {
		archiveChatID = ownerID
	}
	return &DispatchUsecase{
		state:         state,
		texts:         texts,
		ownerID:       ownerID,
		archiveChatID: archiveChatID,
	}
}

// Dispatch evaluates one message against the current state and returns the
// outbound actions. The whole evaluation runs under the state lock so it
// observes a consistent snapshot of presence, DND, overrides and commands.
func (uc *DispatchUsecase) Dispatch(ctx context.Context, msg *domain.IncomingMessage, now time.Time) []domain.Action {
	var actions []domain.Action

	uc.state.Evaluate(ctx, func(s *domain.State) bool {
		// DND silences everything for the chat, including the expiry
		// transition becoming observable through a reply.
		if s.Dnd.Contains(msg.ChatID) {
			return false
		}

		changed := false
		if s.Presence.ExpireIfDue(now) {
			changed = true
			actions = append(actions, domain.SendText(uc.ownerID, uc.texts.ExpiryNotice))
		}

		isOwner := msg.SenderID == uc.ownerID
		handled := false

		if s.Presence.Offline && msg.PrivateOrMentioned() && !isOwner && !msg.IsBot {
			if reply, ok := s.EffectiveReply(msg.ChatID); ok {
				actions = append(actions,
					domain.Reply(msg, reply),
					domain.Forward(msg, uc.archiveChatID),
					domain.SendText(uc.archiveChatID, uc.texts.FormatAnnotation(msg)),
				)
				handled = true
			}
		}

		if !handled && !s.Presence.Offline && !isOwner && !msg.IsBot && msg.PrivateOrMentioned() {
			if _, cmd, ok := domain.MatchTrigger(msg.Text, s.Commands); ok {
				if cmd.Kind == domain.CommandMedia {
					actions = append(actions, domain.SendMedia(msg, cmd.Media, cmd.Caption))
				} else {
					actions = append(actions, domain.Reply(msg, cmd.Text))
				}
				handled = true
			}
		}

		if !handled && !isOwner && strings.EqualFold(strings.TrimSpace(msg.Text), "/help") {
			actions = append(actions, domain.Reply(msg, uc.texts.PublicHelp))
		}

		return changed
	})

	return actions
}
