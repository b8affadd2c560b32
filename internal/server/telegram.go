package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/repo"
	"github.com/anthropics/tg-awaybot/internal/biz/usecase"
	"github.com/anthropics/tg-awaybot/telegram"
)

// TelegramServer handles Telegram message processing
type TelegramServer struct {
	client    *telegram.Client
	transport repo.TransportRepo
	dispatch  *usecase.DispatchUsecase
	commands  *usecase.OwnerCommandUsecase
	ownerID   int64

	// Message deduplication cache
	seenMsgsMu sync.RWMutex
	seenMsgs   map[string]time.Time // chatID:msgID -> timestamp
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(
	client *telegram.Client,
	transport repo.TransportRepo,
	dispatch *usecase.DispatchUsecase,
	commands *usecase.OwnerCommandUsecase,
	ownerID int64,
) *TelegramServer {
	return &TelegramServer{
		client:    client,
		transport: transport,
		dispatch:  dispatch,
		commands:  commands,
		ownerID:   ownerID,
		seenMsgs:  make(map[string]time.Time),
	}
}

// Start starts the server. Blocks until Stop is called.
func (s *TelegramServer) Start() error {
	s.client.OnMessage(s.handleMessage)
	return s.client.Start()
}

// Stop stops the server
func (s *TelegramServer) Stop() {
	s.client.Stop()
}

// handleMessage handles one inbound Telegram message
func (s *TelegramServer) handleMessage(msg *telegram.Message) {
	fmt.Printf("[Server] Received message %d from chat %d (%s): %s\n",
		msg.MessageID, msg.ChatID, msg.ChatType, truncate(msg.Text, 50))

	// Message deduplication: edits of an already handled message are
	// only interesting when the first delivery was missed.
	key := fmt.Sprintf("%d:%d", msg.ChatID, msg.MessageID)
	if s.isMessageSeen(key) {
		fmt.Printf("[Server] Duplicate message ignored: %s\n", key)
		return
	}
	s.markMessageSeen(key)

	ctx := context.Background()
	in := toIncoming(msg)

	// Owner commands are routed first; anything the router does not
	// recognize still goes through normal dispatch so timed expiry fires.
	if in.SenderID == s.ownerID {
		if actions, handled := s.commands.Handle(ctx, in); handled {
			s.executeActions(ctx, in, actions)
			return
		}
	}

	actions := s.dispatch.Dispatch(ctx, in, time.Now())
	s.executeActions(ctx, in, actions)
}

// toIncoming converts a transport message to the domain type
func toIncoming(msg *telegram.Message) *domain.IncomingMessage {
	in := &domain.IncomingMessage{
		MessageID:       msg.MessageID,
		ChatID:          msg.ChatID,
		SenderID:        msg.SenderID,
		SenderName:      msg.SenderName,
		Username:        msg.Username,
		IsBot:           msg.IsBot,
		IsPrivate:       msg.ChatType == "private",
		IsMentioned:     msg.MentionsBot,
		IsReply:         msg.IsReply,
		ReplyToSenderID: msg.ReplyToSenderID,
		Text:            msg.Text,
	}
	if msg.ReplyToMedia != nil {
		in.ReplyToMedia = &domain.MediaRef{
			ID:          msg.ReplyToMedia.UniqueID,
			AccessToken: msg.ReplyToMedia.FileID,
			IsPhoto:     msg.ReplyToMedia.IsPhoto,
		}
	}
	return in
}

// executeActions sends the outbound actions. A failed action is logged
// and the rest still go out; a failed media send additionally tells the
// requester instead of staying silent.
func (s *TelegramServer) executeActions(ctx context.Context, in *domain.IncomingMessage, actions []domain.Action) {
	for _, a := range actions {
		var err error
		switch a.Kind {
		case domain.ActionReply:
			err = s.transport.Reply(ctx, a.ChatID, a.ReplyTo, a.Text)
		case domain.ActionSendText:
			err = s.transport.SendText(ctx, a.ChatID, a.Text)
		case domain.ActionForward:
			err = s.transport.Forward(ctx, a.ChatID, a.FromChatID, a.FromMessageID)
		case domain.ActionSendMedia:
			err = s.transport.SendMedia(ctx, a.ChatID, a.Media, a.Caption, a.ReplyTo)
			if err != nil {
				fmt.Printf("[Server] Media send failed: %v\n", err)
				_ = s.transport.Reply(ctx, in.ChatID, in.MessageID,
					"Sorry, I couldn't send the media for this command.")
				continue
			}
		default:
			fmt.Printf("[Server] Unknown action kind: %s\n", a.Kind)
			continue
		}
		if err != nil {
			fmt.Printf("[Server] Failed to execute %s action: %v\n", a.Kind, err)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// isMessageSeen checks if a message has been processed
func (s *TelegramServer) isMessageSeen(key string) bool {
	s.seenMsgsMu.RLock()
	defer s.seenMsgsMu.RUnlock()
	_, exists := s.seenMsgs[key]
	return exists
}

// markMessageSeen marks a message as processed
func (s *TelegramServer) markMessageSeen(key string) {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	s.seenMsgs[key] = time.Now()

	// Clean up expired records (older than 5 minutes) to bound memory
	cutoff := time.Now().Add(-5 * time.Minute)
	for id, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, id)
		}
	}
}
