package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Media is the transport-level handle of an attached asset
type Media struct {
	UniqueID string // stable across resends
	FileID   string // token accepted by send methods
	IsPhoto  bool
}

// Message is one normalized inbound message
type Message struct {
	MessageID int64
	ChatID    int64
	ChatType  string // private|group|supergroup|channel
	Date      time.Time

	SenderID   int64
	SenderName string
	Username   string
	IsBot      bool

	Text        string
	MentionsBot bool

	IsReply         bool
	ReplyToSenderID int64
	ReplyToMedia    *Media
}

// ChatInfo is the result of resolving a chat id or @handle
type ChatInfo struct {
	ID        int64
	Type      string
	Title     string
	Username  string
	FirstName string
	LastName  string
}

// Client is a long-polling Telegram Bot API client
type Client struct {
	http        *http.Client
	baseURL     string
	token       string
	pollTimeout time.Duration

	onMessage func(*Message)
	me        *apiUser
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a Telegram client. baseURL defaults to the public
// Bot API endpoint when empty.
func NewClient(token, baseURL string, pollTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Client{
		http:        &http.Client{Timeout: pollTimeout + 15*time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		pollTimeout: pollTimeout,
	}
}

// OnMessage sets the inbound message handler
func (c *Client) OnMessage(handler func(*Message)) {
	c.onMessage = handler
}

// Start begins long polling. Blocks until Stop is called or the context
// created at start is cancelled.
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	me, err := c.getMe(c.ctx)
	if err != nil {
		return fmt.Errorf("getMe failed: %w", err)
	}
	c.me = me
	fmt.Printf("[Telegram] Connected as @%s (ID: %d)\n", me.Username, me.ID)

	var offset int64
	for {
		select {
		case <-c.ctx.Done():
			return nil
		default:
		}

		updates, next, err := c.getUpdates(c.ctx, offset, c.pollTimeout)
		if err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			if !isPollTimeoutError(err) {
				fmt.Printf("[Telegram] Poll error: %v\n", err)
				time.Sleep(3 * time.Second)
			}
			continue
		}
		offset = next

		for _, u := range updates {
			raw := u.Message
			if raw == nil {
				raw = u.EditedMessage
			}
			if raw == nil {
				continue
			}
			msg := c.normalize(raw)
			if msg == nil {
				continue
			}
			if c.onMessage != nil {
				c.onMessage(msg)
			}
		}
	}
}

// Stop stops the polling loop
func (c *Client) Stop() {
	if c.cancel != nil {
		fmt.Println("[Telegram] Disconnecting")
		c.cancel()
	}
}

// normalize converts a wire message to the transport type
func (c *Client) normalize(raw *apiMessage) *Message {
	if raw.Chat == nil {
		return nil
	}
	msg := &Message{
		MessageID: raw.MessageID,
		ChatID:    raw.Chat.ID,
		ChatType:  raw.Chat.Type,
		Text:      raw.Text,
	}
	if raw.Text == "" {
		msg.Text = raw.Caption
	}
	if raw.Date > 0 {
		msg.Date = time.Unix(raw.Date, 0)
	}
	if raw.From != nil {
		msg.SenderID = raw.From.ID
		msg.SenderName = displayName(raw.From)
		msg.Username = raw.From.Username
		msg.IsBot = raw.From.IsBot
	}
	msg.MentionsBot = c.mentionsMe(raw)
	if raw.ReplyTo != nil {
		msg.IsReply = true
		if raw.ReplyTo.From != nil {
			msg.ReplyToSenderID = raw.ReplyTo.From.ID
		}
		msg.ReplyToMedia = extractMedia(raw.ReplyTo)
	}
	return msg
}

// mentionsMe checks the message entities for a mention of the bot:
// an @username mention or a text_mention carrying the bot's user id.
// Caption entities are scanned too so mentions in media captions count.
func (c *Client) mentionsMe(raw *apiMessage) bool {
	if c.me == nil {
		return false
	}
	handle := "@" + strings.ToLower(c.me.Username)
	return c.entitiesMentionMe(raw.Text, raw.Entities, handle) ||
		c.entitiesMentionMe(raw.Caption, raw.CaptionEntities, handle)
}

func (c *Client) entitiesMentionMe(text string, entities []apiEntity, handle string) bool {
	for _, e := range entities {
		switch e.Type {
		case "mention":
			if strings.ToLower(sliceByUTF16(text, e.Offset, e.Length)) == handle {
				return true
			}
		case "text_mention":
			if e.User != nil && e.User.ID == c.me.ID {
				return true
			}
		}
	}
	return false
}

// sliceByUTF16 extracts an entity span from text. Entity offsets and
// lengths are UTF-16 code units, not bytes.
func sliceByUTF16(s string, offset, length int) string {
	if offset < 0 {
		offset = 0
	}
	if length <= 0 || s == "" {
		return ""
	}
	start := utf16OffsetToByteIndex(s, offset)
	end := utf16OffsetToByteIndex(s, offset+length)
	if start > end {
		return ""
	}
	return s[start:end]
}

func utf16OffsetToByteIndex(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	utf16Count := 0
	for i, r := range s {
		if utf16Count >= offset {
			return i
		}
		if r <= 0xFFFF {
			utf16Count++
		} else {
			utf16Count += 2
		}
	}
	return len(s)
}

// extractMedia pulls the resendable media handle out of a message.
// For photos the largest size is last in the list.
func extractMedia(raw *apiMessage) *Media {
	if len(raw.Photo) > 0 {
		p := raw.Photo[len(raw.Photo)-1]
		return &Media{UniqueID: p.FileUniqueID, FileID: p.FileID, IsPhoto: true}
	}
	if raw.Document != nil {
		return &Media{UniqueID: raw.Document.FileUniqueID, FileID: raw.Document.FileID}
	}
	return nil
}

// SendText sends a plain text message
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.postJSON(ctx, "sendMessage", apiSendMessageRequest{ChatID: chatID, Text: text})
}

// Reply sends a text message replying to a specific message
func (c *Client) Reply(ctx context.Context, chatID, replyToMsgID int64, text string) error {
	return c.postJSON(ctx, "sendMessage", apiSendMessageRequest{
		ChatID:           chatID,
		Text:             text,
		ReplyToMessageID: replyToMsgID,
	})
}

// Forward forwards a message to another chat
func (c *Client) Forward(ctx context.Context, toChatID, fromChatID, messageID int64) error {
	return c.postJSON(ctx, "forwardMessage", apiForwardMessageRequest{
		ChatID:     toChatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
}

// SendPhotoByID re-sends a previously seen photo by its file id
func (c *Client) SendPhotoByID(ctx context.Context, chatID int64, fileID, caption string, replyToMsgID int64) error {
	return c.postJSON(ctx, "sendPhoto", apiSendFileRequest{
		ChatID:           chatID,
		Photo:            fileID,
		Caption:          caption,
		ReplyToMessageID: replyToMsgID,
	})
}

// SendDocumentByID re-sends a previously seen document by its file id
func (c *Client) SendDocumentByID(ctx context.Context, chatID int64, fileID, caption string, replyToMsgID int64) error {
	return c.postJSON(ctx, "sendDocument", apiSendFileRequest{
		ChatID:           chatID,
		Document:         fileID,
		Caption:          caption,
		ReplyToMessageID: replyToMsgID,
	})
}

// GetChat resolves a numeric chat id or @handle
func (c *Client) GetChat(ctx context.Context, idOrHandle string) (*ChatInfo, error) {
	raw, err := c.getChat(ctx, idOrHandle)
	if err != nil {
		return nil, err
	}
	return &ChatInfo{
		ID:        raw.ID,
		Type:      raw.Type,
		Title:     raw.Title,
		Username:  raw.Username,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
	}, nil
}
