package domain

// ActionKind identifies the outbound effect of a dispatch decision
type ActionKind string

const (
	ActionReply     ActionKind = "reply"      // reply in the originating chat
	ActionSendText  ActionKind = "send_text"  // plain message to a target chat
	ActionForward   ActionKind = "forward"    // forward the original message
	ActionSendMedia ActionKind = "send_media" // re-send a stored media asset
)

// Action is one outbound effect emitted by the dispatch engine or the
// owner command router. Execution is fire-and-forget: a delivery failure
// is reported, never retried, and never stops the remaining actions.
type Action struct {
	Kind    ActionKind
	ChatID  int64 // target chat
	ReplyTo int64 // message id to reply to, 0 for none
	Text    string
	Media   *MediaRef
	Caption string

	// forward source
	FromChatID    int64
	FromMessageID int64
}

// Reply builds a reply action for an inbound message
func Reply(msg *IncomingMessage, text string) Action {
	return Action{Kind: ActionReply, ChatID: msg.ChatID, ReplyTo: msg.MessageID, Text: text}
}

// SendText builds a plain text action addressed to a chat
func SendText(chatID int64, text string) Action {
	return Action{Kind: ActionSendText, ChatID: chatID, Text: text}
}

// Forward builds a forward action for an inbound message
func Forward(msg *IncomingMessage, toChatID int64) Action {
	return Action{Kind: ActionForward, ChatID: toChatID, FromChatID: msg.ChatID, FromMessageID: msg.MessageID}
}

// SendMedia builds a media reply for an inbound message
func SendMedia(msg *IncomingMessage, media *MediaRef, caption string) Action {
	return Action{Kind: ActionSendMedia, ChatID: msg.ChatID, ReplyTo: msg.MessageID, Media: media, Caption: caption}
}
