package domain

// IncomingMessage is one normalized inbound transport event
type IncomingMessage struct {
	MessageID  int64
	ChatID     int64
	SenderID   int64
	SenderName string
	Username   string // sender handle without the leading @, may be empty

	IsBot       bool // sender is an automated account
	IsPrivate   bool
	IsMentioned bool
	IsReply     bool

	ReplyToSenderID int64
	ReplyToMedia    *MediaRef // media of the replied-to message, if any

	Text string
}

// PrivateOrMentioned reports whether the message addresses the account
// directly: a private chat or an explicit mention in a group.
func (m *IncomingMessage) PrivateOrMentioned() bool {
	return m.IsPrivate || m.IsMentioned
}

// Entity is a resolved chat or user
type Entity struct {
	ID       int64
	Name     string
	Username string
	IsBot    bool
}

// DisplayName returns the best human-readable label for the entity
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if e.Username != "" {
		return "@" + e.Username
	}
	return "unknown"
}
