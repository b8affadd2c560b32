package usecase

import (
	"strconv"
	"strings"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

// ReplyTexts contains the configurable texts the bot sends on its own
type ReplyTexts struct {
	OfflineDefault     string // /offline without a message
	TempOfflineDefault string // /offline_for without a message
	PublicHelp         string // reply to the literal /help token
	OwnerHelp          string // reply to /help_owner
	AnnotationTemplate string // archive-chat note, {{name}} {{username}} {{id}}
	ExpiryNotice       string // owner notification when timed offline expires
}

// DefaultReplyTexts returns the built-in reply texts
func DefaultReplyTexts() ReplyTexts {
	return ReplyTexts{
		OfflineDefault:     domain.DefaultOfflineCmdText,
		TempOfflineDefault: domain.DefaultTempOfflineText,
		PublicHelp: `Hi! I'm an auto-reply bot.

If I'm online, I can respond to specific keywords.

If I'm offline, I'll send an automatic reply.`,
		OwnerHelp: `Owner Commands:

Offline/Online Mode:
/offline [message] - Go offline with an optional message.
/offline_for <number> <unit> [message] - Go offline for a duration (e.g. 2 h, 30 m).
/online - Go online.

Do Not Disturb (DND):
/dnd <chat_id/@username> - Add chat to DND list (no auto-replies).
/undnd <chat_id/@username> - Remove chat from DND list.
/list_dnd - List all DND chats.

Specific Auto-Replies:
/set_autoreply <chat_id/@username> | <message> - Set a custom auto-reply for a chat.
/del_autoreply <chat_id/@username> - Delete a custom auto-reply.
/list_autoreplies - List all specific auto-replies.

Custom Commands:
/set_command <trigger> | <reply> - Set a text-based custom command.
/set_command_media <trigger> | [caption] - Reply to a photo/document to set it as a media command.
/del_command <trigger> - Delete a custom command.
/list_commands - List all custom commands.
/set_case_sensitive <on/off> - Toggle case sensitivity for custom commands.

Utilities:
/status - Show bot uptime and current state.
/help_owner - Show this help message.`,
		AnnotationTemplate: "Message above was from {{name}} ({{username}}) (ID: {{id}}) while you were offline.",
		ExpiryNotice:       "Timed offline mode has expired. I am now online.",
	}
}

// FormatAnnotation fills the annotation template for one sender
func (t ReplyTexts) FormatAnnotation(msg *domain.IncomingMessage) string {
	name := msg.SenderName
	if name == "" {
		name = "Unknown"
	}
	username := "No username"
	if msg.Username != "" {
		username = "@" + msg.Username
	}
	out := strings.ReplaceAll(t.AnnotationTemplate, "{{name}}", name)
	out = strings.ReplaceAll(out, "{{username}}", username)
	out = strings.ReplaceAll(out, "{{id}}", strconv.FormatInt(msg.SenderID, 10))
	return out
}
