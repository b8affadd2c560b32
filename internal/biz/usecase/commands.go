package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/repo"
)

// OwnerCommandUsecase parses owner-authored control messages and applies
// the corresponding mutations. Chat arguments are resolved through the
// transport before any state is touched; malformed input yields a usage
// reply and no mutation.
type OwnerCommandUsecase struct {
	state     *StateManager
	transport repo.TransportRepo
	texts     ReplyTexts

	// Ordered most-specific-first so overlapping prefixes cannot collide
	// (/offline_for must be tried before /offline).
	entries []commandEntry
}

type commandEntry struct {
	prefix  string
	handler func(ctx context.Context, msg *domain.IncomingMessage, args string) string
}

// NewOwnerCommandUsecase creates the owner command router
func NewOwnerCommandUsecase(state *StateManager, transport repo.TransportRepo, texts ReplyTexts) *OwnerCommandUsecase {
	uc := &OwnerCommandUsecase{
		state:     state,
		transport: transport,
		texts:     texts,
	}
	uc.entries = []commandEntry{
		{"/offline_for", uc.handleOfflineFor},
		{"/offline", uc.handleOffline},
		{"/online", uc.handleOnline},
		{"/undnd", uc.handleUndnd},
		{"/dnd", uc.handleDnd},
		{"/list_dnd", uc.handleListDnd},
		{"/set_autoreply", uc.handleSetAutoreply},
		{"/del_autoreply", uc.handleDelAutoreply},
		{"/list_autoreplies", uc.handleListAutoreplies},
		{"/set_command_media", uc.handleSetCommandMedia},
		{"/set_command", uc.handleSetCommand},
		{"/del_command", uc.handleDelCommand},
		{"/list_commands", uc.handleListCommands},
		{"/set_case_sensitive", uc.handleSetCaseSensitive},
		{"/status", uc.handleStatus},
		{"/help_owner", uc.handleHelpOwner},
	}
	return uc
}

// Handle routes one owner message. It returns the resulting actions and
// whether the message was recognized as a command; unrecognized messages
// fall through to normal dispatch.
func (uc *OwnerCommandUsecase) Handle(ctx context.Context, msg *domain.IncomingMessage) ([]domain.Action, bool) {
	text := strings.TrimSpace(msg.Text)
	for _, e := range uc.entries {
		args, ok := matchCommand(text, e.prefix)
		if !ok {
			continue
		}
		reply := e.handler(ctx, msg, args)
		return []domain.Action{domain.Reply(msg, reply)}, true
	}
	return nil, false
}

// matchCommand matches text against a command prefix: either the bare
// command or the command followed by a space and arguments. Prefix-only
// matching (no space) is deliberately not done, so /offline never
// swallows /offline_for.
func matchCommand(text, prefix string) (args string, ok bool) {
	lower := strings.ToLower(text)
	if lower == prefix {
		return "", true
	}
	if strings.HasPrefix(lower, prefix+" ") {
		return strings.TrimSpace(text[len(prefix)+1:]), true
	}
	return "", false
}

// ---- presence ----

func (uc *OwnerCommandUsecase) handleOffline(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	message := args
	if message == "" {
		message = uc.texts.OfflineDefault
	}
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Presence.GoOffline(message)
		return nil
	})
	return fmt.Sprintf("Offline mode enabled.\nMessage: %s", message)
}

func (uc *OwnerCommandUsecase) handleOfflineFor(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	const usage = "Invalid usage. Usage: /offline_for <number> <unit> [message]"

	parts := strings.SplitN(args, " ", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return usage
	}
	value, err := strconv.Atoi(parts[0])
	if err != nil {
		return "Invalid duration format. Usage: /offline_for <number> <unit> [message]"
	}
	dur, err := domain.ParseOfflineDuration(value, strings.ToLower(parts[1]))
	if err != nil {
		return "Invalid time unit. Use: m (minutes), h (hours), d (days)."
	}

	message := ""
	if len(parts) == 3 {
		message = strings.TrimSpace(parts[2])
	}
	if message == "" {
		message = uc.texts.TempOfflineDefault
	}

	until := time.Now().Add(dur)
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Presence.GoOfflineUntil(until, message)
		return nil
	})
	return fmt.Sprintf("Offline mode enabled until %s.\nMessage: %s", until.Format("2006-01-02 15:04:05"), message)
}

func (uc *OwnerCommandUsecase) handleOnline(ctx context.Context, _ *domain.IncomingMessage, _ string) string {
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Presence.GoOnline()
		return nil
	})
	return "Online mode enabled. You're now online."
}

// ---- DND ----

func (uc *OwnerCommandUsecase) handleDnd(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	if args == "" {
		return "Invalid usage. Usage: /dnd <chat_id/@username>"
	}
	entity, err := uc.transport.ResolveEntity(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error adding to DND: %v", err)
	}
	added := false
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		added = s.Dnd.Add(entity.ID)
		return nil
	})
	if !added {
		return fmt.Sprintf("%s (ID: %d) is already in the DND list.", entity.DisplayName(), entity.ID)
	}
	return fmt.Sprintf("Added %s (ID: %d) to DND list.", entity.DisplayName(), entity.ID)
}

func (uc *OwnerCommandUsecase) handleUndnd(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	if args == "" {
		return "Invalid usage. Usage: /undnd <chat_id/@username>"
	}
	entity, err := uc.transport.ResolveEntity(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error removing from DND: %v", err)
	}
	removed := false
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		removed = s.Dnd.Remove(entity.ID)
		return nil
	})
	if !removed {
		return fmt.Sprintf("%s (ID: %d) was not in the DND list.", entity.DisplayName(), entity.ID)
	}
	return fmt.Sprintf("Removed %s (ID: %d) from DND list.", entity.DisplayName(), entity.ID)
}

func (uc *OwnerCommandUsecase) handleListDnd(ctx context.Context, _ *domain.IncomingMessage, _ string) string {
	snapshot := uc.state.Snapshot()
	ids := snapshot.Dnd.List()
	if len(ids) == 0 {
		return "No chats currently in DND mode."
	}
	var b strings.Builder
	b.WriteString("DND Chats:\n")
	for _, id := range ids {
		b.WriteString(fmt.Sprintf("- %s (ID: %d)\n", uc.lookupName(ctx, id), id))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ---- per-chat auto-replies ----

func (uc *OwnerCommandUsecase) handleSetAutoreply(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	const usage = "Invalid format. Usage: /set_autoreply <chat_id/@username> | <message>"

	target, message, ok := splitPipe(args)
	if !ok || target == "" || message == "" {
		return usage
	}
	entity, err := uc.transport.ResolveEntity(ctx, target)
	if err != nil {
		return fmt.Sprintf("Error setting auto-reply: %v", err)
	}
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Overrides.Set(entity.ID, message)
		return nil
	})
	return fmt.Sprintf("Specific auto-reply set for %s (ID: %d):\n%s", entity.DisplayName(), entity.ID, message)
}

func (uc *OwnerCommandUsecase) handleDelAutoreply(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	if args == "" {
		return "Invalid usage. Usage: /del_autoreply <chat_id/@username>"
	}
	entity, err := uc.transport.ResolveEntity(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error deleting auto-reply: %v", err)
	}
	deleted := false
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		deleted = s.Overrides.Delete(entity.ID)
		return nil
	})
	if !deleted {
		return fmt.Sprintf("No specific auto-reply found for %s (ID: %d).", entity.DisplayName(), entity.ID)
	}
	return fmt.Sprintf("Specific auto-reply for %s (ID: %d) deleted.", entity.DisplayName(), entity.ID)
}

func (uc *OwnerCommandUsecase) handleListAutoreplies(ctx context.Context, _ *domain.IncomingMessage, _ string) string {
	snapshot := uc.state.Snapshot()
	ids := snapshot.Overrides.ChatIDs()
	if len(ids) == 0 {
		return "No specific auto-replies set."
	}
	var b strings.Builder
	b.WriteString("Specific Auto-replies:\n")
	for _, id := range ids {
		msg, _ := snapshot.Overrides.Get(id)
		b.WriteString(fmt.Sprintf("- %s (ID: %d): %s\n", uc.lookupName(ctx, id), id, msg))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ---- custom commands ----

func (uc *OwnerCommandUsecase) handleSetCommand(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	const usage = "Invalid format. Usage: /set_command <trigger> | <reply>"

	trigger, reply, ok := splitPipe(args)
	if !ok || trigger == "" || reply == "" {
		return usage
	}
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Commands.Set(trigger, domain.Command{Kind: domain.CommandText, Text: reply})
		return nil
	})
	return fmt.Sprintf("Custom text command set!\nTrigger: %s\nReply: %s", trigger, reply)
}

func (uc *OwnerCommandUsecase) handleSetCommandMedia(ctx context.Context, msg *domain.IncomingMessage, args string) string {
	if !msg.IsReply {
		return "This command must be a reply to the media message you want to set as a response."
	}
	if msg.ReplyToMedia == nil {
		return "You must reply to a photo or document message to use this command."
	}

	trigger, caption, hasPipe := splitPipe(args)
	if !hasPipe {
		trigger = strings.TrimSpace(args)
	}
	if trigger == "" {
		return "Invalid format. Trigger cannot be empty. Usage: /set_command_media <trigger> | [caption] (reply to media)"
	}

	media := msg.ReplyToMedia.Clone()
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		s.Commands.Set(trigger, domain.Command{
			Kind:    domain.CommandMedia,
			Media:   media,
			Caption: caption,
		})
		return nil
	})
	return fmt.Sprintf("Custom media command set!\nTrigger: %s\nMedia ID: %s\nCaption: %s", trigger, media.ID, caption)
}

func (uc *OwnerCommandUsecase) handleDelCommand(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	if args == "" {
		return "Invalid usage. Usage: /del_command <trigger>"
	}
	deleted := false
	_ = uc.state.Mutate(ctx, func(s *domain.State) error {
		deleted = s.Commands.Delete(args)
		return nil
	})
	if !deleted {
		return fmt.Sprintf("Custom command %q not found.", args)
	}
	return fmt.Sprintf("Custom command %q deleted.", args)
}

func (uc *OwnerCommandUsecase) handleListCommands(_ context.Context, _ *domain.IncomingMessage, _ string) string {
	snapshot := uc.state.Snapshot()
	if len(snapshot.Commands.Commands) == 0 {
		return "No custom commands set yet."
	}
	triggers := make([]string, 0, len(snapshot.Commands.Commands))
	for trigger := range snapshot.Commands.Commands {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)

	var b strings.Builder
	b.WriteString("Current Custom Commands:\n")
	for _, trigger := range triggers {
		cmd := snapshot.Commands.Commands[trigger]
		if cmd.Kind == domain.CommandMedia {
			b.WriteString(fmt.Sprintf("%s -> Media ID: %s (Caption: %s) (Media)\n", trigger, cmd.Media.ID, cmd.Caption))
		} else {
			b.WriteString(fmt.Sprintf("%s -> %s (Text)\n", trigger, cmd.Text))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (uc *OwnerCommandUsecase) handleSetCaseSensitive(ctx context.Context, _ *domain.IncomingMessage, args string) string {
	switch strings.ToLower(args) {
	case "on":
		_ = uc.state.Mutate(ctx, func(s *domain.State) error {
			s.Commands.SetCaseSensitive(true)
			return nil
		})
		return "Custom commands are now case-sensitive."
	case "off":
		_ = uc.state.Mutate(ctx, func(s *domain.State) error {
			s.Commands.SetCaseSensitive(false)
			return nil
		})
		return "Custom commands are now case-insensitive."
	default:
		return "Invalid argument. Use /set_case_sensitive on or /set_case_sensitive off."
	}
}

// ---- utilities ----

func (uc *OwnerCommandUsecase) handleStatus(_ context.Context, _ *domain.IncomingMessage, _ string) string {
	snapshot := uc.state.Snapshot()

	mode := "Online"
	if snapshot.Presence.Offline {
		mode = "Offline"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Bot Status: %s\n", mode))
	if snapshot.Presence.Offline && snapshot.Presence.OfflineUntil != nil {
		b.WriteString(fmt.Sprintf("Offline until: %s\n", snapshot.Presence.OfflineUntil.Format("2006-01-02 15:04:05")))
	}
	b.WriteString(fmt.Sprintf("Uptime: %s\n", FormatUptime(time.Since(uc.state.StartTime()))))
	b.WriteString(fmt.Sprintf("DND Chats: %d\n", len(snapshot.Dnd)))
	b.WriteString(fmt.Sprintf("Specific Auto-replies: %d\n", len(snapshot.Overrides)))
	b.WriteString(fmt.Sprintf("Custom Commands: %d (Case-sensitive: %v)", len(snapshot.Commands.Commands), snapshot.Commands.CaseSensitive))
	return b.String()
}

func (uc *OwnerCommandUsecase) handleHelpOwner(_ context.Context, _ *domain.IncomingMessage, _ string) string {
	return uc.texts.OwnerHelp
}

// lookupName resolves a chat id to a display name, best effort
func (uc *OwnerCommandUsecase) lookupName(ctx context.Context, chatID int64) string {
	entity, err := uc.transport.ResolveEntity(ctx, strconv.FormatInt(chatID, 10))
	if err != nil || entity == nil {
		return "Unknown Chat"
	}
	return entity.DisplayName()
}

// splitPipe splits "left | right" arguments, trimming both sides
func splitPipe(args string) (left, right string, ok bool) {
	parts := strings.SplitN(args, "|", 2)
	if len(parts) != 2 {
		return strings.TrimSpace(args), "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// FormatUptime renders a duration as Xd Xh Xm Xs
func FormatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, mins, secs%60)
}
