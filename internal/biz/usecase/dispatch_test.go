package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

// memStateRepo is an in-memory StateRepo for tests
type memStateRepo struct {
	initial *domain.State
	loadErr error
	saved   *domain.State
	saves   int
}

func (r *memStateRepo) Load(_ context.Context) (*domain.State, error) {
	return r.initial, r.loadErr
}

func (r *memStateRepo) Save(_ context.Context, state *domain.State) error {
	r.saved = state.Clone()
	r.saves++
	return nil
}

func (r *memStateRepo) Close() error { return nil }

func newTestManager(t *testing.T, seed func(s *domain.State)) (*StateManager, *memStateRepo) {
	t.Helper()
	repo := &memStateRepo{}
	mgr := NewStateManager(context.Background(), repo)
	if seed != nil {
		if err := mgr.Mutate(context.Background(), func(s *domain.State) error {
			seed(s)
			return nil
		}); err != nil {
			t.Fatalf("seed state: %v", err)
		}
	}
	return mgr, repo
}

func privateMsg(chatID, senderID int64, text string) *domain.IncomingMessage {
	return &domain.IncomingMessage{
		MessageID:  100,
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: "Alice",
		Username:   "alice",
		IsPrivate:  true,
		Text:       text,
	}
}

const (
	testOwnerID   = int64(1000)
	testArchiveID = int64(2000)
)

func newTestDispatch(mgr *StateManager) *DispatchUsecase {
	return NewDispatchUsecase(mgr, DefaultReplyTexts(), testOwnerID, testArchiveID)
}

func TestDispatchOfflineAutoReply(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("Away until Monday")
	})
	uc := newTestDispatch(mgr)

	msg := privateMsg(42, 42, "hey, are you there?")
	actions := uc.Dispatch(context.Background(), msg, time.Now())

	if len(actions) != 3 {
		t.Fatalf("expected reply+forward+annotation, got %d actions: %+v", len(actions), actions)
	}
	if actions[0].Kind != domain.ActionReply || actions[0].Text != "Away until Monday" {
		t.Errorf("unexpected reply action: %+v", actions[0])
	}
	if actions[0].ChatID != 42 || actions[0].ReplyTo != 100 {
		t.Errorf("reply should target the originating message, got %+v", actions[0])
	}
	if actions[1].Kind != domain.ActionForward || actions[1].ChatID != testArchiveID {
		t.Errorf("unexpected forward action: %+v", actions[1])
	}
	if actions[1].FromChatID != 42 || actions[1].FromMessageID != 100 {
		t.Errorf("forward should reference the original message, got %+v", actions[1])
	}
	if actions[2].Kind != domain.ActionSendText || actions[2].ChatID != testArchiveID {
		t.Errorf("unexpected annotation action: %+v", actions[2])
	}
	if !strings.Contains(actions[2].Text, "Alice") || !strings.Contains(actions[2].Text, "@alice") || !strings.Contains(actions[2].Text, "ID: 42") {
		t.Errorf("annotation should identify the sender, got %q", actions[2].Text)
	}
}

func TestDispatchDndSuppressesEverything(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("")
		s.Dnd.Add(42)
		s.Overrides.Set(42, "special reply")
	})
	uc := newTestDispatch(mgr)

	actions := uc.Dispatch(context.Background(), privateMsg(42, 42, "/help"), time.Now())
	if len(actions) != 0 {
		t.Fatalf("DND chat must get no actions, got %+v", actions)
	}
}

func TestDispatchOverrideBeatsGlobalMessage(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("global message")
		s.Overrides.Set(42, "B")
		s.Overrides.Set(43, "A")
	})
	uc := newTestDispatch(mgr)

	got := uc.Dispatch(context.Background(), privateMsg(42, 42, "hi"), time.Now())
	if len(got) == 0 || got[0].Text != "B" {
		t.Errorf("chat 42 should get its own override, got %+v", got)
	}
	got = uc.Dispatch(context.Background(), privateMsg(43, 43, "hi"), time.Now())
	if len(got) == 0 || got[0].Text != "A" {
		t.Errorf("chat 43 should get its own override, got %+v", got)
	}
	got = uc.Dispatch(context.Background(), privateMsg(44, 44, "hi"), time.Now())
	if len(got) == 0 || got[0].Text != "global message" {
		t.Errorf("chat without override should get the global message, got %+v", got)
	}
}

func TestDispatchIgnoresBotsAndOwner(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("")
	})
	uc := newTestDispatch(mgr)

	bot := privateMsg(42, 42, "hello")
	bot.IsBot = true
	if got := uc.Dispatch(context.Background(), bot, time.Now()); len(got) != 0 {
		t.Errorf("bot sender must not be auto-replied, got %+v", got)
	}

	owner := privateMsg(testOwnerID, testOwnerID, "note to self")
	if got := uc.Dispatch(context.Background(), owner, time.Now()); len(got) != 0 {
		t.Errorf("owner must not be auto-replied, got %+v", got)
	}
}

func TestDispatchGroupRequiresMention(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("away")
	})
	uc := newTestDispatch(mgr)

	group := &domain.IncomingMessage{MessageID: 5, ChatID: -100, SenderID: 42, Text: "anyone?"}
	if got := uc.Dispatch(context.Background(), group, time.Now()); len(got) != 0 {
		t.Errorf("unmentioned group message must be ignored, got %+v", got)
	}

	group.IsMentioned = true
	if got := uc.Dispatch(context.Background(), group, time.Now()); len(got) != 3 {
		t.Errorf("mentioned group message should be auto-replied, got %+v", got)
	}
}

func TestDispatchTriggerMatchWhenOnline(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Commands.Set("hello", domain.Command{Kind: domain.CommandText, Text: "Hi there"})
	})
	uc := newTestDispatch(mgr)

	actions := uc.Dispatch(context.Background(), privateMsg(42, 42, "well hello friend"), time.Now())
	if len(actions) != 1 || actions[0].Kind != domain.ActionReply || actions[0].Text != "Hi there" {
		t.Fatalf("expected trigger reply, got %+v", actions)
	}
}

func TestDispatchTriggersOffDuringOffline(t *testing.T) {
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOffline("away")
		s.Commands.Set("hello", domain.Command{Kind: domain.CommandText, Text: "Hi there"})
	})
	uc := newTestDispatch(mgr)

	actions := uc.Dispatch(context.Background(), privateMsg(42, 42, "hello"), time.Now())
	if len(actions) != 3 || actions[0].Text != "away" {
		t.Fatalf("offline auto-reply should win over trigger matching, got %+v", actions)
	}
}

func TestDispatchMediaTrigger(t *testing.T) {
	media := &domain.MediaRef{ID: "uid1", AccessToken: "tok1", IsPhoto: true}
	mgr, _ := newTestManager(t, func(s *domain.State) {
		s.Commands.Set("menu", domain.Command{Kind: domain.CommandMedia, Media: media, Caption: "today's menu"})
	})
	uc := newTestDispatch(mgr)

	actions := uc.Dispatch(context.Background(), privateMsg(42, 42, "send menu please"), time.Now())
	if len(actions) != 1 || actions[0].Kind != domain.ActionSendMedia {
		t.Fatalf("expected media action, got %+v", actions)
	}
	if actions[0].Media.AccessToken != "tok1" || actions[0].Caption != "today's menu" {
		t.Errorf("media action lost its payload: %+v", actions[0])
	}
}

func TestDispatchExpiryNotifiesOnce(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	mgr, repo := newTestManager(t, func(s *domain.State) {
		s.Presence.GoOfflineUntil(past, "back soon")
	})
	uc := newTestDispatch(mgr)
	savesBefore := repo.saves

	first := uc.Dispatch(context.Background(), privateMsg(42, 42, "hi"), time.Now())
	if len(first) != 1 || first[0].Kind != domain.ActionSendText || first[0].ChatID != testOwnerID {
		t.Fatalf("first message after expiry should only notify the owner, got %+v", first)
	}
	if first[0].Text != DefaultReplyTexts().ExpiryNotice {
		t.Errorf("unexpected expiry notice: %q", first[0].Text)
	}
	if repo.saves != savesBefore+1 {
		t.Errorf("expiry transition should persist once, saves went %d -> %d", savesBefore, repo.saves)
	}

	second := uc.Dispatch(context.Background(), privateMsg(42, 42, "hi again"), time.Now())
	if len(second) != 0 {
		t.Fatalf("second message must see online state with no further notice, got %+v", second)
	}
	if mgr.Snapshot().Presence.Offline {
		t.Error("presence should be online after expiry")
	}
}

func TestDispatchPublicHelp(t *testing.T) {
	mgr, _ := newTestManager(t, nil)
	uc := newTestDispatch(mgr)

	actions := uc.Dispatch(context.Background(), privateMsg(42, 42, "  /Help  "), time.Now())
	if len(actions) != 1 || actions[0].Kind != domain.ActionReply {
		t.Fatalf("expected public help reply, got %+v", actions)
	}
	if !strings.Contains(actions[0].Text, "auto-reply bot") {
		t.Errorf("unexpected help text: %q", actions[0].Text)
	}

	// Embedded token is not the help command.
	if got := uc.Dispatch(context.Background(), privateMsg(42, 42, "what does /help do?"), time.Now()); len(got) != 0 {
		t.Errorf("embedded /help must not trigger the help reply, got %+v", got)
	}
}

func TestDispatchNothingForPlainOnlineMessage(t *testing.T) {
	mgr, repo := newTestManager(t, nil)
	uc := newTestDispatch(mgr)
	savesBefore := repo.saves

	if got := uc.Dispatch(context.Background(), privateMsg(42, 42, "just saying hi"), time.Now()); len(got) != 0 {
		t.Errorf("online with no triggers should produce nothing, got %+v", got)
	}
	if repo.saves != savesBefore {
		t.Errorf("a read-only dispatch must not persist, saves went %d -> %d", savesBefore, repo.saves)
	}
}
