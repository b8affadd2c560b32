package data

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
)

func TestStateRepoRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	repo, err := NewStateRepo(dbPath)
	if err != nil {
		t.Fatalf("NewStateRepo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	until := time.Now().Add(time.Hour).Truncate(time.Second)
	state := domain.NewState()
	state.Presence.GoOfflineUntil(until, "back in an hour")
	state.Dnd.Add(42)
	state.Dnd.Add(-100500)
	state.Overrides.Set(7, "custom reply for seven")
	state.Commands.Set("hello", domain.Command{Kind: domain.CommandText, Text: "Hi there"})
	state.Commands.Set("menu", domain.Command{
		Kind:    domain.CommandMedia,
		Media:   &domain.MediaRef{ID: "uid1", AccessToken: "tok1", Reference: []byte{0xde, 0xad}, IsPhoto: true},
		Caption: "today's menu",
	})
	state.Commands.SetCaseSensitive(true)

	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !loaded.Presence.Offline || loaded.Presence.OfflineMessage != "back in an hour" {
		t.Errorf("presence not restored: %+v", loaded.Presence)
	}
	if loaded.Presence.OfflineUntil == nil || !loaded.Presence.OfflineUntil.Equal(until) {
		t.Errorf("offline until not restored: %v, want %v", loaded.Presence.OfflineUntil, until)
	}
	if !loaded.Dnd.Contains(42) || !loaded.Dnd.Contains(-100500) || len(loaded.Dnd) != 2 {
		t.Errorf("dnd set not restored: %v", loaded.Dnd.List())
	}
	if msg, ok := loaded.Overrides.Get(7); !ok || msg != "custom reply for seven" {
		t.Errorf("override not restored: %q %v", msg, ok)
	}
	if !loaded.Commands.CaseSensitive {
		t.Error("case sensitivity flag not restored")
	}
	if cmd, ok := loaded.Commands.Commands["hello"]; !ok || cmd.Text != "Hi there" {
		t.Errorf("text command not restored: %+v", cmd)
	}
	cmd, ok := loaded.Commands.Commands["menu"]
	if !ok || cmd.Kind != domain.CommandMedia {
		t.Fatalf("media command not restored: %+v", loaded.Commands.Commands)
	}
	if cmd.Media.ID != "uid1" || cmd.Media.AccessToken != "tok1" || !cmd.Media.IsPhoto {
		t.Errorf("media reference mangled: %+v", cmd.Media)
	}
	if string(cmd.Media.Reference) != "\xde\xad" {
		t.Errorf("reference bytes mangled: %x", cmd.Media.Reference)
	}
	if cmd.Caption != "today's menu" {
		t.Errorf("caption mangled: %q", cmd.Caption)
	}
}

func TestStateRepoSaveOverwrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	repo, err := NewStateRepo(dbPath)
	if err != nil {
		t.Fatalf("NewStateRepo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	state := domain.NewState()
	state.Dnd.Add(1)
	state.Dnd.Add(2)
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	state.Dnd.Remove(1)
	if err := repo.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Dnd.Contains(1) || !loaded.Dnd.Contains(2) {
		t.Errorf("save should replace the previous record, got %v", loaded.Dnd.List())
	}
}

func TestStateRepoEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	repo, err := NewStateRepo(dbPath)
	if err != nil {
		t.Fatalf("NewStateRepo: %v", err)
	}
	defer repo.Close()

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Presence.Offline {
		t.Error("fresh database should start online")
	}
	if len(loaded.Dnd) != 0 || len(loaded.Overrides) != 0 || len(loaded.Commands.Commands) != 0 {
		t.Errorf("fresh database should be empty: %+v", loaded)
	}
	if loaded.Presence.OfflineMessage != domain.DefaultOfflineMessage {
		t.Errorf("expected default offline message, got %q", loaded.Presence.OfflineMessage)
	}
}

func TestStateRepoCorruptMediaDegradesToText(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	repo, err := NewStateRepo(dbPath)
	if err != nil {
		t.Fatalf("NewStateRepo: %v", err)
	}
	defer repo.Close()

	// Plant a media row with an unparseable reference.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`
		INSERT INTO commands (keyword, kind, content, caption, is_photo)
		VALUES ('broken', 'media', 'not-a-valid-reference', 'cap', 1)
	`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cmd, ok := loaded.Commands.Commands["broken"]
	if !ok {
		t.Fatal("trigger with corrupt media should survive as text")
	}
	if cmd.Kind != domain.CommandText || cmd.Media != nil {
		t.Errorf("corrupt media should degrade to text, got %+v", cmd)
	}
	if cmd.Text == "" {
		t.Error("degraded command should carry a placeholder text")
	}
}
