package data

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anthropics/tg-awaybot/internal/biz/domain"
	"github.com/anthropics/tg-awaybot/internal/biz/repo"

	_ "modernc.org/sqlite"
)

// Settings table keys
const (
	settingOffline        = "offline"
	settingOfflineMessage = "offline_message"
	settingOfflineUntil   = "offline_until"
	settingCaseSensitive  = "case_sensitive"
)

// mediaLostText replaces a media command whose stored reference no longer parses
const mediaLostText = "Sorry, this media is no longer available."

// stateRepo implements the durable state repository on SQLite
type stateRepo struct {
	db *sql.DB
}

// NewStateRepo creates the SQLite-backed state repository
func NewStateRepo(dbPath string) (repo.StateRepo, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create tables
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS dnd_chats (
			chat_id INTEGER PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS autoreplies (
			chat_id INTEGER PRIMARY KEY,
			message TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS commands (
			keyword TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			caption TEXT NOT NULL DEFAULT '',
			is_photo INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return &stateRepo{db: db}, nil
}

// Load reads the full persisted state. An empty database yields defaults.
func (r *stateRepo) Load(ctx context.Context) (*domain.State, error) {
	state := domain.NewState()

	rows, err := r.db.QueryContext(ctx, `SELECT chat_id FROM dnd_chats`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dnd chats: %w", err)
	}
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan dnd chat: %w", err)
		}
		state.Dnd.Add(chatID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dnd chats: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `SELECT chat_id, message FROM autoreplies`)
	if err != nil {
		return nil, fmt.Errorf("failed to query autoreplies: %w", err)
	}
	for rows.Next() {
		var chatID int64
		var message string
		if err := rows.Scan(&chatID, &message); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan autoreply: %w", err)
		}
		state.Overrides.Set(chatID, message)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read autoreplies: %w", err)
	}

	if err := r.loadSettings(ctx, state); err != nil {
		return nil, err
	}
	if err := r.loadCommands(ctx, state); err != nil {
		return nil, err
	}

	return state, nil
}

func (r *stateRepo) loadSettings(ctx context.Context, state *domain.State) error {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan setting: %w", err)
		}
		switch key {
		case settingOffline:
			state.Presence.Offline = value == "1"
		case settingOfflineMessage:
			if value != "" {
				state.Presence.OfflineMessage = value
			}
		case settingOfflineUntil:
			if unix, err := strconv.ParseInt(value, 10, 64); err == nil && unix > 0 {
				t := time.Unix(unix, 0)
				state.Presence.OfflineUntil = &t
			}
		case settingCaseSensitive:
			state.Commands.CaseSensitive = value == "1"
		}
	}
	return rows.Err()
}

// loadCommands reads the command table. A media command whose stored
// reference fails to parse is degraded to a text command so the trigger
// survives instead of vanishing.
func (r *stateRepo) loadCommands(ctx context.Context, state *domain.State) error {
	rows, err := r.db.QueryContext(ctx, `SELECT keyword, kind, content, caption, is_photo FROM commands`)
	if err != nil {
		return fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trigger, kind, content, caption string
		var isPhoto int
		if err := rows.Scan(&trigger, &kind, &content, &caption, &isPhoto); err != nil {
			return fmt.Errorf("failed to scan command: %w", err)
		}

		cmd := domain.Command{Kind: domain.CommandKind(kind), Text: content, Caption: caption}
		if cmd.Kind == domain.CommandMedia {
			media, err := domain.ParseMediaRef(content)
			if err != nil {
				log.Printf("[State] Dropping media payload for trigger %q: %v", trigger, err)
				cmd = domain.Command{Kind: domain.CommandText, Text: mediaLostText}
			} else {
				media.IsPhoto = isPhoto != 0
				cmd.Text = ""
				cmd.Media = media
			}
		}
		state.Commands.Commands[trigger] = cmd
	}
	return rows.Err()
}

// Save rewrites the full state record in one transaction
func (r *stateRepo) Save(ctx context.Context, state *domain.State) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"dnd_chats", "autoreplies", "commands", "settings"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, chatID := range state.Dnd.List() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dnd_chats (chat_id) VALUES (?)`, chatID); err != nil {
			return fmt.Errorf("failed to save dnd chat: %w", err)
		}
	}

	for _, chatID := range state.Overrides.ChatIDs() {
		message, _ := state.Overrides.Get(chatID)
		if _, err := tx.ExecContext(ctx, `INSERT INTO autoreplies (chat_id, message) VALUES (?, ?)`, chatID, message); err != nil {
			return fmt.Errorf("failed to save autoreply: %w", err)
		}
	}

	for trigger, cmd := range state.Commands.Commands {
		content := cmd.Text
		isPhoto := 0
		if cmd.Kind == domain.CommandMedia && cmd.Media != nil {
			content = cmd.Media.Encode()
			if cmd.Media.IsPhoto {
				isPhoto = 1
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO commands (keyword, kind, content, caption, is_photo)
			VALUES (?, ?, ?, ?, ?)
		`, trigger, string(cmd.Kind), content, cmd.Caption, isPhoto); err != nil {
			return fmt.Errorf("failed to save command: %w", err)
		}
	}

	offlineUntil := int64(0)
	if state.Presence.OfflineUntil != nil {
		offlineUntil = state.Presence.OfflineUntil.Unix()
	}
	settings := map[string]string{
		settingOffline:        boolValue(state.Presence.Offline),
		settingOfflineMessage: state.Presence.OfflineMessage,
		settingOfflineUntil:   strconv.FormatInt(offlineUntil, 10),
		settingCaseSensitive:  boolValue(state.Commands.CaseSensitive),
	}
	for key, value := range settings {
		if _, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *stateRepo) Close() error {
	return r.db.Close()
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
