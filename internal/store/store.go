// Package store is the CLI's durable, cross-invocation layer on top of
// internal/cache's single-process memoization: a SQLite database holding
// rendered note snapshots (written by `slacknotes note --save`) and the
// user/emoji maps internal/resolve fetches, which `format`/`note` load for
// substitution. The CLI does not look up saved notes before running the
// pipeline, and `slacknotes resolve` always fetches from the network.
package store

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/solvaholic/slacknotes/internal/message"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the schema this package expects; Open fails loudly if an
// existing database reports an older version, since no migration exists.
// A database reporting a newer version is opened without a check.
const SchemaVersion = 1

// Store wraps the SQLite connection backing persisted notes and resolved
// user/emoji maps.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path, initializing its schema on
// first use.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	s := &Store{conn: conn, path: path}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return s, nil
}

// DefaultPath returns the default store location, `~/.slacknotes/store.db`.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./slacknotes.db"
	}
	return filepath.Join(home, ".slacknotes", "store.db")
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	var current int
	err := s.conn.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&current)

	if err == sql.ErrNoRows || isNoSuchTable(err) {
		if _, err := s.conn.Exec(schemaSQL); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	if current < SchemaVersion {
		return fmt.Errorf("store schema migration needed from version %d to %d (not implemented)", current, SchemaVersion)
	}
	return nil
}

func isNoSuchTable(err error) bool {
	return err != nil && (err.Error() == "no such table: schema_version" || err.Error() == "SQL logic error: no such table: schema_version")
}

// InputHash derives the lookup key used by SaveNote/FindNote: the exact
// input text, independent of settings generation so callers can see every
// generation's note for the same paste.
func InputHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Note is a persisted render of one input at one settings generation.
type Note struct {
	ID                  string
	InputHash           string
	SettingsGeneration  int
	Profile             string
	Markdown            string
	MessageCount        int
	CreatedAt           time.Time
}

// SaveNote upserts a note for (inputHash, generation), replacing any prior
// render at that generation (the markdown itself may have changed if the
// CORE pipeline's heuristics changed between builds).
func (s *Store) SaveNote(inputHash string, generation int, profile, markdown string, messageCount int) (string, error) {
	id := uuid.NewString()
	_, err := s.conn.Exec(`
		INSERT INTO notes (id, input_hash, settings_generation, profile, markdown, message_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(input_hash, settings_generation) DO UPDATE SET
			id = excluded.id,
			profile = excluded.profile,
			markdown = excluded.markdown,
			message_count = excluded.message_count,
			created_at = CURRENT_TIMESTAMP
	`, id, inputHash, generation, profile, markdown, messageCount)
	if err != nil {
		return "", fmt.Errorf("failed to save note: %w", err)
	}
	return id, nil
}

// FindNote returns the persisted note for (inputHash, generation), or nil
// if none exists yet.
func (s *Store) FindNote(inputHash string, generation int) (*Note, error) {
	n := &Note{}
	err := s.conn.QueryRow(`
		SELECT id, input_hash, settings_generation, profile, markdown, message_count, created_at
		FROM notes
		WHERE input_hash = ? AND settings_generation = ?
	`, inputHash, generation).Scan(
		&n.ID, &n.InputHash, &n.SettingsGeneration, &n.Profile, &n.Markdown, &n.MessageCount, &n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return n, nil
}

// SaveUserMap persists a resolved user map for a workspace.
func (s *Store) SaveUserMap(teamID string, users message.UserMap) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO resolved_users (team_id, user_id, display_name)
		VALUES (?, ?, ?)
		ON CONFLICT(team_id, user_id) DO UPDATE SET
			display_name = excluded.display_name,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare user upsert: %w", err)
	}
	defer stmt.Close()

	for userID, name := range users {
		if _, err := stmt.Exec(teamID, userID, name); err != nil {
			return fmt.Errorf("failed to save user %s: %w", userID, err)
		}
	}
	return tx.Commit()
}

// LoadUserMap returns the persisted user map for a workspace.
func (s *Store) LoadUserMap(teamID string) (message.UserMap, error) {
	rows, err := s.conn.Query(`SELECT user_id, display_name FROM resolved_users WHERE team_id = ?`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	userMap := message.UserMap{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		userMap[id] = name
	}
	return userMap, rows.Err()
}

// SaveEmojiMap persists a resolved emoji map for a workspace.
func (s *Store) SaveEmojiMap(teamID string, emoji message.EmojiMap) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO resolved_emoji (team_id, shortcode, value)
		VALUES (?, ?, ?)
		ON CONFLICT(team_id, shortcode) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare emoji upsert: %w", err)
	}
	defer stmt.Close()

	for shortcode, value := range emoji {
		if _, err := stmt.Exec(teamID, shortcode, value); err != nil {
			return fmt.Errorf("failed to save emoji %s: %w", shortcode, err)
		}
	}
	return tx.Commit()
}

// LoadEmojiMap returns the persisted emoji map for a workspace.
func (s *Store) LoadEmojiMap(teamID string) (message.EmojiMap, error) {
	rows, err := s.conn.Query(`SELECT shortcode, value FROM resolved_emoji WHERE team_id = ?`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emoji: %w", err)
	}
	defer rows.Close()

	emojiMap := message.EmojiMap{}
	for rows.Next() {
		var shortcode, value string
		if err := rows.Scan(&shortcode, &value); err != nil {
			return nil, fmt.Errorf("failed to scan emoji row: %w", err)
		}
		emojiMap[shortcode] = value
	}
	return emojiMap, rows.Err()
}

// Stats summarizes the store's contents for the `slacknotes cache info`
// command.
type Stats struct {
	NoteCount     int64
	UserCount     int64
	EmojiCount    int64
	DatabaseSize  int64
}

// HumanSize renders DatabaseSize using go-humanize, e.g. "2.1 MB".
func (st Stats) HumanSize() string {
	return humanize.Bytes(uint64(st.DatabaseSize))
}

// Stats reports note/user/emoji counts and the database file size.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{}

	if err := s.conn.QueryRow("SELECT COUNT(*) FROM notes").Scan(&st.NoteCount); err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM resolved_users").Scan(&st.UserCount); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM resolved_emoji").Scan(&st.EmojiCount); err != nil {
		return nil, fmt.Errorf("failed to count emoji: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		st.DatabaseSize = info.Size()
	}
	return st, nil
}

// Clear empties every persisted table, used by `slacknotes cache clear`.
func (s *Store) Clear() error {
	for _, table := range []string{"notes", "resolved_users", "resolved_emoji"} {
		if _, err := s.conn.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
