// Package store is the SQLite-backed persistence layer: a kv_store table
// backing the memory.store/memory.recall tools, and conversations/messages
// tables backing the resources/list and resources/read projections. It
// opens the database in write-ahead log mode so concurrent readers don't
// block a single writer.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	internalerrors "github.com/jamesprial/mcp-oauth-2.1/internal/errors"
)

// Store is the persistence API used by internal/tools, both by its memory
// tools and by its resource projections.
type Store interface {
	// Put upserts a key-value pair, updating updated_at on conflict.
	Put(ctx context.Context, key, value string) error

	// Get returns the value for key, or ErrNotFound if absent.
	Get(ctx context.Context, key string) (string, error)

	// ListKeys returns every key currently stored, for resource discovery.
	ListKeys(ctx context.Context) ([]string, error)

	// CreateConversation inserts a new conversation and returns its id.
	CreateConversation(ctx context.Context, title string) (int64, error)

	// AppendMessage inserts a message under an existing conversation.
	AppendMessage(ctx context.Context, conversationID int64, role, content string) (int64, error)

	// ListConversations returns every conversation, most recent first.
	ListConversations(ctx context.Context) ([]Conversation, error)

	// Messages returns every message in a conversation, in insertion order.
	Messages(ctx context.Context, conversationID int64) ([]Message, error)

	// Close releases the underlying database handle.
	Close() error
}

// Conversation is one row of the conversations table.
type Conversation struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// Message is one row of the messages table.
type Message struct {
	ID             int64
	ConversationID int64
	Role           string
	Content        string
	CreatedAt      time.Time
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path, enables
// WAL mode, and ensures the schema exists.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, internalerrors.New("store", "Open", internalerrors.ErrExternal, err).
			WithContext("path", path)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, internalerrors.New("store", "Open", internalerrors.ErrExternal, fmt.Errorf("enable WAL: %w", err))
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, internalerrors.New("store", "Open", internalerrors.ErrExternal, fmt.Errorf("enable foreign_keys: %w", err))
	}

	s := &sqliteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqliteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL REFERENCES conversations(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return internalerrors.New("store", "migrate", internalerrors.ErrExternal, err)
		}
	}
	return nil
}

func (s *sqliteStore) Put(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now, now)
	if err != nil {
		return internalerrors.New("store", "Put", internalerrors.ErrExternal, err).WithContext("key", key)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", internalerrors.New("store", "Get", internalerrors.ErrNotFound, nil).WithContext("key", key)
	}
	if err != nil {
		return "", internalerrors.New("store", "Get", internalerrors.ErrExternal, err).WithContext("key", key)
	}
	return value, nil
}

func (s *sqliteStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_store ORDER BY key`)
	if err != nil {
		return nil, internalerrors.New("store", "ListKeys", internalerrors.ErrExternal, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, internalerrors.New("store", "ListKeys", internalerrors.ErrExternal, err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, internalerrors.New("store", "ListKeys", internalerrors.ErrExternal, err)
	}
	return keys, nil
}

func (s *sqliteStore) CreateConversation(ctx context.Context, title string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO conversations (title, created_at) VALUES (?, ?)`, title, time.Now().UTC())
	if err != nil {
		return 0, internalerrors.New("store", "CreateConversation", internalerrors.ErrExternal, err)
	}
	return res.LastInsertId()
}

func (s *sqliteStore) AppendMessage(ctx context.Context, conversationID int64, role, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)
	`, conversationID, role, content, time.Now().UTC())
	if err != nil {
		return 0, internalerrors.New("store", "AppendMessage", internalerrors.ErrExternal, err).
			WithContext("conversation_id", conversationID)
	}
	return res.LastInsertId()
}

func (s *sqliteStore) ListConversations(ctx context.Context) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at FROM conversations ORDER BY created_at DESC`)
	if err != nil {
		return nil, internalerrors.New("store", "ListConversations", internalerrors.ErrExternal, err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, internalerrors.New("store", "ListConversations", internalerrors.ErrExternal, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Messages(ctx context.Context, conversationID int64) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at FROM messages
		WHERE conversation_id = ? ORDER BY id ASC
	`, conversationID)
	if err != nil {
		return nil, internalerrors.New("store", "Messages", internalerrors.ErrExternal, err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, internalerrors.New("store", "Messages", internalerrors.ErrExternal, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
