// Package history persists users and their chat transcripts in Postgres.
// This is the durable per-user record behind the HTTP API, distinct from the
// conversation memory the agents consult mid-dialogue.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// User is an account row. The password is stored as a bcrypt hash only.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	Email          string `bun:"email,unique,notnull" json:"email"`
	HashedPassword string `bun:"hashed_password,notnull" json:"-"`
}

// ChatMessage is one stored turn of a user-visible conversation.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	SessionID string    `bun:"session_id,notnull" json:"session_id"`
	Role      string    `bun:"role,notnull" json:"role"`
	Content   string    `bun:"content,notnull" json:"content"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// SessionSummary describes one conversation in a user's session list. The
// title is the first message of the session.
type SessionSummary struct {
	SessionID   string    `json:"session_id"`
	LastUpdated time.Time `json:"last_updated"`
	Title       string    `json:"title"`
}

// UserStore is the account persistence surface used by the HTTP layer.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
}

// ChatStore is the transcript persistence surface used by the HTTP layer.
type ChatStore interface {
	SaveMessage(ctx context.Context, userID int64, sessionID, role, content string) (*ChatMessage, error)
	HistoryBySession(ctx context.Context, sessionID string) ([]ChatMessage, error)
	SessionsByUser(ctx context.Context, userID int64) ([]SessionSummary, error)
	DeleteSession(ctx context.Context, userID int64, sessionID string) error
}

// Store implements UserStore and ChatStore over a bun-wrapped Postgres
// connection.
type Store struct {
	db *bun.DB
}

// Connect opens a Postgres connection for the given DSN.
func Connect(dsn string) *Store {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return NewStore(bun.NewDB(sqldb, pgdialect.New()))
}

// NewStore wraps an existing bun handle.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Init creates the schema when missing.
func (s *Store) Init(ctx context.Context) error {
	for _, model := range []any{(*User)(nil), (*ChatMessage)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, email, hashedPassword string) (*User, error) {
	user := &User{Email: email, HashedPassword: hashedPassword}
	if _, err := s.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// UserByEmail finds an account by email, returning (nil, nil) when absent.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := s.db.NewSelect().Model(user).Where("email = ?", email).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SaveMessage appends one turn to a session's stored transcript.
func (s *Store) SaveMessage(ctx context.Context, userID int64, sessionID, role, content string) (*ChatMessage, error) {
	msg := &ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(msg).Exec(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// HistoryBySession returns a session's messages in chronological order.
func (s *Store) HistoryBySession(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	err := s.db.NewSelect().
		Model(&msgs).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// SessionsByUser lists a user's sessions, most recently active first, each
// titled with its opening message.
func (s *Store) SessionsByUser(ctx context.Context, userID int64) ([]SessionSummary, error) {
	var latest []struct {
		SessionID   string    `bun:"session_id"`
		LastUpdated time.Time `bun:"last_updated"`
	}
	err := s.db.NewSelect().
		Model((*ChatMessage)(nil)).
		Column("session_id").
		ColumnExpr("max(created_at) AS last_updated").
		Where("user_id = ?", userID).
		Group("session_id").
		OrderExpr("last_updated DESC").
		Scan(ctx, &latest)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(latest))
	for _, row := range latest {
		first := new(ChatMessage)
		err := s.db.NewSelect().
			Model(first).
			Where("session_id = ?", row.SessionID).
			Order("created_at ASC").
			Limit(1).
			Scan(ctx)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{
			SessionID:   row.SessionID,
			LastUpdated: row.LastUpdated,
			Title:       first.Content,
		})
	}
	return summaries, nil
}

// DeleteSession removes a user's stored transcript for one session.
func (s *Store) DeleteSession(ctx context.Context, userID int64, sessionID string) error {
	_, err := s.db.NewDelete().
		Model((*ChatMessage)(nil)).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Exec(ctx)
	return err
}
