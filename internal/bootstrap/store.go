package bootstrap

import (
	"context"
	"database/sql"
	"time"
)

// Records passed to the store. These mirror the CSV column layout rather
// than the request-path repository types: the importer is the only writer
// that deals in pre-hash password columns and file timestamps.

type roleRecord struct {
	Name        string
	Description string
}

type userRecord struct {
	Login        string
	Nickname     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
	LastLogin    time.Time
}

type channelRecord struct {
	Name         string
	PasswordHash string
	Description  string
	CreatedAt    time.Time
}

type settingRecord struct {
	ChannelID uint64
	Key       string
	Value     string
}

type accessRecord struct {
	UserID    uint64
	ChannelID uint64
	JoinedAt  time.Time
}

type messageRecord struct {
	SenderID  uint64
	ChannelID uint64
	Content   string
	Type      string
	Timestamp time.Time
}

// store is the write surface the importers need. The production
// implementation wraps a single transaction so a fatal error leaves no
// partial data behind; tests substitute an in-memory fake.
type store interface {
	CountUsers(ctx context.Context) (int64, error)
	InsertRole(ctx context.Context, r roleRecord) (uint64, error)
	InsertUser(ctx context.Context, u userRecord) (uint64, error)
	AttachRole(ctx context.Context, userID, roleID uint64) error
	InsertChannel(ctx context.Context, c channelRecord) (uint64, error)
	InsertSetting(ctx context.Context, s settingRecord) error
	InsertAccess(ctx context.Context, a accessRecord) error
	InsertMessage(ctx context.Context, m messageRecord) error
}

// sqlStore runs every write on one *sql.Tx.
type sqlStore struct {
	tx *sql.Tx
}

func (s *sqlStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func (s *sqlStore) InsertRole(ctx context.Context, r roleRecord) (uint64, error) {
	res, err := s.tx.ExecContext(ctx,
		"INSERT INTO roles (name, description) VALUES (?,?)",
		r.Name, r.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (s *sqlStore) InsertUser(ctx context.Context, u userRecord) (uint64, error) {
	res, err := s.tx.ExecContext(ctx,
		"INSERT INTO users (login, nickname, password_hash, email, created_at, last_login) VALUES (?,?,?,?,?,?)",
		u.Login, u.Nickname, u.PasswordHash, nullable(u.Email), u.CreatedAt, u.LastLogin)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (s *sqlStore) AttachRole(ctx context.Context, userID, roleID uint64) error {
	_, err := s.tx.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)",
		userID, roleID)
	return err
}

func (s *sqlStore) InsertChannel(ctx context.Context, c channelRecord) (uint64, error) {
	res, err := s.tx.ExecContext(ctx,
		"INSERT INTO channels (name, password_hash, description, created_at) VALUES (?,?,?,?)",
		c.Name, nullable(c.PasswordHash), c.Description, c.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (s *sqlStore) InsertSetting(ctx context.Context, r settingRecord) error {
	_, err := s.tx.ExecContext(ctx,
		"INSERT INTO channel_settings (channel_id, setting_key, setting_value) VALUES (?,?,?)",
		r.ChannelID, r.Key, r.Value)
	return err
}

func (s *sqlStore) InsertAccess(ctx context.Context, a accessRecord) error {
	_, err := s.tx.ExecContext(ctx,
		"INSERT INTO user_channel_access (user_id, channel_id, joined_at) VALUES (?,?,?)",
		a.UserID, a.ChannelID, a.JoinedAt)
	return err
}

func (s *sqlStore) InsertMessage(ctx context.Context, m messageRecord) error {
	_, err := s.tx.ExecContext(ctx,
		"INSERT INTO messages (sender_id, channel_id, content, type, timestamp) VALUES (?,?,?,?,?)",
		m.SenderID, m.ChannelID, m.Content, m.Type, m.Timestamp)
	return err
}

// nullable maps an empty CSV field to NULL so unique columns (email) do not
// collide on the empty string.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
