package repository

import (
	"context"
	"database/sql"
	"time"
)

// Message mirrors the 'messages' table.
type Message struct {
	ID        uint64
	SenderID  uint64
	ChannelID uint64
	Content   string
	Type      string
	Timestamp time.Time
}

// Message types as stored in the enum column. Only TEXT is produced at
// runtime; IMAGE and VIDEO exist for imported data.
const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
	MessageTypeVideo = "VIDEO"
)

type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create appends a message and returns its id. Messages are immutable once
// written.
func (r *MessageRepo) Create(ctx context.Context, m Message) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, channel_id, content, type, timestamp) VALUES (?,?,?,?,?)",
		m.SenderID, m.ChannelID, m.Content, m.Type, m.Timestamp)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
