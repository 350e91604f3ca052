package repository

import (
	"context"
	"database/sql"
	"time"
)

// Channel mirrors the 'channels' table.
type Channel struct {
	ID           uint64
	Name         string
	PasswordHash string
	Description  string
	CreatedAt    time.Time
}

// DefaultChannelID is the channel every new signup joins.
const DefaultChannelID uint64 = 1

type ChannelRepo struct{ DB *sql.DB }

func NewChannelRepo(db *sql.DB) *ChannelRepo { return &ChannelRepo{DB: db} }

// GetByID fetches a channel by id.
func (r *ChannelRepo) GetByID(ctx context.Context, id uint64) (Channel, error) {
	var c Channel
	var hash sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,password_hash,description,created_at FROM channels WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Name, &hash, &c.Description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Channel{}, ErrNotFound
	}
	if err != nil {
		return Channel{}, err
	}
	c.PasswordHash = hash.String
	return c, nil
}
