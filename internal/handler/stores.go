package handler

import (
	"context"

	"github.com/candle/larktalk/internal/repository"
)

// Store interfaces consumed by the handlers. The concrete repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type UserStore interface {
	Register(ctx context.Context, u repository.User, roleID, channelID uint64) (uint64, error)
	GetByLogin(ctx context.Context, login string) (repository.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	RoleNames(ctx context.Context, userID uint64) ([]string, error)
}

type RoleStore interface {
	GetByName(ctx context.Context, name string) (repository.Role, error)
}

type ChannelStore interface {
	GetByID(ctx context.Context, id uint64) (repository.Channel, error)
}

type MessageStore interface {
	Create(ctx context.Context, m repository.Message) (uint64, error)
}
