package handler

import (
	"context"
	"time"

	"github.com/candle/larktalk/internal/repository"
)

// In-memory fakes for the store interfaces.

type membership struct {
	UserID    uint64
	ChannelID uint64
	JoinedAt  time.Time
}

type fakeUsers struct {
	byLogin map[string]repository.User
	nextID  uint64
	created []repository.User
	roles   map[uint64][]uint64 // user id -> role ids
	names   map[uint64]string   // role id -> name
	joins   []membership
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byLogin: map[string]repository.User{},
		nextID:  1,
		roles:   map[uint64][]uint64{},
		names:   map[uint64]string{},
	}
}

func (f *fakeUsers) add(u repository.User) repository.User {
	u.ID = f.nextID
	f.nextID++
	f.byLogin[u.Login] = u
	return u
}

func (f *fakeUsers) Register(_ context.Context, u repository.User, roleID, channelID uint64) (uint64, error) {
	if _, ok := f.byLogin[u.Login]; ok {
		return 0, repository.ErrDuplicate
	}
	u = f.add(u)
	f.created = append(f.created, u)
	f.roles[u.ID] = append(f.roles[u.ID], roleID)
	f.joins = append(f.joins, membership{UserID: u.ID, ChannelID: channelID, JoinedAt: u.CreatedAt})
	return u.ID, nil
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (repository.User, error) {
	u, ok := f.byLogin[login]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ExistsByLogin(_ context.Context, login string) (bool, error) {
	_, ok := f.byLogin[login]
	return ok, nil
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	for _, u := range f.byLogin {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) RoleNames(_ context.Context, userID uint64) ([]string, error) {
	var names []string
	for _, id := range f.roles[userID] {
		names = append(names, f.names[id])
	}
	return names, nil
}

type fakeRoles struct {
	byName map[string]repository.Role
}

func (f *fakeRoles) GetByName(_ context.Context, name string) (repository.Role, error) {
	r, ok := f.byName[name]
	if !ok {
		return repository.Role{}, repository.ErrNotFound
	}
	return r, nil
}

type fakeChannels struct {
	byID map[uint64]repository.Channel
}

func (f *fakeChannels) GetByID(_ context.Context, id uint64) (repository.Channel, error) {
	c, ok := f.byID[id]
	if !ok {
		return repository.Channel{}, repository.ErrNotFound
	}
	return c, nil
}

type fakeMessages struct {
	rows []repository.Message
}

func (f *fakeMessages) Create(_ context.Context, m repository.Message) (uint64, error) {
	f.rows = append(f.rows, m)
	return uint64(len(f.rows)), nil
}
