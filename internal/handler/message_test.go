package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/candle/larktalk/internal/middleware"
	"github.com/candle/larktalk/internal/queue"
	"github.com/candle/larktalk/internal/repository"
)

func newMessageFixture(publish PublishFunc) (*MessageHandler, *fakeUsers, *fakeMessages) {
	users := newFakeUsers()
	channels := &fakeChannels{byID: map[uint64]repository.Channel{
		1: {ID: 1, Name: "general"},
	}}
	messages := &fakeMessages{}
	h := NewMessageHandler(users, channels, messages, zap.NewNop().Sugar(), publish)
	return h, users, messages
}

func TestPostMessageStoresText(t *testing.T) {
	t.Parallel()

	var published []queue.MessagePostedEvent
	h, users, messages := newMessageFixture(func(_ context.Context, ev queue.MessagePostedEvent) error {
		published = append(published, ev)
		return nil
	})
	alice := users.add(repository.User{Login: "alice"})

	c, rec := newContext(t, http.MethodPost, "/api/messages", `{"chatId":1,"content":"hello"}`)
	c.Set(middleware.ContextKeyLogin, "alice")

	require.NoError(t, h.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, messages.rows, 1)
	m := messages.rows[0]
	require.Equal(t, alice.ID, m.SenderID)
	require.Equal(t, uint64(1), m.ChannelID)
	require.Equal(t, "hello", m.Content)
	require.Equal(t, repository.MessageTypeText, m.Type)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.EqualValues(t, 1, resp["messageId"])
	ts, err := time.Parse(apiTimeLayout, resp["timestamp"].(string))
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), ts, time.Minute)

	require.Len(t, published, 1)
	require.Equal(t, "alice", published[0].SenderLogin)
	require.Equal(t, "general", published[0].ChannelName)
}

func TestPostMessageUnknownSender(t *testing.T) {
	t.Parallel()

	h, _, messages := newMessageFixture(nil)

	c, rec := newContext(t, http.MethodPost, "/api/messages", `{"chatId":1,"content":"hello"}`)
	c.Set(middleware.ContextKeyLogin, "ghost")

	require.NoError(t, h.Post(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, messages.rows)
}

func TestPostMessageUnknownChannel(t *testing.T) {
	t.Parallel()

	h, users, messages := newMessageFixture(nil)
	users.add(repository.User{Login: "alice"})

	c, rec := newContext(t, http.MethodPost, "/api/messages", `{"chatId":42,"content":"hello"}`)
	c.Set(middleware.ContextKeyLogin, "alice")

	require.NoError(t, h.Post(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, messages.rows)
}

func TestPostMessagePublishFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	h, users, messages := newMessageFixture(func(context.Context, queue.MessagePostedEvent) error {
		return context.DeadlineExceeded
	})
	users.add(repository.User{Login: "alice"})

	c, rec := newContext(t, http.MethodPost, "/api/messages", `{"chatId":1,"content":"hi"}`)
	c.Set(middleware.ContextKeyLogin, "alice")

	require.NoError(t, h.Post(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, messages.rows, 1)
}
