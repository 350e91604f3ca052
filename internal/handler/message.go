package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/candle/larktalk/internal/middleware"
	"github.com/candle/larktalk/internal/queue"
	"github.com/candle/larktalk/internal/repository"
)

// PublishFunc delivers a posted-message event to the broker. Publishing is
// best-effort: a broker failure must never fail the HTTP request.
type PublishFunc func(ctx context.Context, ev queue.MessagePostedEvent) error

// MessageHandler appends chat messages on behalf of authenticated users.
type MessageHandler struct {
	Users    UserStore
	Channels ChannelStore
	Messages MessageStore

	logger  *zap.SugaredLogger
	publish PublishFunc
}

func NewMessageHandler(u UserStore, ch ChannelStore, m MessageStore, logger *zap.SugaredLogger, publish PublishFunc) *MessageHandler {
	return &MessageHandler{Users: u, Channels: ch, Messages: m, logger: logger, publish: publish}
}

type postMessageReq struct {
	ChatID  uint64 `json:"chatId"`
	Content string `json:"content"`
}

// Post stores a TEXT message in the target channel. The bearer middleware
// already extracted the login; the sender must still resolve to a real
// user since the token proves nothing by itself.
func (h *MessageHandler) Post(c echo.Context) error {
	login, _ := c.Get(middleware.ContextKeyLogin).(string)

	var req postMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sender, err := h.Users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	channel, err := h.Channels.GetByID(ctx, req.ChatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Channel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "query failed"})
	}

	now := time.Now().UTC()
	id, err := h.Messages.Create(ctx, repository.Message{
		SenderID:  sender.ID,
		ChannelID: channel.ID,
		Content:   req.Content,
		Type:      repository.MessageTypeText,
		Timestamp: now,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "save message failed"})
	}

	h.logger.Infow("message posted", "sender", sender.Login, "channel", channel.Name)

	if h.publish != nil {
		_ = h.publish(ctx, queue.MessagePostedEvent{
			MessageID:   id,
			ChannelID:   channel.ID,
			ChannelName: channel.Name,
			SenderID:    sender.ID,
			SenderLogin: sender.Login,
			Content:     req.Content,
			PostedAt:    now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"messageId": id,
		"timestamp": now.Format(apiTimeLayout),
	})
}
