package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/realtime"
	"github.com/studentious/studentious/internal/repository"
	"go.uber.org/zap"
)

// StreamHandler upgrades GET /v1/chats/:id/ws to a websocket and relays the
// chat's realtime channel to the client. The socket is a live view only;
// clients load history through the messages endpoint.
type StreamHandler struct {
	chats    repository.ChatRepository
	broker   *realtime.Broker
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamHandler(chats repository.ChatRepository, broker *realtime.Broker, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		chats:  chats,
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from another origin; auth is
			// carried by the token, not the origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream handles GET /v1/chats/:id/ws
func (h *StreamHandler) Stream(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}
	userID := middleware.GetUserID(c)

	member, err := h.chats.IsMember(c.Request.Context(), chatID, userID)
	if err != nil {
		h.logger.Error("failed to check membership", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open stream"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this chat"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.broker.Subscribe(ctx, chatID)
	defer sub.Close()

	// Drain client frames so we notice the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Messages():
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
