package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
	"go.uber.org/zap"
)

// ChatHandler serves chat rooms: direct chat creation, listing, and detail.
// Event chats are created with their event; requesting one here returns the
// existing room.
type ChatHandler struct {
	chats  repository.ChatRepository
	logger *zap.Logger
}

func NewChatHandler(chats repository.ChatRepository, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger}
}

// createChatRequest asks for a room with exactly one of the two targets:
// another user (direct message) or an event (that event's group chat).
type createChatRequest struct {
	UserID  string     `json:"user_id"`
	EventID *uuid.UUID `json:"event_id"`
}

// Create handles POST /v1/chats
func (h *ChatHandler) Create(c *gin.Context) {
	currentUserID := middleware.GetUserID(c)

	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if (req.UserID == "") == (req.EventID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of user_id or event_id"})
		return
	}

	if req.EventID != nil {
		chat, err := h.chats.GetByEventID(c.Request.Context(), *req.EventID)
		if err != nil {
			h.logger.Error("failed to get event chat", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
			return
		}
		if chat == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "event chat not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"chat_id": chat.ID})
		return
	}

	chatID, err := h.chats.CreateDirect(c.Request.Context(), []string{currentUserID, req.UserID})
	if err != nil {
		h.logger.Error("failed to create chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chat_id": chatID})
}

// chatSummary is the listing shape: a name and image resolved from either
// the owning event or the other direct-chat participant.
type chatSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url"`
}

func summarize(chat *models.Chat, currentUserID string) chatSummary {
	s := chatSummary{ID: chat.ID, Name: "Unknown Chat"}

	if chat.Event != nil {
		s.Name = chat.Event.Title
		if chat.Event.Image != nil {
			s.ImageURL = *chat.Event.Image
		}
		return s
	}

	for _, u := range chat.Members {
		if u.ID != currentUserID {
			s.Name = u.Name
			s.ImageURL = u.ProfileImage
			break
		}
	}
	return s
}

// List handles GET /v1/chats
func (h *ChatHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	chats, err := h.chats.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list chats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chats"})
		return
	}

	summaries := make([]chatSummary, 0, len(chats))
	for i := range chats {
		summaries = append(summaries, summarize(&chats[i], userID))
	}

	c.JSON(http.StatusOK, summaries)
}

// GetByID handles GET /v1/chats/:id
func (h *ChatHandler) GetByID(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	chat, err := h.chats.GetByID(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("failed to get chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chat"})
		return
	}
	if chat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	summary := summarize(chat, middleware.GetUserID(c))
	c.JSON(http.StatusOK, gin.H{
		"id":        chat.ID,
		"name":      summary.Name,
		"image_url": summary.ImageURL,
		"members":   chat.Members,
	})
}
