package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
	"go.uber.org/zap"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// MessagePublisher pushes a persisted message to live subscribers.
// *realtime.Broker is the production implementation.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *models.Message)
}

// MessageHandler serves chat transcripts and message sends. After a send is
// persisted, the message is published to the chat's realtime channel;
// publish failure does not fail the request.
type MessageHandler struct {
	messages    repository.MessageRepository
	attachments repository.AttachmentRepository
	broker      MessagePublisher
	logger      *zap.Logger
}

func NewMessageHandler(
	messages repository.MessageRepository,
	attachments repository.AttachmentRepository,
	broker MessagePublisher,
	logger *zap.Logger,
) *MessageHandler {
	return &MessageHandler{
		messages:    messages,
		attachments: attachments,
		broker:      broker,
		logger:      logger,
	}
}

// List handles GET /v1/chats/:id/messages: the full transcript, oldest first.
func (h *MessageHandler) List(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	messages, err := h.messages.ListByChat(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// sentAttachment describes a file the client already uploaded through the
// attachment endpoint and now references from a message.
type sentAttachment struct {
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"required"`
	Name string `json:"name"`
}

type createMessageRequest struct {
	Body        string           `json:"body" binding:"required"`
	Attachments []sentAttachment `json:"attachments"`
}

// Create handles POST /v1/chats/:id/messages.
//
// Plain http(s) URLs in the body are recorded as LINK attachments of the
// chat. Referenced uploads are appended to the stored body as Markdown, so
// the transcript renders images inline and documents as links.
func (h *MessageHandler) Create(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}
	senderID := middleware.GetUserID(c)

	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, link := range urlPattern.FindAllString(req.Body, -1) {
		if _, err := h.attachments.Create(c.Request.Context(), chatID, link, models.AttachmentLink, nil); err != nil {
			h.logger.Error("failed to record link attachment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
			return
		}
	}

	body := req.Body + attachmentMarkdown(req.Attachments)

	msg, err := h.messages.Create(c.Request.Context(), chatID, senderID, body)
	if err != nil {
		h.logger.Error("failed to create message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		return
	}

	h.broker.Publish(c.Request.Context(), msg)

	c.JSON(http.StatusCreated, msg)
}

func attachmentMarkdown(attachments []sentAttachment) string {
	if len(attachments) == 0 {
		return ""
	}

	var b strings.Builder
	for _, a := range attachments {
		b.WriteString("\n")
		if a.Type == string(models.AttachmentImage) {
			b.WriteString(fmt.Sprintf("![image](%s)", a.URL))
		} else {
			b.WriteString(fmt.Sprintf("[📄 %s](%s)", a.Name, a.URL))
		}
	}
	return b.String()
}
