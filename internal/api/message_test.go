package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studentious/studentious/internal/models"
	"go.uber.org/zap"
)

type fakeMessageRepo struct {
	messages []models.Message
	nextID   int64
}

func (f *fakeMessageRepo) Create(_ context.Context, chatID uuid.UUID, senderID, body string) (*models.Message, error) {
	f.nextID++
	msg := models.Message{ID: f.nextID, ChatID: chatID, SenderID: senderID, Body: body}
	f.messages = append(f.messages, msg)
	return &msg, nil
}

func (f *fakeMessageRepo) ListByChat(_ context.Context, chatID uuid.UUID) ([]models.Message, error) {
	out := make([]models.Message, 0)
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	attachments []models.Attachment
}

func (f *fakeAttachmentRepo) Create(_ context.Context, chatID uuid.UUID, url string, typ models.AttachmentType, uploaderID *string) (*models.Attachment, error) {
	a := models.Attachment{ID: uuid.New(), ChatID: chatID, URL: url, Type: typ, UploaderID: uploaderID}
	f.attachments = append(f.attachments, a)
	return &a, nil
}

func (f *fakeAttachmentRepo) ListByChat(_ context.Context, chatID uuid.UUID, typ models.AttachmentType) ([]models.Attachment, error) {
	out := make([]models.Attachment, 0)
	for _, a := range f.attachments {
		if a.ChatID == chatID && a.Type == typ {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []*models.Message
}

func (f *fakePublisher) Publish(_ context.Context, msg *models.Message) {
	f.published = append(f.published, msg)
}

func TestMessageCreatePublishesAfterPersist(t *testing.T) {
	messages := &fakeMessageRepo{}
	attachments := &fakeAttachmentRepo{}
	publisher := &fakePublisher{}
	h := NewMessageHandler(messages, attachments, publisher, zap.NewNop())
	chatID := uuid.New()

	body, err := json.Marshal(createMessageRequest{Body: "hello everyone"})
	require.NoError(t, err)
	c, w := newTestContext(t, http.MethodPost, "/v1/chats/"+chatID.String()+"/messages", bytes.NewBuffer(body), "user-1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, messages.messages, 1)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, "hello everyone", publisher.published[0].Body)
	assert.Equal(t, "user-1", publisher.published[0].SenderID)
}

func TestMessageCreateRecordsBodyLinks(t *testing.T) {
	messages := &fakeMessageRepo{}
	attachments := &fakeAttachmentRepo{}
	h := NewMessageHandler(messages, attachments, &fakePublisher{}, zap.NewNop())
	chatID := uuid.New()

	body, err := json.Marshal(createMessageRequest{
		Body: "see https://example.com/notes.pdf and http://example.org/slides",
	})
	require.NoError(t, err)
	c, w := newTestContext(t, http.MethodPost, "/v1/chats/"+chatID.String()+"/messages", bytes.NewBuffer(body), "user-1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, attachments.attachments, 2)
	assert.Equal(t, "https://example.com/notes.pdf", attachments.attachments[0].URL)
	assert.Equal(t, models.AttachmentLink, attachments.attachments[0].Type)
	assert.Equal(t, "http://example.org/slides", attachments.attachments[1].URL)
	assert.Nil(t, attachments.attachments[0].UploaderID)
}

func TestMessageCreateAppendsAttachmentMarkdown(t *testing.T) {
	messages := &fakeMessageRepo{}
	h := NewMessageHandler(messages, &fakeAttachmentRepo{}, &fakePublisher{}, zap.NewNop())
	chatID := uuid.New()

	body, err := json.Marshal(createMessageRequest{
		Body: "sharing my notes",
		Attachments: []sentAttachment{
			{URL: "https://cdn.example.com/photo.jpg", Type: string(models.AttachmentImage)},
			{URL: "https://cdn.example.com/notes.pdf", Type: string(models.AttachmentDocument), Name: "notes.pdf"},
		},
	})
	require.NoError(t, err)
	c, w := newTestContext(t, http.MethodPost, "/v1/chats/"+chatID.String()+"/messages", bytes.NewBuffer(body), "user-1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, messages.messages, 1)
	stored := messages.messages[0].Body
	assert.Contains(t, stored, "sharing my notes")
	assert.Contains(t, stored, "![image](https://cdn.example.com/photo.jpg)")
	assert.Contains(t, stored, "[📄 notes.pdf](https://cdn.example.com/notes.pdf)")
}

func TestMessageCreateRejectsEmptyBody(t *testing.T) {
	h := NewMessageHandler(&fakeMessageRepo{}, &fakeAttachmentRepo{}, &fakePublisher{}, zap.NewNop())
	chatID := uuid.New()

	c, w := newTestContext(t, http.MethodPost, "/v1/chats/"+chatID.String()+"/messages", bytes.NewBufferString(`{"body": ""}`), "user-1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageCreateRejectsBadChatID(t *testing.T) {
	h := NewMessageHandler(&fakeMessageRepo{}, &fakeAttachmentRepo{}, &fakePublisher{}, zap.NewNop())

	c, w := newTestContext(t, http.MethodPost, "/v1/chats/nope/messages", bytes.NewBufferString(`{"body": "hi"}`), "user-1")
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageListReturnsTranscript(t *testing.T) {
	messages := &fakeMessageRepo{}
	h := NewMessageHandler(messages, &fakeAttachmentRepo{}, &fakePublisher{}, zap.NewNop())
	chatID := uuid.New()
	_, err := messages.Create(context.Background(), chatID, "user-1", "first")
	require.NoError(t, err)
	_, err = messages.Create(context.Background(), chatID, "user-2", "second")
	require.NoError(t, err)

	c, w := newTestContext(t, http.MethodGet, "/v1/chats/"+chatID.String()+"/messages", nil, "user-1")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Body)
	assert.Equal(t, "second", got[1].Body)
}
