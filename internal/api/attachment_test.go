package api

import (
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

func TestAttachmentListFiltersByType(t *testing.T) {
	attachments := &fakeAttachmentRepo{}
	chatID := uuid.New()
	uploader := "user-1"
	_, err := attachments.Create(context.Background(), chatID, "https://cdn.example.com/a.png", models.AttachmentImage, &uploader)
	require.NoError(t, err)
	_, err = attachments.Create(context.Background(), chatID, "https://cdn.example.com/b.pdf", models.AttachmentDocument, &uploader)
	require.NoError(t, err)
	h := NewAttachmentHandler(attachments, nil, zap.NewNop())

	c, w := newTestContext(t, http.MethodGet, "/v1/chats/"+chatID.String()+"/attachments?type=IMAGE", nil, "user-1")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Attachment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.AttachmentImage, got[0].Type)
}

func TestAttachmentListRejectsUnknownType(t *testing.T) {
	h := NewAttachmentHandler(&fakeAttachmentRepo{}, nil, zap.NewNop())
	chatID := uuid.New()

	c, w := newTestContext(t, http.MethodGet, "/v1/chats/"+chatID.String()+"/attachments?type=VIDEO", nil, "user-1")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttachmentUploadRequiresAuth(t *testing.T) {
	h := NewAttachmentHandler(&fakeAttachmentRepo{}, nil, zap.NewNop())
	chatID := uuid.New()

	c, w := newTestContext(t, http.MethodPost, "/v1/chats/"+chatID.String()+"/attachments", nil, "")
	c.Params = gin.Params{{Key: "id", Value: chatID.String()}}

	h.Upload(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
