package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
	"github.com/studentious/studentious/internal/storage"
	"go.uber.org/zap"
)

var (
	supportedImageTypes = map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	supportedDocTypes = map[string]bool{
		"application/pdf": true,
		"text/plain":      true,
	}
)

// AttachmentHandler serves chat file uploads and attachment listings.
type AttachmentHandler struct {
	attachments repository.AttachmentRepository
	uploads     *storage.Client
	logger      *zap.Logger
}

func NewAttachmentHandler(attachments repository.AttachmentRepository, uploads *storage.Client, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, uploads: uploads, logger: logger}
}

// Upload handles POST /v1/chats/:id/attachments (multipart, field "file").
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file upload"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	var typ models.AttachmentType
	switch {
	case supportedImageTypes[contentType]:
		typ = models.AttachmentImage
	case supportedDocTypes[contentType]:
		typ = models.AttachmentDocument
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(c.Request.Context(), file, storage.FolderAttachments)
	if err != nil {
		h.logger.Error("attachment upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	if _, err := h.attachments.Create(c.Request.Context(), chatID, url, typ, &userID); err != nil {
		h.logger.Error("failed to record attachment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
		"type":    typ,
	})
}

// List handles GET /v1/chats/:id/attachments?type=IMAGE|DOCUMENT|LINK
func (h *AttachmentHandler) List(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	typ := models.AttachmentType(c.Query("type"))
	switch typ {
	case models.AttachmentImage, models.AttachmentDocument, models.AttachmentLink:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be IMAGE, DOCUMENT or LINK"})
		return
	}

	attachments, err := h.attachments.ListByChat(c.Request.Context(), chatID, typ)
	if err != nil {
		h.logger.Error("failed to list attachments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attachments"})
		return
	}

	c.JSON(http.StatusOK, attachments)
}
