package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/models"
	"github.com/studentious/studentious/internal/repository"
	"github.com/studentious/studentious/internal/storage"
	"go.uber.org/zap"
)

// ProfileHandler serves the caller's own profile. The profile row is created
// lazily on the first PUT; until then GET returns 404.
type ProfileHandler struct {
	users   repository.UserRepository
	uploads *storage.Client
	logger  *zap.Logger
}

func NewProfileHandler(users repository.UserRepository, uploads *storage.Client, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, uploads: uploads, logger: logger}
}

// Get handles GET /v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update handles PUT /v1/profile (multipart: name, preferences, profile_image).
//
// A failed image upload is logged and skipped rather than failing the whole
// update, so the user never loses a profile save over a storage hiccup.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	email := middleware.GetEmail(c)

	name := c.PostForm("name")
	preferences := splitTags(c.PostForm("preferences"))

	var profileImageURL string
	if fileHeader, err := c.FormFile("profile_image"); err == nil {
		file, err := fileHeader.Open()
		if err == nil {
			url, uploadErr := h.uploads.Upload(c.Request.Context(), file, storage.FolderProfiles)
			file.Close()
			if uploadErr != nil {
				h.logger.Error("profile image upload failed", zap.Error(uploadErr))
			} else {
				profileImageURL = url
			}
		}
	}

	user, err := h.users.Upsert(c.Request.Context(), &models.User{
		ID:           userID,
		Name:         strings.TrimSpace(name),
		Email:        email,
		ProfileImage: profileImageURL,
		Preferences:  preferences,
	})
	if err != nil {
		h.logger.Error("failed to upsert user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
