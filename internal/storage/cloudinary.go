// Package storage uploads user files to Cloudinary and hands back public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Folders keep event images, chat uploads, and profile pictures apart in the
// Cloudinary media library.
const (
	FolderEvents      = "events"
	FolderAttachments = "attachments"
	FolderProfiles    = "profiles"
	FolderPodcasts    = "podcasts"
)

// Client wraps one configured Cloudinary connection. Construct it once at
// startup and share it; handlers never build their own.
type Client struct {
	cld *cloudinary.Cloudinary
}

func New(cloudName, apiKey, apiSecret string) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Client{cld: cld}, nil
}

// Upload stores the file in the given folder and returns its public URL.
// The call is a single request with a hard timeout and no retry; the caller
// surfaces failures directly.
func (c *Client) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload: no url returned")
	}
	return resp.SecureURL, nil
}
