package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
)

// Uploader stores a validated file and returns its tracked attachment record.
type Uploader interface {
	Upload(ctx context.Context, file *models.FileUpload) (*models.Attachment, error)
	Analytics(ctx context.Context) (json.RawMessage, error)
}

func newMessageID(now time.Time) string {
	return fmt.Sprintf("cf_msg_%d", now.UnixMilli())
}

func newAttachment(file *models.FileUpload, name string, size int64, trackingURL, trackingID, method string, now time.Time) *models.Attachment {
	if name == "" {
		name = file.Name
	}
	if size <= 0 {
		size = file.Size
	}
	return &models.Attachment{
		Name:         name,
		MimeType:     file.MimeType,
		MimeCategory: models.MimeCategory(utils.GetFileTypeFromMime(file.MimeType)),
		SizeBytes:    size,
		TrackingURL:  trackingURL,
		TrackingID:   trackingID,
		Format:       utils.GetFormatFromMime(file.MimeType),
		UploadMethod: method,
		UploadedAt:   now.UTC(),
	}
}
