package models

import "time"

type MimeCategory string

const (
	MimeCategoryImage    MimeCategory = "image"
	MimeCategoryPDF      MimeCategory = "pdf"
	MimeCategoryVideo    MimeCategory = "video"
	MimeCategoryDocument MimeCategory = "document"
)

const (
	UploadMethodCloudflare = "cloudflare"
	UploadMethodS3         = "s3"
)

// Attachment is a file that passed the upload gate and was accepted by the store.
type Attachment struct {
	Name         string       `json:"name"`
	MimeType     string       `json:"mimeType"`
	MimeCategory MimeCategory `json:"type"`
	SizeBytes    int64        `json:"size"`
	TrackingURL  string       `json:"trackingUrl"`
	TrackingID   string       `json:"trackingId"`
	Format       string       `json:"format"`
	UploadMethod string       `json:"uploadMethod"`
	UploadedAt   time.Time    `json:"uploadedAt"`
}

// AttachmentPayload is the shape the matching workflow expects for each file.
// cloudinaryUrl and publicId are legacy keys kept for the workflow contract.
type AttachmentPayload struct {
	Name          string       `json:"name"`
	Type          MimeCategory `json:"type"`
	Size          int64        `json:"size"`
	CloudinaryURL string       `json:"cloudinaryUrl"`
	PublicID      string       `json:"publicId"`
	TrackingURL   string       `json:"trackingUrl"`
	TrackingID    string       `json:"trackingId"`
	UploadMethod  string       `json:"uploadMethod"`
}

func (a Attachment) Payload() AttachmentPayload {
	method := a.UploadMethod
	if method == "" {
		method = UploadMethodCloudflare
	}
	return AttachmentPayload{
		Name:          a.Name,
		Type:          a.MimeCategory,
		Size:          a.SizeBytes,
		CloudinaryURL: a.TrackingURL,
		PublicID:      a.TrackingID,
		TrackingURL:   a.TrackingURL,
		TrackingID:    a.TrackingID,
		UploadMethod:  method,
	}
}

// FileUpload is a file selected by the client, before validation.
type FileUpload struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}
