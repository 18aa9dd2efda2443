package services

import (
	"fmt"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
)

const DefaultMaxUploadBytes int64 = 50 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"image/webp":               true,
	"application/pdf":          true,
	"application/msword":       true,
	utils.MimeDocx:             true,
	"application/vnd.ms-excel": true,
	utils.MimeXlsx:             true,
	"text/plain":               true,
	"text/csv":                 true,
}

// UploadGate enforces the size and type policy before anything leaves the process.
type UploadGate struct {
	maxBytes int64
}

func NewUploadGate(maxBytes int64) *UploadGate {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadGate{maxBytes: maxBytes}
}

func (g *UploadGate) MaxBytes() int64 {
	return g.maxBytes
}

// Validate checks size first, then type. Either failure rejects the file.
func (g *UploadGate) Validate(file *models.FileUpload) error {
	if file.Size > g.maxBytes {
		return Validation(fmt.Sprintf("File %s is too large. Maximum size is %dMB.", file.Name, g.maxBytes>>20))
	}
	if !allowedUploadTypes[file.MimeType] {
		return Validation(fmt.Sprintf("File type %s is not supported.", file.MimeType))
	}
	return nil
}
