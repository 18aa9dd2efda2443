package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFormatFromMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "jpg"},
		{"image/png", "png"},
		{"image/gif", "gif"},
		{"application/pdf", "pdf"},
		{"application/msword", "doc"},
		{MimeDocx, "docx"},
		{"image/webp", "unknown"},
		{"text/csv", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, GetFormatFromMime(tt.mime))
		})
	}
}

func TestGetFileTypeFromMime(t *testing.T) {
	assert.Equal(t, "image", GetFileTypeFromMime("image/webp"))
	assert.Equal(t, "pdf", GetFileTypeFromMime("application/pdf"))
	assert.Equal(t, "video", GetFileTypeFromMime("video/mp4"))
	assert.Equal(t, "document", GetFileTypeFromMime(MimeXlsx))
	assert.Equal(t, "document", GetFileTypeFromMime("text/plain"))
}

func TestBaseMimeType(t *testing.T) {
	assert.Equal(t, "text/plain", BaseMimeType("Text/Plain; charset=utf-8"))
	assert.Equal(t, "image/png", BaseMimeType("image/png"))
}
