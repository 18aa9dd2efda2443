package utils

import "strings"

const (
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetFormatFromMime returns the short extension tag sent to the workflow.
func GetFormatFromMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "application/pdf":
		return "pdf"
	case "application/msword":
		return "doc"
	case MimeDocx:
		return "docx"
	default:
		return "unknown"
	}
}

// GetFileTypeFromMime buckets a mime type into image, pdf, video or document.
func GetFileTypeFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case mimeType == "application/pdf":
		return "pdf"
	case strings.Contains(mimeType, "video/"):
		return "video"
	default:
		return "document"
	}
}

// BaseMimeType drops parameters such as "; charset=utf-8".
func BaseMimeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
