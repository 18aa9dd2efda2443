package utils

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

// IsURL returns true if the given string is an absolute http(s) URL
func IsURL(str string) bool {
	return urlPattern.MatchString(strings.ToLower(strings.TrimSpace(str)))
}

// JoinURL joins a base URL and a path with exactly one slash between them.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
