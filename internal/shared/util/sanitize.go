package util

import (
	"errors"
	"path"
	"strings"
)

// Lab portals export files with very long generated names; clamp so storage
// keys stay usable while keeping the extension intact.
const maxFileNameLen = 160

// SanitizeFileName removes path separators, rejects traversal patterns and
// clamps overly long names.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if len(s) > maxFileNameLen {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}
