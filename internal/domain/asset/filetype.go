package asset

import (
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]struct{}{
	"mp4":  {},
	"mov":  {},
	"avi":  {},
	"wmv":  {},
	"flv":  {},
	"webm": {},
	"mkv":  {},
}

// DetectFileType derives the asset kind from the MIME type, falling back to the
// filename extension when the MIME type is neither image/* nor video/*.
func DetectFileType(mimeType, filename string) FileType {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	}
	if _, ok := videoExtensions[Extension(filename)]; ok {
		return FileTypeVideo
	}
	return FileTypeImage
}

// Extension returns the lowercase suffix after the last dot, or "" when there is none.
func Extension(filename string) string {
	ext := filepath.Ext(filepath.Base(strings.TrimSpace(filename)))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ParseFileType accepts "image" or "video" in any case.
func ParseFileType(raw string) (FileType, bool) {
	switch FileType(strings.ToLower(strings.TrimSpace(raw))) {
	case FileTypeImage:
		return FileTypeImage, true
	case FileTypeVideo:
		return FileTypeVideo, true
	}
	return "", false
}
