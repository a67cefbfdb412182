package storage

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultContentType = "application/octet-stream"

// mediaTypes lists the lecture video and cover image formats by extension.
// mime.TypeByExtension only knows the video types when the host ships a mime.types file.
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".ogv":  "video/ogg",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// GenerateFileName returns a UUID-based file name with the provided extension, lowercased
func GenerateFileName(extension string) string {
	extension = strings.ToLower(strings.TrimSpace(extension))
	if extension != "" && extension[0] != '.' {
		extension = "." + extension
	}
	return uuid.NewString() + extension
}

// ContentTypeByName returns the media type for a file name based on its extension.
// Unknown extensions yield application/octet-stream.
func ContentTypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return defaultContentType
	}
	if contentType, ok := mediaTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return defaultContentType
}

// ExtensionByContentType returns the file extension for a known media type, or "" if there is none
func ExtensionByContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	}
	for ext, known := range mediaTypes {
		if known == mediaType {
			return ext
		}
	}
	return ""
}

// IsGenericContentType reports whether contentType carries no format information
func IsGenericContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err != nil || mediaType == defaultContentType
}

// sizeWriter counts the bytes written to it
type sizeWriter struct {
	size int64
}

func (sw *sizeWriter) Write(p []byte) (int, error) {
	sw.size += int64(len(p))
	return len(p), nil
}

// Size returns the total number of bytes written
func (sw *sizeWriter) Size() int64 {
	return sw.size
}

// NewSizeWriter creates a writer that only counts bytes, for use with io.TeeReader
func NewSizeWriter() *sizeWriter {
	return &sizeWriter{}
}
