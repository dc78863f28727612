package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// mimeExtensions is the fixed attachment allow-list and its extension map.
// Anything outside these four types is rejected before bytes are stored.
var mimeExtensions = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// ExtensionForMIME returns the canonical file extension for an allowed MIME
// type, or ErrValidation when the type is outside the allow-list.
func ExtensionForMIME(mimeType string) (string, error) {
	ext, ok := mimeExtensions[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %q", ErrValidation, mimeType)
	}
	return ext, nil
}

// Attachment is a file stored against a day. Rows are immutable after
// creation and disappear only through cascading day/trip deletion.
// Path is the opaque locator returned by the blob store.
type Attachment struct {
	ID        uuid.UUID `json:"id"`
	DayID     uuid.UUID `json:"day_id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
