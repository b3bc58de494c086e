// Package photo stores plant photos in object storage and hands back their public URL.
package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"
)

var (
	ErrTooLarge        = errors.New("photo exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("photo must be an image")
	ErrUnavailable     = errors.New("photo uploads are not configured")
)

// Upload is a photo received from the client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate checks the upload against the size limit and accepted content types
func (u Upload) Validate(maxBytes int64) error {
	if u.Body == nil {
		return fmt.Errorf("%w: empty upload", ErrUnsupportedType)
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return ErrTooLarge
	}
	if !strings.HasPrefix(u.ContentType, "image/") {
		return fmt.Errorf("%w: got %q", ErrUnsupportedType, u.ContentType)
	}
	return nil
}

// Store uploads a photo owned by ownerUID and returns its public URL
type Store interface {
	Upload(ctx context.Context, ownerUID string, upload Upload) (string, error)
}

// ObjectKey builds plant-photos/<uid>/<unix-millis>-<filename>
func ObjectKey(ownerUID, filename string, now time.Time) string {
	return fmt.Sprintf("plant-photos/%s/%d-%s", ownerUID, now.UnixMilli(), sanitizeFilename(filename))
}

// sanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-]
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "photo"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "photo"
	}
	return out
}

// Disabled is the Store used when no bucket is configured
type Disabled struct{}

func (Disabled) Upload(context.Context, string, Upload) (string, error) {
	return "", ErrUnavailable
}
