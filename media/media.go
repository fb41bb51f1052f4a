// Package media stores uploaded course content and returns the URL it is
// served from.
package media

import (
	"context"
	"eduverse/config"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// NewStore picks OSS when a bucket is configured, local disk otherwise.
func NewStore(cfg *config.Config) (Store, error) {
	if cfg.OSSBucket != "" {
		return NewOSSStore(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket, cfg.OSSPublicURL)
	}
	return NewLocalStore(cfg.UploadDir, "/uploads"), nil
}

// ObjectKey builds a unique object key under prefix keeping the file
// extension, e.g. "courses/12/20240102/3f1c...e2.mp4".
func ObjectKey(prefix, filename string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	prefix = strings.Trim(prefix, "/")
	name := uuid.NewString() + ext
	return path.Join(prefix, at.UTC().Format("20060102"), name)
}

// ContentTypeFor falls back to a type guessed from the extension.
func ContentTypeFor(filename, given string) string {
	if given != "" && given != "application/octet-stream" {
		return given
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}

func validKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
