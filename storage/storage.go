// Package storage keeps uploaded blog content in an object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dlsystem/blogbackend/config"
	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// ContentStore persists content payloads and hands back an opaque reference
// that is stored on the blog.
type ContentStore interface {
	Put(ctx context.Context, objectName string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ObjectName builds a unique object key for content uploaded by owner.
func ObjectName(owner, ext string) string {
	ext = strings.ToLower(ext)
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("blogs/%s/%d-%s%s", owner, time.Now().UTC().Unix(), uuid.New().String(), ext)
}

// New returns the content store selected by cfg.ContentStore.
func New(ctx context.Context, cfg *config.Config) (ContentStore, error) {
	switch cfg.ContentStore {
	case config.StoreR2:
		return NewR2Store(ctx, cfg.R2)
	case config.StoreGCS:
		return NewGCSStore(ctx, cfg.GCS)
	case config.StoreDisk, "":
		return NewDiskStore(cfg.ContentDir)
	default:
		return nil, fmt.Errorf("unknown CONTENT_STORE %q", cfg.ContentStore)
	}
}
