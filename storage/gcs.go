package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/dlsystem/blogbackend/config"
	"google.golang.org/api/option"
)

// GCSStore writes content to a Google Cloud Storage bucket.
type GCSStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSStore(ctx context.Context, cfg config.GCSConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSStore{Client: client, Bucket: cfg.Bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, objectName string, body io.Reader, contentType string) (string, error) {
	w := s.Client.Bucket(s.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache"

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return s.publicURL(objectName), nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	objectName, err := s.objectName(ref)
	if err != nil {
		return err
	}
	if err := s.Client.Bucket(s.Bucket).Object(objectName).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.Client.Close()
}

const gcsHost = "storage.googleapis.com"

func (s *GCSStore) publicURL(objectName string) string {
	return "https://" + gcsHost + "/" + s.Bucket + "/" + objectName
}

// objectName maps a stored reference back to its key. Path style, virtual
// host style and gs:// references are accepted, as are bare keys.
func (s *GCSStore) objectName(ref string) (string, error) {
	if ref == "" {
		return "", ErrObjectNotFound
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse reference: %w", err)
	}
	if u.Scheme == "" {
		return ref, nil
	}

	var key string
	switch host := strings.ToLower(u.Host); {
	case u.Scheme == "gs" && host == strings.ToLower(s.Bucket):
		key = strings.TrimPrefix(u.Path, "/")
	case host == gcsHost:
		bucket, rest, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket != s.Bucket {
			return "", fmt.Errorf("reference %q is outside bucket %s", ref, s.Bucket)
		}
		key = rest
	case host == strings.ToLower(s.Bucket)+"."+gcsHost:
		key = strings.TrimPrefix(u.Path, "/")
	default:
		return "", fmt.Errorf("reference %q is not a GCS object", ref)
	}
	if key == "" {
		return "", fmt.Errorf("reference %q has no object path", ref)
	}
	return key, nil
}
