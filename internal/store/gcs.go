package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSConfig selects the bucket and the credentials used to reach it.
// An empty CredentialsFile falls back to application default credentials.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

// GCSStore is an object store backed by a Google Cloud Storage bucket.
// It holds a single client for its lifetime; call Close when done.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCSStore opens a storage client for cfg.Bucket.
func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket name is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
	}, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// Upload streams localPath into the object at remotePath.
func (s *GCSStore) Upload(ctx context.Context, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return &Error{Op: "upload", Path: remotePath, Err: err}
	}
	defer f.Close()

	// Cancelling the context before Close aborts a partial write.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(remotePath).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := io.Copy(w, f); err != nil {
		cancel()
		_ = w.Close()
		return &Error{Op: "upload", Path: remotePath, Err: err}
	}
	if err := w.Close(); err != nil {
		return &Error{Op: "upload", Path: remotePath, Err: err}
	}
	return nil
}

// Download copies the object at remotePath into localPath.
func (s *GCSStore) Download(ctx context.Context, remotePath, localPath string) error {
	r, err := s.bucket.Object(remotePath).NewReader(ctx)
	if err != nil {
		return &Error{Op: "download", Path: remotePath, Err: mapNotExist(err)}
	}
	defer r.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return &Error{Op: "download", Path: remotePath, Err: err}
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return &Error{Op: "download", Path: remotePath, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Op: "download", Path: remotePath, Err: err}
	}
	return nil
}

// List returns object names under prefix in the order GCS yields them.
func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	q := &storage.Query{Prefix: prefix}
	if err := q.SetAttrSelection([]string{"Name"}); err != nil {
		return nil, &Error{Op: "list", Path: prefix, Err: err}
	}

	names := []string{}
	it := s.bucket.Objects(ctx, q)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &Error{Op: "list", Path: prefix, Err: err}
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// Exists reports whether remotePath exists. A missing object is not an error.
func (s *GCSStore) Exists(ctx context.Context, remotePath string) (bool, error) {
	_, err := s.bucket.Object(remotePath).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &Error{Op: "exists", Path: remotePath, Err: err}
	}
	return true, nil
}

// ReadJSON downloads remotePath as UTF-8 text and parses it.
func (s *GCSStore) ReadJSON(ctx context.Context, remotePath string) (any, error) {
	r, err := s.bucket.Object(remotePath).NewReader(ctx)
	if err != nil {
		return nil, &Error{Op: "read", Path: remotePath, Err: mapNotExist(err)}
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Op: "read", Path: remotePath, Err: err}
	}

	v, err := parseJSON(data)
	if err != nil {
		return nil, &Error{Op: "read", Path: remotePath, Err: err}
	}
	return v, nil
}

func mapNotExist(err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}
