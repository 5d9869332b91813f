package storage

import (
	"errors"
	"io"
	"log/slog"

	cfg "github.com/templui/gymapp/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage defines the interface for mirroring snapshot files
type Storage interface {
	// Save stores a file at the given path
	Save(path string, file io.Reader) error

	// Open returns the file at path, or ErrObjectNotFound
	Open(path string) (io.ReadCloser, error)

	// Delete removes a file at the given path
	Delete(path string) error
}

// New returns the configured snapshot mirror. S3 takes precedence over a
// local mirror directory. It returns nil when neither is configured.
func New(c *cfg.Config) (Storage, error) {
	switch {
	case c.S3Bucket != "":
		slog.Info("initializing S3 snapshot mirror",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	case c.SnapshotMirrorDir != "":
		slog.Info("initializing local snapshot mirror", "dir", c.SnapshotMirrorDir)
		return NewLocalStorage(c.SnapshotMirrorDir)
	}
	return nil, nil
}
