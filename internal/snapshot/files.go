package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/templui/gymapp/internal/storage"
)

// encode renders records as a JSON array indented by two spaces.
func encode(records []any) ([]byte, error) {
	if records == nil {
		records = []any{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// writeFile replaces path atomically: readers see the old or the new file,
// never a partial one.
func writeFile(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	err = os.Rename(tmp.Name(), dst)
	if err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// read returns the contents of src. When the file is missing locally it is
// fetched from the mirror, if one is configured, and cached at src.
func (s *Syncer) read(src, collection string) ([]byte, bool, error) {
	data, err := os.ReadFile(src)
	if err == nil {
		return data, true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to read %s: %w", src, err)
	}
	if s.mirror == nil {
		return nil, false, nil
	}

	key := s.mirrorKey(src)
	rc, err := s.mirror.Open(key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.log.Warn("snapshot mirror fetch failed", "collection", collection, "key", key, "error", err)
		return nil, false, nil
	}
	defer rc.Close()

	data, err = io.ReadAll(rc)
	if err != nil {
		s.log.Warn("snapshot mirror read failed", "collection", collection, "key", key, "error", err)
		return nil, false, nil
	}

	err = writeFile(src, data)
	if err != nil {
		s.log.Warn("failed to cache mirrored snapshot", "path", src, "error", err)
	}
	s.log.Info("snapshot fetched from mirror", "collection", collection, "key", key)
	return data, true, nil
}

func (s *Syncer) upload(src string, data []byte) {
	if s.mirror == nil {
		return
	}
	key := s.mirrorKey(src)
	err := s.mirror.Save(key, bytes.NewReader(data))
	if err != nil {
		s.log.Warn("snapshot mirror upload failed", "key", key, "error", err)
		return
	}
	s.log.Debug("snapshot mirrored", "key", key)
}

func (s *Syncer) mirrorKey(src string) string {
	return path.Join(s.mirrorPrefix, filepath.Base(src))
}
