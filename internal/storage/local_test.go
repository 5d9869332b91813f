package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/gymapp/internal/config"
)

func TestLocalStorage(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, s.Save("snapshots/users.json", strings.NewReader(`[]`)))
	assert.FileExists(t, filepath.Join(root, "snapshots", "users.json"))

	rc, err := s.Open("snapshots/users.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, s.Delete("snapshots/users.json"))
	_, err = s.Open("snapshots/users.json")
	require.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is fine
	require.NoError(t, s.Delete("snapshots/users.json"))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "mirror"))
	require.NoError(t, err)

	require.NoError(t, s.Save("../../escape.json", strings.NewReader(`{}`)))
	assert.FileExists(t, filepath.Join(root, "mirror", "escape.json"))
	_, err = os.Stat(filepath.Join(root, "escape.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestNew(t *testing.T) {
	s, err := New(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)

	dir := t.TempDir()
	s, err = New(&config.Config{SnapshotMirrorDir: dir})
	require.NoError(t, err)
	local, ok := s.(*LocalStorage)
	require.True(t, ok)
	assert.Equal(t, dir, local.String())
}
