package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write("report", []byte(`{"a":1}`)))
	got, err := s.Read("report")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestDiskStoreOverwrite(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write("report", []byte("old")))
	require.NoError(t, s.Write("report", []byte("new")))

	got, err := s.Read("report")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestDiskStoreMissing(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read("never-written")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDiskStoreRequiresDir(t *testing.T) {
	_, err := NewDiskStore("")
	assert.Error(t, err)
}
