package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewDisk(dir)
	require.NoError(t, err)

	info, err := store.Put(ctx, "abc.docx", strings.NewReader("payload"), PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc.docx", info.Key)
	assert.Equal(t, int64(7), info.Size)

	rc, got, err := store.Get(ctx, "abc.docx")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, int64(7), got.Size)

	require.NoError(t, store.Delete(ctx, "abc.docx"))
	_, err = os.Stat(filepath.Join(dir, "abc.docx"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStorage_DeleteMissingIsError(t *testing.T) {
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Delete(context.Background(), "ghost.docx"))
}

func TestDiskStorage_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	store, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.docx", "a/b.docx", ".."} {
		_, err := store.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{})
		assert.Error(t, err, "key %q", key)
	}
}

func TestNewDisk_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewDisk(dir)
	require.NoError(t, err)

	st, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}
