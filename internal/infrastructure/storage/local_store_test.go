package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assembly-directory.backend/internal/domain/entities"
)

func TestLocalStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "uploads/", 1024)
	ctx := context.Background()

	ref, err := store.Save(ctx, entities.AttachmentMemberImage, "Photo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/members/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	local := filepath.Join(dir, "members", filepath.Base(ref))
	content, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	require.NoError(t, store.Remove(ctx, ref))
	_, err = os.Stat(local)
	assert.True(t, os.IsNotExist(err))

	// removing twice is not an error
	require.NoError(t, store.Remove(ctx, ref))
}

func TestLocalStore_RejectsUnsupportedAndOversized(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads", 4)
	ctx := context.Background()

	_, err := store.Save(ctx, entities.AttachmentPartyLogo, "logo.exe", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save(ctx, entities.AttachmentPartyLogo, "logo.png", bytes.NewReader([]byte("12345")))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(filepath.Join(dir, string(entities.AttachmentPartyLogo)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_RemoveIgnoresForeignRefs(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(t.TempDir(), "keep.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store := NewLocalStore(dir, "/uploads", 0)
	ctx := context.Background()

	assert.NoError(t, store.Remove(ctx, ""))
	assert.NoError(t, store.Remove(ctx, "https://cdn.example.com/uploads/members/a.png"))
	assert.NoError(t, store.Remove(ctx, "/uploads/../../"+outside))
	assert.NoError(t, store.Remove(ctx, "/static/a.png"))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocalStore_SaveHonoursCancelledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Save(ctx, entities.AttachmentMemberImage, "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
