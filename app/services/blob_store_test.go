package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("photo", "Me.JPG")
	assert.Regexp(t, `^photo/\d{4}-\d{2}-\d{2}/[0-9a-f-]{36}\.jpg$`, key)
	assert.NotEqual(t, key, objectKey("photo", "Me.JPG"))
}

func TestLocalBlobStore(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalBlobStore(base, "/uploads/")
	ctx := context.Background()

	ref, err := store.Save(ctx, "kycDocument", "passport.pdf", "application/pdf", 7, strings.NewReader("%PDF-1."))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/kycDocument/"), ref)
	assert.NotContains(t, ref, filepath.ToSlash(base))
	assert.True(t, strings.HasSuffix(ref, ".pdf"))

	key := strings.TrimPrefix(ref, "/uploads/")
	content, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.", string(content))

	t.Run("PublicBaseURL", func(t *testing.T) {
		store := NewLocalBlobStore(base, "https://files.example.com/uploads")
		ref, err := store.Save(ctx, "photo", "a.png", "image/png", 1, strings.NewReader("x"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "https://files.example.com/uploads/photo/"), ref)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Save(canceled, "photo", "a.png", "image/png", 1, strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewS3BlobStoreRequiresBucket(t *testing.T) {
	_, err := NewS3BlobStore(context.Background(), S3BlobStoreOptions{Region: "us-east-1"})
	assert.Error(t, err)
}
