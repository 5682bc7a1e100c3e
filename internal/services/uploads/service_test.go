package uploads

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whohub/internal/domain"
	"whohub/internal/testkit"
)

func seed(t *testing.T, store *testkit.MemoryStore) int64 {
	t.Helper()
	name := "John Doe"
	id, err := store.Create(context.Background(), &domain.Investigation{
		Type:       domain.TypeSimple,
		Status:     domain.StatusPending,
		TargetName: &name,
	})
	require.NoError(t, err)
	return id
}

func TestSaveImage(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	svc := New(store, blobs, zap.NewNop())
	id := seed(t, store)

	key, err := svc.SaveImage(context.Background(), id, "photo.jpg", "image/jpeg", []byte("jpegdata"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "investigations/1/image_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, inv.SubmittedImages)
	assert.Equal(t, 1, blobs.Len())
}

func TestSaveImageValidation(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	svc := New(store, blobs, zap.NewNop())
	id := seed(t, store)

	_, err := svc.SaveImage(context.Background(), id, "doc.pdf", "application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SaveImage(context.Background(), id, "photo.png", "image/png", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SaveImage(context.Background(), id, "huge.png", "image/png", bytes.Repeat([]byte("a"), maxImageBytes+1))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, blobs.Len())
}

func TestSaveImageCapsCount(t *testing.T) {
	store := testkit.NewMemoryStore()
	svc := New(store, testkit.NewMemoryBlobStore(), zap.NewNop())
	id := seed(t, store)

	for i := 0; i < maxImages; i++ {
		_, err := svc.SaveImage(context.Background(), id, "photo.webp", "image/webp", []byte("data"))
		require.NoError(t, err)
	}
	_, err := svc.SaveImage(context.Background(), id, "photo.webp", "image/webp", []byte("data"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetAndDeleteImage(t *testing.T) {
	store := testkit.NewMemoryStore()
	blobs := testkit.NewMemoryBlobStore()
	svc := New(store, blobs, zap.NewNop())
	id := seed(t, store)

	key, err := svc.SaveImage(context.Background(), id, "photo.jpg", "image/jpeg", []byte("jpegdata"))
	require.NoError(t, err)
	filename := key[strings.LastIndex(key, "/")+1:]

	data, contentType, err := svc.GetImage(context.Background(), id, filename)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte("jpegdata"), data)

	require.NoError(t, svc.DeleteImage(context.Background(), id, filename))
	assert.Equal(t, 0, blobs.Len())
	inv, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, inv.SubmittedImages)

	_, _, err = svc.GetImage(context.Background(), id, filename)
	assert.True(t, domain.IsNotFound(err))
}
