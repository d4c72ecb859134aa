package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"organize.it/configs"
	"organize.it/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStorage(t *testing.T) (*LocalStorageService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	storage, err := NewLocalStorageService(configs.StorageConfig{
		UploadDir:         dir,
		AllowedExtensions: []string{"png", ".JPG", " gif "},
		MaxUploadBytes:    16,
	})
	require.NoError(t, err)
	return storage, dir
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	storage, dir := newLocalStorage(t)
	ctx := context.Background()

	name, err := storage.SaveProfilePicture(ctx, "me.jpg", bytes.NewReader([]byte("jpeg")), 4)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(name))
	assert.NotEqual(t, "me.jpg", name)

	rc, err := storage.Open(ctx, name)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	require.NoError(t, storage.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	_, err = storage.Open(ctx, name)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.NoError(t, storage.Delete(ctx, name), "olmayan dosyayı silmek hata değildir")
	assert.NoError(t, storage.Delete(ctx, models.DefaultProfilePicture))
}

func TestLocalStorage_Rejections(t *testing.T) {
	storage, _ := newLocalStorage(t)
	ctx := context.Background()

	_, err := storage.SaveProfilePicture(ctx, "script.sh", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = storage.SaveProfilePicture(ctx, "noext", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = storage.SaveProfilePicture(ctx, "big.png", bytes.NewReader(make([]byte, 32)), 32)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	for _, name := range []string{"../secret.png", "a/b.png", "..", ""} {
		_, err = storage.Open(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidFileName, name)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("x.png"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("x.JPEG"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("x.bin"))
}
