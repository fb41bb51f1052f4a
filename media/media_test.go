package media

import (
	"context"
	"eduverse/config"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/")

	url, err := store.Upload(context.Background(), "courses/1/intro.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/courses/1/intro.txt", url)

	data, err := os.ReadFile(filepath.Join(dir, "courses", "1", "intro.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")
	for _, key := range []string{"", "../etc/passwd", "/abs/file"} {
		_, err := store.Upload(context.Background(), key, strings.NewReader("x"), "text/plain")
		assert.Error(t, err, key)
	}
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Upload(ctx, "a.txt", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)
	a := ObjectKey("/courses/3/", "Lesson One.MP4", at)
	b := ObjectKey("courses/3", "Lesson One.MP4", at)

	assert.True(t, strings.HasPrefix(a, "courses/3/20240102/"), a)
	assert.True(t, strings.HasSuffix(a, ".mp4"), a)
	assert.NotEqual(t, a, b)
	assert.NoError(t, validKey(a))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentTypeFor("a.mp4", ""))
	assert.Equal(t, "application/pdf", ContentTypeFor("a.PDF", "application/octet-stream"))
	assert.Equal(t, "image/gif", ContentTypeFor("a.gif", "image/gif"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a.bin", ""))
}

func TestNewStoreSelectsBackend(t *testing.T) {
	s, err := NewStore(&config.Config{UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = NewStore(&config.Config{OSSBucket: "media"})
	assert.Error(t, err)
}

func TestOSSPublicURL(t *testing.T) {
	s := &OSSStore{endpoint: "https://oss-ap-southeast-5.aliyuncs.com", bucketName: "edu"}
	assert.Equal(t, "https://edu.oss-ap-southeast-5.aliyuncs.com/a/b.mp4", s.PublicURL("a/b.mp4"))

	s.publicBase = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/a/b.mp4", s.PublicURL("a/b.mp4"))
}
