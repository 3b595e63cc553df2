package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoKey(t *testing.T) {
	at := time.Unix(1700000000, 0)
	key := PhotoKey("auth-1", at, ".JPG")

	assert.Regexp(t, regexp.MustCompile(`^user-photos/auth-1/1700000000_[0-9a-f-]{36}\.jpg$`), key)
	assert.True(t, strings.HasSuffix(PhotoKey("auth-1", at, ""), ".jpg"))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage("https://cdn.example.com/")

	obj, err := store.Upload(ctx, "user-photos/a/1.jpg", strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/user-photos/a/1.jpg", obj.PublicURL)
	assert.Equal(t, "user-photos/a/1.jpg", obj.StoragePath)

	data, ok := store.Get("user-photos/a/1.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("img"), data)

	_, contentType, ok := store.Open("user-photos/a/1.jpg")
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)

	require.NoError(t, store.Delete(ctx, "user-photos/a/1.jpg"))
	_, ok = store.Get("user-photos/a/1.jpg")
	assert.False(t, ok)
}

func TestS3StorageUpload(t *testing.T) {
	var (
		mu       sync.Mutex
		gotPath  string
		gotBody  []byte
		gotType  string
		gotAuthz string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuthz = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Storage(context.Background(), config.StorageConfig{
		Bucket:        "photos",
		Endpoint:      server.URL,
		Region:        "auto",
		AccessKey:     "key",
		SecretKey:     "secret",
		PublicBaseURL: "https://cdn.example.com",
	})
	require.NoError(t, err)

	obj, err := store.Upload(context.Background(), "user-photos/a/1.jpg", bytes.NewReader([]byte("img")), "image/jpeg")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/photos/user-photos/a/1.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, []byte("img"), gotBody)
	assert.Contains(t, gotAuthz, "AWS4-HMAC-SHA256")
	assert.Equal(t, "https://cdn.example.com/user-photos/a/1.jpg", obj.PublicURL)
}
