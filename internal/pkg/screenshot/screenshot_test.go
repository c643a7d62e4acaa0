package screenshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefolio/internal/pkg/filestorage"
)

func newTestStorage(t *testing.T) (*filestorage.LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := filestorage.NewLocalStorage(dir, "http://host/uploads")
	require.NoError(t, err)
	return ls, dir
}

func TestGenerate_StoresProviderImage(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.URL.Query().Get("key"))
		assert.Equal(t, "https://example.com/page", r.URL.Query().Get("url"))
		assert.Equal(t, "1920x1080", r.URL.Query().Get("dimension"))
		assert.Equal(t, "png", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer provider.Close()

	storage, dir := newTestStorage(t)
	svc := NewService("key-1", storage, time.Second).WithEndpoint(provider.URL)

	url, err := svc.Generate(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	assert.Contains(t, url, "/screenshots/")
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	entries, err := os.ReadDir(filepath.Join(dir, "screenshots"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestGenerate_ProviderErrorStatus(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer provider.Close()

	storage, dir := newTestStorage(t)
	svc := NewService("key-1", storage, time.Second).WithEndpoint(provider.URL)

	_, err := svc.Generate(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	// Nothing stored on failure.
	_, serr := os.ReadDir(filepath.Join(dir, "screenshots"))
	assert.True(t, os.IsNotExist(serr))
}

func TestGenerate_RespectsContextDeadline(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer provider.Close()

	storage, _ := newTestStorage(t)
	svc := NewService("key-1", storage, time.Second).WithEndpoint(provider.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Generate(ctx, "https://example.com")
	require.Error(t, err)
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	storage, _ := newTestStorage(t)
	svc := NewService("", storage, time.Second)

	_, err := svc.Generate(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
