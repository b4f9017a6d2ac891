package assets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.glb")

	r, err := Check(path, DefaultWarnBytes)
	require.NoError(t, err)
	assert.False(t, r.Exists)

	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))
	r, err = Check(path, DefaultWarnBytes)
	require.NoError(t, err)
	assert.True(t, r.Exists)
	assert.Equal(t, int64(2048), r.Size)
	assert.False(t, r.Large)

	r, err = Check(path, 1024)
	require.NoError(t, err)
	assert.True(t, r.Large)

	_, err = Check(dir, DefaultWarnBytes)
	assert.ErrorContains(t, err, "is a directory")
}

func TestFetchFallsBackToNextSource(t *testing.T) {
	payload := []byte("glTF binary payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/duck.glb" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "models", "model.glb")
	r, err := Fetch(context.Background(), []string{srv.URL + "/missing.glb", srv.URL + "/duck.glb"}, dst, time.Second, discardLogger())
	require.NoError(t, err)
	assert.True(t, r.Exists)
	assert.Equal(t, int64(len(payload)), r.Size)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchReportsManualSteps(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dst := filepath.Join(t.TempDir(), "model.glb")
	src := srv.URL + "/model.glb"
	_, err := Fetch(context.Background(), []string{src}, dst, time.Second, discardLogger())

	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	assert.Len(t, ferr.Errs, 1)
	assert.Equal(t, "download "+src, ferr.ManualSteps()[0])
	assert.Contains(t, ferr.ManualSteps()[1], "model.glb")

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr), "partial file removed")
}

func TestFetchRequiresSources(t *testing.T) {
	_, err := Fetch(context.Background(), nil, "x", time.Second, discardLogger())
	assert.EqualError(t, err, "fetch: no sources")
}
