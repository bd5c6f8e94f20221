// Copyright crimson206, 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson206/nbdigest/pkg/types"
)

const minimalNotebook = `{"cells": [{"cell_type": "code", "source": "x = 1"}]}`

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain notebook URL", "https://example.com/repo/demo.ipynb", "demo.ipynb", false},
		{"missing extension appended", "https://example.com/raw/demo", "demo.ipynb", false},
		{"query string ignored", "https://example.com/demo.ipynb?token=abc", "demo.ipynb", false},
		{"no path segment", "https://example.com/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filename(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotebook(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(minimalNotebook))
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := types.FetchConfig{NotebooksDir: dir}
	cfg.UserAgent = "nbdigest-test"

	var buf bytes.Buffer
	destPath, skipped, err := Notebook(context.Background(), ts.Client(), ts.URL+"/demo.ipynb", cfg, &buf)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, filepath.Join(dir, "demo.ipynb"), destPath)

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, minimalNotebook, string(data))
	assert.Contains(t, buf.String(), "downloading: demo.ipynb")
}

func TestNotebookSkipsExisting(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("server should not be called for an existing notebook")
	}))
	defer ts.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "demo.ipynb")
	require.NoError(t, os.WriteFile(existing, []byte(minimalNotebook), 0o644))

	var buf bytes.Buffer
	cfg := types.FetchConfig{NotebooksDir: dir}
	_, skipped, err := Notebook(context.Background(), ts.Client(), ts.URL+"/demo.ipynb", cfg, &buf)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Contains(t, buf.String(), "skipped: demo.ipynb")
}

func TestNotebookRejectsNonNotebookResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>rendered notebook view</html>"))
	}))
	defer ts.Close()

	cfg := types.FetchConfig{NotebooksDir: t.TempDir()}
	_, _, err := Notebook(context.Background(), ts.Client(), ts.URL+"/demo.ipynb", cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a notebook")

	// Nothing landed in the notebooks directory.
	entries, readErr := os.ReadDir(cfg.NotebooksDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestNotebookHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cfg := types.FetchConfig{NotebooksDir: t.TempDir()}
	_, _, err := Notebook(context.Background(), ts.Client(), ts.URL+"/gone.ipynb", cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.ipynb" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(minimalNotebook))
	}))
	defer ts.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.ipynb"), []byte(minimalNotebook), 0o644))

	cfg := types.FetchConfig{NotebooksDir: dir}
	urls := []string{
		ts.URL + "/good.ipynb",
		ts.URL + "/existing.ipynb",
		ts.URL + "/bad.ipynb",
	}

	var buf bytes.Buffer
	result := Batch(context.Background(), ts.Client(), urls, cfg, &buf)

	assert.Equal(t, 1, result.Downloaded)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 3, result.Total())
	assert.Contains(t, buf.String(), "Batch summary: 1 downloaded, 1 skipped, 1 failed (total: 3)")
}
