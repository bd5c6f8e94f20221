// Copyright crimson206, 2026. All rights reserved.

package parse

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crimson206/nbdigest/pkg/types"
)

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ipynb")
	bad := filepath.Join(dir, "bad.ipynb")
	if err := os.WriteFile(good, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`{"cells": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.ipynb")

	var buf bytes.Buffer
	cfg := types.ParseConfig{ParsedDir: filepath.Join(dir, "parsed")}
	result := Batch([]string{good, bad, missing}, cfg, &buf)

	if result.Parsed != 1 || result.Failed != 2 || result.Skipped != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !strings.Contains(buf.String(), "Batch summary: 1 parsed, 0 skipped, 2 failed") {
		t.Errorf("missing summary in %q", buf.String())
	}

	// Output landed under ParsedDir.
	if _, err := os.Stat(filepath.Join(dir, "parsed", "good_parsed.json")); err != nil {
		t.Errorf("parsed output missing: %v", err)
	}
}

func TestParseNotebookSkipsUpToDate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.ParseConfig{}
	var buf bytes.Buffer

	if status := ParseNotebook(path, cfg, &buf); status != StatusParsed {
		t.Fatalf("first run: got %q, want %q", status, StatusParsed)
	}
	if status := ParseNotebook(path, cfg, &buf); status != StatusSkipped {
		t.Errorf("second run: got %q, want %q", status, StatusSkipped)
	}

	// Touching the source makes it stale again.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if status := ParseNotebook(path, cfg, &buf); status != StatusParsed {
		t.Errorf("after touch: got %q, want %q", status, StatusParsed)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.ipynb":    sampleNotebook,
		"b.ipynb":    sampleNotebook,
		"notes.txt":  "not a notebook",
		"nested.dir": "",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := types.ParseConfig{NotebooksDir: dir, ParsedDir: filepath.Join(dir, "parsed")}
	var buf bytes.Buffer
	result, err := Dir(cfg, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Parsed != 2 || result.Failed != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestDirMissingDirectory(t *testing.T) {
	cfg := types.ParseConfig{NotebooksDir: filepath.Join(t.TempDir(), "nope")}
	if _, err := Dir(cfg, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing directory")
	}
}
