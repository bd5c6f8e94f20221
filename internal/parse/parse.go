// Copyright crimson206, 2026. All rights reserved.

// Package parse reads notebook files, runs title/output extraction, and
// persists the results as indented JSON.
package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson206/nbdigest/internal/notebook"
	"github.com/crimson206/nbdigest/pkg/types"
)

const (
	// notebookExt is the recognized source suffix.
	notebookExt = ".ipynb"
	// parsedSuffix replaces notebookExt in derived output paths.
	parsedSuffix = "_parsed.json"
)

// File reads and extracts a single notebook. A structural failure in the
// document surfaces as a wrapped *notebook.ParseError.
func File(path string) ([]types.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	nb, err := notebook.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return notebook.Extract(nb), nil
}

// OutputPath derives the default target for a notebook path by replacing
// the .ipynb suffix with _parsed.json.
func OutputPath(notebookPath string) string {
	return strings.TrimSuffix(notebookPath, notebookExt) + parsedSuffix
}

// Save extracts notebookPath and writes the entries to outputPath,
// creating parent directories as needed. An empty outputPath uses the
// derived default. When removeSource is set the source notebook is
// deleted afterward, best effort: a deletion failure is reported as a
// warning on w and the save still succeeds. Returns the path written.
func Save(notebookPath, outputPath string, removeSource bool, w io.Writer) (string, error) {
	if outputPath == "" {
		outputPath = OutputPath(notebookPath)
	}

	entries, err := File(notebookPath)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	if err := writeEntries(outputPath, entries); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "saved %s (%d entries)\n", outputPath, len(entries))

	if removeSource {
		if err := RemoveSource(notebookPath); err != nil {
			fmt.Fprintf(w, "  warning: %v\n", err)
		} else {
			fmt.Fprintf(w, "removed %s\n", notebookPath)
		}
	}

	return outputPath, nil
}

// RemoveSource deletes a parsed notebook's source file. Callers log the
// returned error as a warning; it never fails the overall parse.
func RemoveSource(notebookPath string) error {
	if err := os.Remove(notebookPath); err != nil {
		return fmt.Errorf("removing source %s: %w", notebookPath, err)
	}
	return nil
}

// writeEntries serializes entries as a pretty-printed JSON array with
// HTML escaping disabled so UTF-8 text survives unescaped. A nil slice
// is written as an empty array.
func writeEntries(path string, entries []types.Entry) error {
	if entries == nil {
		entries = []types.Entry{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("encoding entries: %w", err)
	}
	return f.Close()
}
