// Copyright crimson206, 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/crimson206/nbdigest/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	parsedDir := filepath.Join(tmpDir, "parsed")
	if err := os.MkdirAll(parsedDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := types.IndexConfig{
		IndexDir:   filepath.Join(tmpDir, "index"),
		ParsedDir:  parsedDir,
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func writeParsed(t *testing.T, tmpDir, notebookID string, entries []types.Entry) {
	t.Helper()
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(tmpDir, "parsed", notebookID+"_parsed.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func sampleEntries() []types.Entry {
	return []types.Entry{
		{Title: "Compute Sum", Output: "2"},
		{Title: "Load Dataset", Output: "rows: 1200\ncolumns: 8"},
		{Title: "Plot Distribution", Output: "histogram rendered to 40 bins"},
	}
}

func ingest(t *testing.T, store *Store) IngestSummary {
	t.Helper()
	var buf bytes.Buffer
	summary, err := store.Ingest(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Ingest: %v\noutput: %s", err, buf.String())
	}
	return summary
}

// --- tests ---

func TestIngest(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())

	summary := ingest(t, store)
	if summary.Indexed != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{NotebookID: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Title != "Compute Sum" || results[0].Position != 0 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())

	ingest(t, store)
	summary := ingest(t, store)
	if summary.Skipped != 1 || summary.Indexed != 0 {
		t.Errorf("second run should skip, got %+v", summary)
	}
}

func TestIngestUpdatesChanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	// Rewrite with fewer entries and a future mod time.
	writeParsed(t, tmpDir, "demo", sampleEntries()[:1])
	path := filepath.Join(tmpDir, "parsed", "demo_parsed.json")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	summary := ingest(t, store)
	if summary.Updated != 1 {
		t.Fatalf("expected update, got %+v", summary)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{NotebookID: "demo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("stale entries survived update: %+v", results)
	}
}

func TestIngestMalformedFileFailsThatFileOnly(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "good", sampleEntries())
	badPath := filepath.Join(tmpDir, "parsed", "bad_parsed.json")
	if err := os.WriteFile(badPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary := ingest(t, store)
	if summary.Indexed != 1 || summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRetrieveFullText(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "histogram"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Plot Distribution" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRetrieveTitleMatch(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "dataset"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Title != "Load Dataset" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRetrieveMaxResults(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	results, err := store.Retrieve(context.Background(), QueryOptions{NotebookID: "demo", MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{}).IsEmpty() {
		t.Error("zero options should be empty")
	}
	if (QueryOptions{Query: "x"}).IsEmpty() {
		t.Error("query options should not be empty")
	}
	if (QueryOptions{NotebookID: "demo"}).IsEmpty() {
		t.Error("filtered options should not be empty")
	}
}

func TestExportJSON(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	if err := store.ExportJSON(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "index", "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var exported []QueryResult
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exported) != 3 {
		t.Errorf("got %d exported entries, want 3", len(exported))
	}
}

func TestExportJSONHonorsLimit(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	if err := store.ExportJSON(context.Background(), QueryOptions{MaxResults: 2}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "index", "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var exported []QueryResult
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exported) != 2 {
		t.Errorf("got %d exported entries, want 2", len(exported))
	}
}

func TestExportYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	writeParsed(t, tmpDir, "demo", sampleEntries())
	ingest(t, store)

	if err := store.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "index", "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var exported []QueryResult
	if err := yaml.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if !strings.Contains(string(data), "Compute Sum") {
		t.Error("export missing entry title")
	}
}

func TestStableID(t *testing.T) {
	a := stableID("demo", 0, "Compute Sum")
	b := stableID("demo", 0, "Compute Sum")
	c := stableID("demo", 1, "Compute Sum")

	if a != b {
		t.Error("stableID not deterministic")
	}
	if a == c {
		t.Error("position should change the ID")
	}
	if len(a) != 12 {
		t.Errorf("ID length = %d, want 12", len(a))
	}
}
