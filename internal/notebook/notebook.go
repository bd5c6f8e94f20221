// Copyright crimson206, 2026. All rights reserved.

// Package notebook extracts title/output pairs from Jupyter notebook
// documents. A title is the first line of a leading triple-quoted
// docstring in a code cell's source; the output is the cell's captured
// execution results normalized to one plain-text string. Cells missing
// either half are skipped.
package notebook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/crimson206/nbdigest/pkg/types"
)

// ParseError reports a document-level structural failure: the input
// could not be decoded as JSON, or no cells collection can be obtained
// at all. Cell-level irregularities never produce a ParseError; they
// degrade to omission.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode reads a complete notebook document from r and parses it.
func Decode(r io.Reader) (*types.Notebook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes a notebook document from raw JSON. Malformed top-level
// JSON or a missing cells collection returns *ParseError. Individual
// cells that fail to decode are dropped; everything else permissive
// handling covers happens later, in Extract.
func Parse(data []byte) (*types.Notebook, error) {
	var doc struct {
		Cells json.RawMessage `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: "decoding notebook JSON", Err: err}
	}
	if len(doc.Cells) == 0 || string(doc.Cells) == "null" {
		return nil, &ParseError{Reason: "notebook has no cells collection"}
	}

	var rawCells []json.RawMessage
	if err := json.Unmarshal(doc.Cells, &rawCells); err != nil {
		return nil, &ParseError{Reason: "cells is not an array", Err: err}
	}

	nb := &types.Notebook{Cells: make([]types.Cell, 0, len(rawCells))}
	for _, rc := range rawCells {
		var cell types.Cell
		if err := json.Unmarshal(rc, &cell); err != nil {
			continue
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

// Extract walks the notebook's cells in document order and returns one
// Entry per code cell that yields both a non-empty title and a non-empty
// output. Non-code cells, cells without source, and cells where either
// extractor comes back empty are skipped. An empty result is valid.
func Extract(nb *types.Notebook) []types.Entry {
	var entries []types.Entry
	for _, cell := range nb.Cells {
		if cell.CellType != types.CellTypeCode {
			continue
		}
		if cell.Source.IsEmpty() {
			continue
		}

		title := ExtractTitle(cell.Source.Join())
		output := ExtractOutput(cell.Outputs)

		if title == "" || output == "" {
			continue
		}
		entries = append(entries, types.Entry{Title: title, Output: output})
	}
	return entries
}
