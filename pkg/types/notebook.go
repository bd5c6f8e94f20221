// Copyright crimson206, 2026. All rights reserved.

// Package types defines the shared value types and stage configuration
// structs used across the nbdigest pipeline.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StringOrList absorbs the notebook format's habit of storing text either
// as a single string or as an ordered list of line fragments. Both forms
// are equivalent once joined; Join produces the normalized string.
type StringOrList []string

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
func (s *StringOrList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var lines []string
		if err := json.Unmarshal(data, &lines); err != nil {
			return fmt.Errorf("unmarshaling string list: %w", err)
		}
		*s = lines
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("unmarshaling string: %w", err)
	}
	*s = StringOrList{single}
	return nil
}

// MarshalJSON always emits the list form.
func (s StringOrList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(s))
}

// Join concatenates the fragments without inserting separators. Fragments
// are expected to carry their own line terminators.
func (s StringOrList) Join() string {
	return strings.Join([]string(s), "")
}

// IsEmpty reports whether the value holds no text at all.
func (s StringOrList) IsEmpty() bool {
	return len(s) == 0
}

// Output is one entry in a cell's captured execution results. The fields
// populated depend on OutputType: stream outputs carry Text,
// execute_result outputs carry Data keyed by MIME type, and error outputs
// carry Traceback. Unrecognized output types are carried through and
// ignored by extraction.
//
// Data values stay raw JSON: real notebooks mix text/plain with
// arbitrarily shaped entries (application/json, widget state, images),
// and only text/plain is ever consumed. Decoding the rest would make
// their shape our problem.
type Output struct {
	OutputType string                     `json:"output_type"`
	Text       StringOrList               `json:"text,omitempty"`
	Data       map[string]json.RawMessage `json:"data,omitempty"`
	Traceback  []string                   `json:"traceback,omitempty"`
}

// Output type tags consumed by extraction.
const (
	OutputStream        = "stream"
	OutputExecuteResult = "execute_result"
	OutputError         = "error"
)

// Cell is one unit of a notebook document. Only cells with CellType
// "code" participate in extraction.
type Cell struct {
	CellType string       `json:"cell_type"`
	Source   StringOrList `json:"source,omitempty"`
	Outputs  []Output     `json:"outputs,omitempty"`
}

// CellTypeCode is the only cell type extraction processes further.
const CellTypeCode = "code"

// Notebook is a parsed notebook document: an ordered list of cells.
// Unrecognized top-level fields are ignored on decode.
type Notebook struct {
	Cells []Cell `json:"cells"`
}
