// Copyright crimson206, 2026. All rights reserved.

package types

// Entry is the unit of extraction output: the title pulled from a code
// cell's leading docstring paired with the cell's normalized text output.
// An Entry is only produced when both fields are non-empty; entries have
// no identity beyond their position, which follows cell order in the
// source document.
type Entry struct {
	Title  string `json:"title" yaml:"title"`
	Output string `json:"output" yaml:"output"`
}
