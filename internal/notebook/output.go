// Copyright crimson206, 2026. All rights reserved.

package notebook

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/crimson206/nbdigest/pkg/types"
)

// textPlain is the only MIME entry consumed from execute_result data.
// Rich representations (images, HTML) are out of scope.
const textPlain = "text/plain"

// ansiPattern matches CSI terminal escape sequences: ESC [ followed by
// parameter bytes and a final letter. Covers the color and cursor codes
// notebook kernels embed in stream and traceback text.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ExtractOutput normalizes a cell's output records into a single string.
// Records are visited in document order: stream text and execute_result
// text/plain data are appended fragment by fragment, error tracebacks
// are appended as one newline-joined fragment, and any other output type
// is skipped. Fragments are concatenated with no separator, trimmed, and
// stripped of ANSI escape sequences. An empty result is valid.
func ExtractOutput(outputs []types.Output) string {
	var fragments []string

	for _, out := range outputs {
		switch out.OutputType {
		case types.OutputStream:
			fragments = append(fragments, out.Text...)

		case types.OutputExecuteResult:
			if raw, ok := out.Data[textPlain]; ok {
				var plain types.StringOrList
				if err := json.Unmarshal(raw, &plain); err == nil {
					fragments = append(fragments, plain...)
				}
			}

		case types.OutputError:
			if len(out.Traceback) > 0 {
				fragments = append(fragments, strings.Join(out.Traceback, "\n"))
			}
		}
	}

	raw := strings.TrimSpace(strings.Join(fragments, ""))
	return StripANSI(raw)
}
