// Copyright crimson206, 2026. All rights reserved.

package notebook

import (
	"regexp"
	"strings"
)

// titlePattern matches three consecutive double quotes followed by one
// line of text and a newline: a docstring whose first line is the title.
// This is a string-pattern heuristic, not a syntactic parse; a
// triple-quoted string anywhere in the cell body can match. First match
// wins.
var titlePattern = regexp.MustCompile(`"""([^\n]+)\n`)

// ExtractTitle returns the first docstring title found in a cell's
// joined source, trimmed of surrounding whitespace. A source with no
// docstring, or a docstring whose first line is blank, yields "".
func ExtractTitle(source string) string {
	m := titlePattern.FindStringSubmatch(source)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
