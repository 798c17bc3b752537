package block

import (
	"regexp"
	"strings"
)

var headerPattern = regexp.MustCompile(`^\[(?P<name>[^\[\]]+)\]\s*(?:#.*)?$`)

// ShouldSkip reports whether a trimmed line is blank or a comment.
func ShouldSkip(line string) bool {
	return line == "" || strings.HasPrefix(line, "#")
}

// IsHeader reports whether a trimmed line opens a block.
func IsHeader(line string) bool {
	return !ShouldSkip(line) && strings.HasPrefix(line, "[")
}

// HeaderName extracts the block name from a header line. The name is
// returned verbatim, dots, spaces and '#' included. A comment may follow
// the closing bracket.
func HeaderName(line string) (string, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[headerPattern.SubexpIndex("name")], true
}

// stripComment drops a trailing # comment that sits outside a
// double-quoted string.
func stripComment(s string) string {
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' {
				i++
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '#':
			return s[:i]
		}
	}
	return s
}
