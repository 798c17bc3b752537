package block

import (
	"strconv"
	"strings"
)

// Entry is one `key = value` line of a block.
type Entry struct {
	Key   string
	Value string // raw, trimmed, unparsed
	Line  int
}

// SplitEntry splits a body line at its first '='. Everything after that
// '=' belongs to the value, further '=' included.
func SplitEntry(line string) (Entry, error) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return Entry{}, &ParseError{Kind: ErrMalformedEntry, Text: line}
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" {
		return Entry{}, errf(ErrMalformedEntry, 0, line, "empty key in %q", line)
	}
	val := strings.TrimSpace(stripComment(line[idx+1:]))
	return Entry{Key: unquoteKey(key), Value: val}, nil
}

// JSON renders the entry as a `"key": value` object member.
func (e Entry) JSON() (string, error) {
	v, err := ValueJSON(e.Value)
	if err != nil {
		return "", err
	}
	return quote(e.Key) + ": " + v, nil
}

func unquoteKey(key string) string {
	if len(key) >= 2 && key[0] == '"' && key[len(key)-1] == '"' {
		if s, err := strconv.Unquote(key); err == nil {
			return s
		}
		return key[1 : len(key)-1]
	}
	return key
}
