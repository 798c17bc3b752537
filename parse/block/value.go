package block

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ValueKind is the syntactic kind of a raw value.
type ValueKind string

// ValueKinds enumerates every ValueKind.
var ValueKinds = struct {
	String ValueKind
	Object ValueKind
	Other  ValueKind
}{
	String: "string",
	Object: "object",
	Other:  "other",
}

// Classify returns the kind of a raw, trimmed value.
func Classify(raw string) ValueKind {
	switch {
	case len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"':
		return ValueKinds.String
	case strings.HasPrefix(raw, "{"):
		return ValueKinds.Object
	default:
		return ValueKinds.Other
	}
}

// ValueJSON converts a raw value to JSON text according to its kind.
// Strings are re-quoted, inline objects are converted recursively and
// everything else must already be a JSON literal.
func ValueJSON(raw string) (string, error) {
	switch Classify(raw) {
	case ValueKinds.String:
		return stringJSON(raw[1 : len(raw)-1]), nil
	case ValueKinds.Object:
		return InlineObjectJSON(raw)
	default:
		if !json.Valid([]byte(raw)) {
			return "", &ParseError{Kind: ErrInvalidStructure, Text: raw, Err: errors.New("value is not a json literal: " + raw)}
		}
		return raw, nil
	}
}

// InlineObjectJSON converts `{ a = 1, b = { c = "d" } }` to a JSON object.
func InlineObjectJSON(raw string) (string, error) {
	if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
		return "", errf(ErrMalformedInlineObject, 0, raw, "missing closing brace in %s", raw)
	}
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return "{}", nil
	}
	members, err := splitTopLevel(inner, ',')
	if err != nil {
		return "", errf(ErrMalformedInlineObject, 0, raw, "%s: %w", raw, err)
	}
	frags := make([]string, 0, len(members))
	for _, m := range members {
		if m == "" {
			return "", errf(ErrMalformedInlineObject, 0, raw, "empty member in %s", raw)
		}
		e, err := SplitEntry(m)
		if err != nil {
			return "", errf(ErrMalformedInlineObject, 0, raw, "member %q: %w", m, err)
		}
		frag, err := e.JSON()
		if err != nil {
			return "", err
		}
		frags = append(frags, frag)
	}
	return "{" + strings.Join(frags, ", ") + "}", nil
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// braces, brackets or double-quoted strings.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	depth := 0
	inString := false
	start := 0
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced closing bracket")
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if inString {
		return nil, errors.New("unterminated string")
	}
	if depth != 0 {
		return nil, errors.New("unbalanced opening bracket")
	}
	return append(parts, strings.TrimSpace(s[start:])), nil
}

// stringJSON keeps the content verbatim when it is already a valid JSON
// string body and escapes it otherwise.
func stringJSON(content string) string {
	s := `"` + content + `"`
	if json.Valid([]byte(s)) {
		return s
	}
	return quote(content)
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
