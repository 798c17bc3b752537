// Package block converts a simplified TOML dialect into JSON.
//
// A source is a sequence of `[name]` headers, each followed by
// `key = value` lines. Values are double-quoted strings, inline objects
// such as `{ x = 1, y = "z" }`, or literals that are already valid JSON
// (numbers, booleans, arrays).
//
// A blank or comment line ends the current block. Content lines that
// follow it before the next header belong to no block and are dropped.
package block

import (
	"io"
	"strings"
)

// Parse reads a source from r and splits it into blocks. path is only recorded on
// the returned Document.
func Parse(path string, r io.Reader) (*Document, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Path: path}
	idx := 0
	for idx < len(lines) {
		line := lines[idx]
		if !IsHeader(line) {
			idx++
			continue
		}
		b, end, err := scanBlock(lines, idx)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, b)
		idx = end
	}
	return doc, nil
}

// ParseString is Parse over an in-memory source.
func ParseString(path, src string) (*Document, error) {
	return Parse(path, strings.NewReader(src))
}

// readLines returns every line of r, trimmed. Line length is bounded
// only by the input.
func readLines(r io.Reader) ([]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(src), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines, nil
}

// scanBlock parses the header at lines[idx] and its body. The body ends
// before the next header, the next blank or comment line, or the end of
// input. It returns the index just past the body.
func scanBlock(lines []string, idx int) (Block, int, error) {
	name, ok := HeaderName(lines[idx])
	if !ok {
		return Block{}, 0, &ParseError{Kind: ErrMalformedHeader, Line: idx + 1, Text: lines[idx]}
	}

	end := idx + 1
	for end < len(lines) && !IsHeader(lines[end]) && !ShouldSkip(lines[end]) {
		end++
	}

	b := Block{Name: name, Line: idx + 1}
	for i := idx + 1; i < end; i++ {
		e, err := SplitEntry(lines[i])
		if err != nil {
			return Block{}, 0, atLine(err, i+1)
		}
		e.Line = i + 1
		b.Entries = append(b.Entries, e)
	}
	return b, end, nil
}
