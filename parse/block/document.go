package block

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Block is one bracketed section and its entries.
type Block struct {
	Name    string
	Line    int
	Entries []Entry
}

// Document is every block parsed from one source.
type Document struct {
	Path   string
	Blocks []Block
}

// JSON renders the block as a `"name": {...}` fragment. The assembled
// object is parsed back before it is returned; duplicate keys collapse
// to the last value.
func (b Block) JSON() (string, error) {
	frags := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		frag, err := e.JSON()
		if err != nil {
			return "", atLine(err, e.Line)
		}
		frags = append(frags, frag)
	}
	text := "{" + strings.Join(frags, ",") + "}"
	obj, err := normalize([]byte(text))
	if err != nil {
		return "", &ParseError{Kind: ErrInvalidStructure, Line: b.Line, Text: b.Name, Err: err}
	}
	return quote(b.Name) + ": " + string(obj), nil
}

// JSON renders the whole document as indented JSON. Blocks sharing a
// name are merged by key, the later block winning.
func (d *Document) JSON(indent string) ([]byte, error) {
	frags := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		frag, err := b.JSON()
		if err != nil {
			return nil, err
		}
		frags = append(frags, frag)
	}
	text := "{" + strings.Join(frags, ",") + "}"
	compact, err := normalize([]byte(text))
	if err != nil {
		return nil, &ParseError{Kind: ErrInvalidStructure, Text: d.Path, Err: err}
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, &ParseError{Kind: ErrInvalidStructure, Text: d.Path, Err: err}
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
