package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// element is a parsed XML element together with the byte offsets it
// occupies in the source, so callers can splice new markup in place.
type element struct {
	name     xml.Name
	children []*element
	text     []byte
	// start is the offset of the start tag; closeStart is the offset of the
	// end tag (equal to the start tag's end for self-closing elements).
	start      int64
	closeStart int64
}

func parseTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &element{}
	stack := []*element{root}
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name, start: offset}
			top.children = append(top.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			top.closeStart = offset
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.text = append(top.text, t...)
		}
	}
	return root, nil
}

// is reports whether the element is the wordprocessingml element local.
func (e *element) is(local string) bool {
	return e.name.Space == wordNamespace && e.name.Local == local
}

func (e *element) child(local string) *element {
	for _, c := range e.children {
		if c.is(local) {
			return c
		}
	}
	return nil
}

func (e *element) childrenNamed(local string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.is(local) {
			out = append(out, c)
		}
	}
	return out
}

// paragraphs returns every w:p below e in document order.
func (e *element) paragraphs() []*element {
	var out []*element
	var walk func(*element)
	walk = func(n *element) {
		for _, c := range n.children {
			if c.is("p") {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// runText renders the visible text of a paragraph.
func (e *element) runText() string {
	var b strings.Builder
	var walk func(*element)
	walk = func(n *element) {
		for _, c := range n.children {
			switch {
			case c.is("t"):
				b.Write(c.text)
			case c.is("tab"):
				b.WriteByte('\t')
			case c.is("br"), c.is("cr"):
				b.WriteByte('\n')
			default:
				walk(c)
			}
		}
	}
	walk(e)
	return b.String()
}

// plainText joins the text of all paragraphs below e with newlines.
func (e *element) plainText() string {
	paragraphs := e.paragraphs()
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, p.runText())
	}
	return strings.Join(lines, "\n")
}
