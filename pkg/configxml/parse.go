package configxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/MacroPower/cordova-set-version/pkg/cdverrors"
)

// MalformedError is returned when a document can't be parsed or does not
// have the expected configuration root.
type MalformedError struct {
	Err error
	// Line is the line of the syntax error, or zero.
	Line int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %v", cdverrors.ErrMalformedConfig, e.Err)
}

func (e *MalformedError) Unwrap() []error {
	return []error{cdverrors.ErrMalformedConfig, e.Err}
}

func malformed(err error) *MalformedError {
	me := &MalformedError{Err: err}

	var se *xml.SyntaxError
	if errors.As(err, &se) {
		me.Line = se.Line
	}

	return me
}

type rootElement struct {
	tag  *startTag
	elem xml.StartElement
}

// locateRoot decodes the whole of src, so that any syntax error is reported
// even when it follows the root start tag, and returns the root start tag.
func locateRoot(src []byte, name string) (*rootElement, error) {
	d := xml.NewDecoder(bytes.NewReader(src))
	d.Strict = true
	// Only the markup structure matters here, and offsets must stay in bytes
	// of the original input.
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root *rootElement

	depth := 0

	for {
		offset := int(d.InputOffset())

		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if root != nil {
					return nil, malformed(fmt.Errorf("unexpected second root element <%s>", t.Name.Local))
				}

				if t.Name.Local != name {
					return nil, malformed(fmt.Errorf("root element is <%s>, expected <%s>", t.Name.Local, name))
				}

				tag, err := scanStartTag(src, offset, int(d.InputOffset()))
				if err != nil {
					return nil, malformed(err)
				}

				root = &rootElement{tag: tag, elem: t.Copy()}
			}

			depth++

		case xml.EndElement:
			depth--
		}
	}

	if root == nil {
		return nil, malformed(fmt.Errorf("missing <%s> root element", name))
	}

	return root, nil
}

type attr struct {
	name string
	// lead is the whitespace preceding the attribute name.
	lead     string
	start    int
	end      int
	valStart int
	valEnd   int
	quote    byte
}

// startTag is a start tag located by absolute byte offsets into the document.
type startTag struct {
	name    string
	attrs   []attr
	start   int
	end     int
	nameEnd int
}

func (t *startTag) find(name string) *attr {
	for i := range t.attrs {
		if t.attrs[i].name == name {
			return &t.attrs[i]
		}
	}

	return nil
}

// insertAt returns the offset at which a new attribute is inserted: directly
// after the last attribute, or after the element name.
func (t *startTag) insertAt() int {
	if n := len(t.attrs); n > 0 {
		return t.attrs[n-1].end
	}

	return t.nameEnd
}

// scanStartTag scans the attributes of the start tag src[start:end]. The tag
// has already been accepted by the decoder, so only the shape needed to find
// offsets is checked.
func scanStartTag(src []byte, start, end int) (*startTag, error) {
	if start < 0 || end > len(src) || start >= end || src[start] != '<' {
		return nil, fmt.Errorf("start tag not found at offset %d", start)
	}

	i := start + 1
	for i < end && !isSpace(src[i]) && src[i] != '/' && src[i] != '>' {
		i++
	}

	t := &startTag{
		name:    string(src[start+1 : i]),
		start:   start,
		end:     end,
		nameEnd: i,
	}

	for {
		leadStart := i
		for i < end && isSpace(src[i]) {
			i++
		}

		if i >= end || src[i] == '/' || src[i] == '>' {
			break
		}

		a := attr{lead: string(src[leadStart:i]), start: i}

		for i < end && !isSpace(src[i]) && src[i] != '=' {
			i++
		}

		a.name = string(src[a.start:i])

		for i < end && isSpace(src[i]) {
			i++
		}

		if i >= end || src[i] != '=' {
			return nil, fmt.Errorf("attribute %q in <%s> has no value", a.name, t.name)
		}

		i++
		for i < end && isSpace(src[i]) {
			i++
		}

		if i >= end || (src[i] != '"' && src[i] != '\'') {
			return nil, fmt.Errorf("attribute %q in <%s> is not quoted", a.name, t.name)
		}

		a.quote = src[i]
		a.valStart = i + 1

		n := bytes.IndexByte(src[a.valStart:end], a.quote)
		if n < 0 {
			return nil, fmt.Errorf("attribute %q in <%s> is not terminated", a.name, t.name)
		}

		a.valEnd = a.valStart + n
		a.end = a.valEnd + 1
		i = a.end

		if t.find(a.name) != nil {
			return nil, fmt.Errorf("duplicate attribute %q in <%s>", a.name, t.name)
		}

		t.attrs = append(t.attrs, a)
	}

	return t, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
