package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies the type of a PDF object.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Name
	Array
	Dictionary
	Stream
	Ref
)

// Object holds any PDF object value. Only the fields matching Kind are set.
type Object struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Real   float64
	Str    []byte
	Name   string
	Array  []*Object
	Dict   Dict
	Stream []byte // raw, still encoded
	Ref    Reference
}

// Reference is an indirect object reference (N G R).
type Reference struct {
	Number int
	Gen    int
}

// Dict is a PDF dictionary keyed by name without the leading slash.
type Dict map[string]*Object

// Int returns an integer entry. Reals are truncated.
func (d Dict) Int(key string) (int64, bool) {
	switch o := d[key]; {
	case o == nil:
		return 0, false
	case o.Kind == Int:
		return o.Int, true
	case o.Kind == Real:
		return int64(o.Real), true
	}
	return 0, false
}

// Name returns a name entry.
func (d Dict) Name(key string) (string, bool) {
	if o := d[key]; o != nil && o.Kind == Name {
		return o.Name, true
	}
	return "", false
}

// Array returns an array entry. A single non-array value is returned as a
// one-element array.
func (d Dict) Array(key string) ([]*Object, bool) {
	o := d[key]
	if o == nil {
		return nil, false
	}
	if o.Kind == Array {
		return o.Array, true
	}
	return []*Object{o}, true
}

// Number returns the numeric value of o, or 0 when it is not a number.
func (o *Object) Number() float64 {
	if o == nil {
		return 0
	}
	switch o.Kind {
	case Int:
		return float64(o.Int)
	case Real:
		return o.Real
	}
	return 0
}

var null = &Object{Kind: Null}

const maxDepth = 100

// parser is a recursive-descent reader over PDF object syntax.
type parser struct {
	data  []byte
	pos   int
	depth int
}

func newParser(data []byte, pos int) *parser {
	return &parser{data: data, pos: pos}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skip moves past whitespace and comments.
func (p *parser) skip() {
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; {
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		case isSpace(c):
			p.pos++
		default:
			return
		}
	}
}

// keyword consumes s if it comes next.
func (p *parser) keyword(s string) bool {
	if bytes.HasPrefix(p.data[p.pos:], []byte(s)) {
		p.pos += len(s)
		return true
	}
	return false
}

// token reads a run of regular characters.
func (p *parser) token() string {
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// object parses the next object.
func (p *parser) object() (*Object, error) {
	if p.depth >= maxDepth {
		return nil, fmt.Errorf("objects nested deeper than %d", maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()

	p.skip()
	if p.pos >= len(p.data) {
		return null, nil
	}
	switch c := p.data[p.pos]; {
	case p.keyword("null"):
		return null, nil
	case p.keyword("true"):
		return &Object{Kind: Bool, Bool: true}, nil
	case p.keyword("false"):
		return &Object{Kind: Bool}, nil
	case c == '(':
		return p.literalString(), nil
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.dictOrStream()
	case c == '<':
		return p.hexString(), nil
	case c == '/':
		return &Object{Kind: Name, Name: p.name()}, nil
	case c == '[':
		return p.array()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.numberOrRef(), nil
	}
	// Unknown keyword: consume it so callers make progress.
	if p.token() == "" {
		p.pos++
	}
	return null, nil
}

func (p *parser) literalString() *Object {
	p.pos++ // (
	var buf bytes.Buffer
	for depth := 1; p.pos < len(p.data); {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				return &Object{Kind: String, Str: buf.Bytes()}
			}
		case '\\':
			p.escape(&buf)
			continue
		}
		buf.WriteByte(c)
	}
	return &Object{Kind: String, Str: buf.Bytes()}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f',
	'(': '(', ')': ')', '\\': '\\',
}

func (p *parser) escape(buf *bytes.Buffer) {
	if p.pos >= len(p.data) {
		return
	}
	c := p.data[p.pos]
	p.pos++
	if r, ok := simpleEscapes[c]; ok {
		buf.WriteByte(r)
		return
	}
	switch {
	case c == '\r':
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
	case c == '\n':
		// line continuation
	case c >= '0' && c <= '7':
		v := int(c - '0')
		for i := 0; i < 2 && p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; i++ {
			v = v*8 + int(p.data[p.pos]-'0')
			p.pos++
		}
		buf.WriteByte(byte(v))
	default:
		buf.WriteByte(c)
	}
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func (p *parser) hexString() *Object {
	p.pos++ // <
	var (
		buf  bytes.Buffer
		hi   byte
		half bool
	)
	for p.pos < len(p.data) && p.data[p.pos] != '>' {
		v, ok := hexDigit(p.data[p.pos])
		p.pos++
		if !ok {
			continue
		}
		if half {
			buf.WriteByte(hi<<4 | v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		buf.WriteByte(hi << 4)
	}
	p.pos++ // >
	return &Object{Kind: String, Str: buf.Bytes()}
}

// name reads /Name and decodes #XX escapes.
func (p *parser) name() string {
	p.pos++ // /
	raw := p.token()
	if !bytes.ContainsRune([]byte(raw), '#') {
		return raw
	}
	var buf bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			hi, ok1 := hexDigit(raw[i+1])
			lo, ok2 := hexDigit(raw[i+2])
			if ok1 && ok2 {
				buf.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		buf.WriteByte(raw[i])
	}
	return buf.String()
}

func (p *parser) array() (*Object, error) {
	p.pos++ // [
	arr := &Object{Kind: Array}
	for {
		p.skip()
		if p.pos >= len(p.data) {
			return arr, nil
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		o, err := p.object()
		if err != nil {
			return nil, err
		}
		arr.Array = append(arr.Array, o)
	}
}

func (p *parser) dictOrStream() (*Object, error) {
	p.pos += 2 // <<
	d := make(Dict)
	for {
		p.skip()
		if p.pos >= len(p.data) {
			break
		}
		if p.keyword(">>") {
			break
		}
		if p.data[p.pos] != '/' {
			p.pos++
			continue
		}
		key := p.name()
		val, err := p.object()
		if err != nil {
			return nil, err
		}
		d[key] = val
	}

	p.skip()
	if !p.keyword("stream") {
		return &Object{Kind: Dictionary, Dict: d}, nil
	}
	// The EOL after the keyword is not part of the data.
	_ = p.keyword("\r\n") || p.keyword("\n") || p.keyword("\r")

	start := p.pos
	n := -1
	if l, ok := d.Int("Length"); ok && d["Length"].Kind == Int {
		n = int(l)
	}
	end := start + n
	if n < 0 || end > len(p.data) {
		i := bytes.Index(p.data[start:], []byte("endstream"))
		if i < 0 {
			i = len(p.data) - start
		}
		end = start + i
	}
	p.pos = end
	p.skip()
	p.keyword("endstream")
	return &Object{Kind: Stream, Dict: d, Stream: p.data[start:end]}, nil
}

// numberOrRef parses a number, or an indirect reference when two integers
// are followed by R.
func (p *parser) numberOrRef() *Object {
	tok := p.token()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return null
		}
		return &Object{Kind: Real, Real: f}
	}

	afterNum := p.pos
	p.skip()
	if g, err := strconv.Atoi(p.token()); err == nil {
		p.skip()
		if p.pos < len(p.data) && p.data[p.pos] == 'R' &&
			(p.pos+1 == len(p.data) || isSpace(p.data[p.pos+1]) || isDelimiter(p.data[p.pos+1])) {
			p.pos++
			return &Object{Kind: Ref, Ref: Reference{Number: int(n), Gen: g}}
		}
	}
	p.pos = afterNum
	return &Object{Kind: Int, Int: n}
}
