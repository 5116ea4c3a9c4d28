// Package pdf reads the structure of PDF files: the cross-reference data,
// the page tree, page geometry and the image resources each page draws.
// It does not interpret content streams.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrNotPDF is returned when the data lacks a %PDF- header.
var ErrNotPDF = errors.New("pdf: not a PDF file")

// xrefEntry locates one object. Objects inside object streams record the
// containing stream instead of an offset.
type xrefEntry struct {
	offset int64
	inUse  bool
	stream int // containing object stream, 0 if stored directly
	index  int
}

// Document is a loaded PDF file.
type Document struct {
	data    []byte
	xref    map[int]xrefEntry
	trailer Dict
	cache   map[int]*Object
}

// Open reads a PDF file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Load(data)
}

// Load parses the cross-reference data of a PDF held in memory.
func Load(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	doc := &Document{
		data:  data,
		xref:  make(map[int]xrefEntry),
		cache: make(map[int]*Object),
	}
	offset, err := doc.startXRef()
	if err != nil {
		return nil, err
	}
	// Newer sections come first; guard against Prev loops.
	seen := make(map[int64]bool)
	for offset > 0 || len(seen) == 0 {
		if seen[offset] {
			break
		}
		seen[offset] = true
		if offset, err = doc.readXRef(offset); err != nil {
			return nil, fmt.Errorf("loading xref: %w", err)
		}
	}
	return doc, nil
}

// Version returns the header version, for example "1.4".
func (doc *Document) Version() string {
	line := doc.data[len("%PDF-"):]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if len(line) > 8 {
		line = line[:8]
	}
	return strings.TrimSpace(string(line))
}

// ObjectCount is the number of objects listed in the xref data.
func (doc *Document) ObjectCount() int { return len(doc.xref) }

func (doc *Document) startXRef() (int64, error) {
	tail := doc.data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	i := bytes.LastIndex(tail, []byte("startxref"))
	if i < 0 {
		return 0, errors.New("startxref not found")
	}
	p := newParser(tail, i+len("startxref"))
	p.skip()
	off, err := strconv.ParseInt(p.token(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing startxref: %w", err)
	}
	return off, nil
}

// readXRef reads the section at offset and returns the Prev offset, or 0.
func (doc *Document) readXRef(offset int64) (int64, error) {
	if offset < 0 || offset >= int64(len(doc.data)) {
		return 0, fmt.Errorf("xref offset %d out of range", offset)
	}
	p := newParser(doc.data, int(offset))
	p.skip()

	var trailer Dict
	if p.keyword("xref") {
		var err error
		if trailer, err = doc.readXRefTable(p); err != nil {
			return 0, err
		}
	} else {
		obj, err := doc.objectAt(offset)
		if err != nil {
			return 0, err
		}
		if obj.Kind != Stream {
			return 0, fmt.Errorf("no xref table or stream at offset %d", offset)
		}
		if err := doc.readXRefStream(obj); err != nil {
			return 0, err
		}
		trailer = obj.Dict
	}

	if doc.trailer == nil {
		doc.trailer = trailer
	}
	prev, _ := trailer.Int("Prev")
	return prev, nil
}

func (doc *Document) readXRefTable(p *parser) (Dict, error) {
	for {
		p.skip()
		if p.keyword("trailer") {
			break
		}
		first, err1 := strconv.Atoi(p.token())
		p.skip()
		count, err2 := strconv.Atoi(p.token())
		if err1 != nil || err2 != nil {
			return nil, errors.New("malformed xref subsection")
		}
		for i := 0; i < count; i++ {
			p.skip()
			off, _ := strconv.ParseInt(p.token(), 10, 64)
			p.skip()
			p.token() // generation
			p.skip()
			kind := p.token()
			doc.addEntry(first+i, xrefEntry{offset: off, inUse: kind == "n"})
		}
	}
	obj, err := p.object()
	if err != nil {
		return nil, fmt.Errorf("parsing trailer: %w", err)
	}
	if obj.Kind != Dictionary {
		return nil, errors.New("trailer is not a dictionary")
	}
	return obj.Dict, nil
}

func (doc *Document) readXRefStream(obj *Object) error {
	data, err := Decode(obj.Dict, obj.Stream)
	if err != nil {
		return fmt.Errorf("decoding xref stream: %w", err)
	}
	w, _ := obj.Dict.Array("W")
	if len(w) < 3 {
		return errors.New("xref stream lacks /W")
	}
	widths := [3]int{int(w[0].Int), int(w[1].Int), int(w[2].Int)}
	entry := widths[0] + widths[1] + widths[2]
	if entry == 0 {
		return errors.New("xref stream has zero-width entries")
	}

	size, _ := obj.Dict.Int("Size")
	index := []*Object{{Kind: Int}, {Kind: Int, Int: size}}
	if arr, ok := obj.Dict.Array("Index"); ok {
		index = arr
	}

	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := int(index[i].Int), int(index[i+1].Int)
		for n := 0; n < count && pos+entry <= len(data); n++ {
			row := data[pos : pos+entry]
			pos += entry
			kind := 1 // default type when the first field has zero width
			if widths[0] > 0 {
				kind = bigEndian(row[:widths[0]])
			}
			f2 := bigEndian(row[widths[0] : widths[0]+widths[1]])
			f3 := bigEndian(row[widths[0]+widths[1]:])
			switch kind {
			case 0:
				doc.addEntry(first+n, xrefEntry{})
			case 1:
				doc.addEntry(first+n, xrefEntry{offset: int64(f2), inUse: true})
			case 2:
				doc.addEntry(first+n, xrefEntry{stream: f2, index: f3, inUse: true})
			}
		}
	}
	return nil
}

// addEntry records e unless a newer section already listed the object.
func (doc *Document) addEntry(num int, e xrefEntry) {
	if _, ok := doc.xref[num]; !ok {
		doc.xref[num] = e
	}
}

func bigEndian(b []byte) int {
	v := 0
	for _, c := range b {
		v = v<<8 | int(c)
	}
	return v
}

// objectAt parses "N G obj ... endobj" at offset.
func (doc *Document) objectAt(offset int64) (*Object, error) {
	if offset < 0 || offset >= int64(len(doc.data)) {
		return nil, fmt.Errorf("object offset %d out of range", offset)
	}
	p := newParser(doc.data, int(offset))
	p.skip()
	p.token()
	p.skip()
	p.token()
	p.skip()
	if !p.keyword("obj") {
		return nil, fmt.Errorf("expected obj at offset %d", offset)
	}
	obj, err := p.object()
	if err != nil {
		return nil, err
	}

	// With an indirect /Length the parser scanned to endstream; trim to the
	// declared length once it is known.
	if obj.Kind == Stream && obj.Dict["Length"] != nil && obj.Dict["Length"].Kind == Ref {
		length, err := doc.Resolve(obj.Dict["Length"])
		if err == nil && length.Kind == Int && int(length.Int) <= len(obj.Stream) {
			obj.Stream = obj.Stream[:length.Int]
		}
	}
	return obj, nil
}

// ResolveRef returns the object a reference points to. Missing or free
// objects resolve to null.
func (doc *Document) ResolveRef(ref Reference) (*Object, error) {
	if obj, ok := doc.cache[ref.Number]; ok {
		return obj, nil
	}
	e, ok := doc.xref[ref.Number]
	if !ok || !e.inUse {
		return null, nil
	}

	var (
		obj *Object
		err error
	)
	if e.stream != 0 {
		obj, err = doc.compressedObject(ref.Number, e)
	} else {
		obj, err = doc.objectAt(e.offset)
	}
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", ref.Number, err)
	}
	doc.cache[ref.Number] = obj
	return obj, nil
}

// compressedObject reads an object stored inside an object stream.
func (doc *Document) compressedObject(num int, e xrefEntry) (*Object, error) {
	if e.stream == num {
		return nil, errors.New("object stream contains itself")
	}
	container, err := doc.ResolveRef(Reference{Number: e.stream})
	if err != nil {
		return nil, err
	}
	if container.Kind != Stream {
		return nil, fmt.Errorf("object stream %d is not a stream", e.stream)
	}
	data, err := Decode(container.Dict, container.Stream)
	if err != nil {
		return nil, err
	}

	n, _ := container.Dict.Int("N")
	first, _ := container.Dict.Int("First")
	p := newParser(data, 0)
	offset := -1
	for i := 0; i < int(n); i++ {
		p.skip()
		id, _ := strconv.Atoi(p.token())
		p.skip()
		off, _ := strconv.Atoi(p.token())
		if id == num || (offset < 0 && i == e.index) {
			offset = off
		}
	}
	if offset < 0 || int(first)+offset > len(data) {
		return nil, fmt.Errorf("object %d not in stream %d", num, e.stream)
	}
	return newParser(data, int(first)+offset).object()
}

// Resolve follows obj when it is a reference.
func (doc *Document) Resolve(obj *Object) (*Object, error) {
	if obj == nil {
		return null, nil
	}
	if obj.Kind != Ref {
		return obj, nil
	}
	return doc.ResolveRef(obj.Ref)
}

// resolveDict resolves obj and returns its dictionary, or nil.
func (doc *Document) resolveDict(obj *Object) Dict {
	r, err := doc.Resolve(obj)
	if err != nil || (r.Kind != Dictionary && r.Kind != Stream) {
		return nil
	}
	return r.Dict
}

// Catalog returns the document catalog.
func (doc *Document) Catalog() (Dict, error) {
	root := doc.resolveDict(doc.trailer["Root"])
	if root == nil {
		return nil, errors.New("trailer has no /Root dictionary")
	}
	return root, nil
}

// inheritable lists the page attributes a page takes from its ancestors when
// it does not set them itself.
var inheritable = []string{"MediaBox", "CropBox", "Resources", "Rotate"}

// Pages returns every leaf page in document order. Inherited attributes are
// copied into each returned dictionary.
func (doc *Document) Pages() ([]Dict, error) {
	cat, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	root := doc.resolveDict(cat["Pages"])
	if root == nil {
		return nil, errors.New("catalog has no /Pages tree")
	}
	var pages []Dict
	doc.collectPages(root, Dict{}, map[*Object]bool{}, &pages)
	return pages, nil
}

func (doc *Document) collectPages(node, inherited Dict, visited map[*Object]bool, pages *[]Dict) {
	attrs := make(Dict, len(inheritable))
	for _, k := range inheritable {
		if v, ok := node[k]; ok {
			attrs[k] = v
		} else if v, ok := inherited[k]; ok {
			attrs[k] = v
		}
	}

	if t, _ := node.Name("Type"); t == "Page" {
		page := make(Dict, len(node)+len(attrs))
		for k, v := range node {
			page[k] = v
		}
		for k, v := range attrs {
			page[k] = v
		}
		*pages = append(*pages, page)
		return
	}

	kids, err := doc.Resolve(node["Kids"])
	if err != nil || kids.Kind != Array {
		return
	}
	for _, ref := range kids.Array {
		kid, err := doc.Resolve(ref)
		if err != nil || visited[kid] {
			continue
		}
		visited[kid] = true
		if kid.Kind == Dictionary {
			doc.collectPages(kid.Dict, attrs, visited, pages)
		}
	}
}

// PageInfo holds the geometry of a page in PDF points.
type PageInfo struct {
	Width    float64
	Height   float64
	Rotation int
}

// GetPageInfo returns the MediaBox size and rotation of a page.
func (doc *Document) GetPageInfo(page Dict) PageInfo {
	var info PageInfo
	if mb, err := doc.Resolve(page["MediaBox"]); err == nil && mb.Kind == Array && len(mb.Array) >= 4 {
		info.Width = mb.Array[2].Number() - mb.Array[0].Number()
		info.Height = mb.Array[3].Number() - mb.Array[1].Number()
	}
	if rot, err := doc.Resolve(page["Rotate"]); err == nil && rot.Kind == Int {
		info.Rotation = int(rot.Int)
	}
	return info
}

// PageImages returns the resource names of the image XObjects available to
// a page, sorted by name.
func (doc *Document) PageImages(page Dict) []string {
	res := doc.resolveDict(page["Resources"])
	if res == nil {
		return nil
	}
	xobjects := doc.resolveDict(res["XObject"])
	var names []string
	for name, ref := range xobjects {
		x, err := doc.Resolve(ref)
		if err != nil || x.Kind != Stream {
			continue
		}
		if sub, _ := x.Dict.Name("Subtype"); sub == "Image" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// PageContents returns the decoded content streams of a page concatenated.
func (doc *Document) PageContents(page Dict) ([]byte, error) {
	contents, err := doc.Resolve(page["Contents"])
	if err != nil {
		return nil, err
	}
	streams := []*Object{contents}
	if contents.Kind == Array {
		streams = contents.Array
	}
	var out []byte
	for _, s := range streams {
		obj, err := doc.Resolve(s)
		if err != nil || obj.Kind != Stream {
			continue
		}
		data, err := Decode(obj.Dict, obj.Stream)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
		out = append(out, '\n')
	}
	return out, nil
}
