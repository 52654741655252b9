// Package outline extracts table of contents entries from content documents.
package outline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"tocgen/toc"
)

// Options control heading extraction.
type Options struct {
	// MinRank and MaxRank limit heading elements to use, h{MinRank}..h{MaxRank}.
	MinRank, MaxRank int
	// FirstLevel is toc level of h{MinRank} headings.
	FirstLevel int
	// AssignIDs requests generation of missing heading ids.
	AssignIDs bool
	// TitleFallback makes document title a single entry when document has
	// no headings.
	TitleFallback bool
}

// Document is parsed content document and entries found in it.
type Document struct {
	Href    string
	Entries []*toc.Entry
	// Modified is set when ids were added to the document.
	Modified bool

	doc *etree.Document
	ids map[string]struct{}
}

// Most frequent HTML named character references, content documents produced
// by various tools often use them without DTD.
var entityNames = []string{
	"nbsp", "shy", "ndash", "mdash", "hellip", "laquo", "raquo", "lsquo",
	"rsquo", "sbquo", "ldquo", "rdquo", "bdquo", "copy", "reg", "trade",
	"deg", "middot", "bull", "sect", "para", "times", "divide", "plusmn",
	"frac12", "frac14", "frac34", "sup1", "sup2", "sup3", "iexcl", "iquest",
	"thinsp", "ensp", "emsp", "zwnj", "zwj", "lrm", "rlm", "dagger", "Dagger",
	"euro", "pound", "yen", "cent", "prime", "Prime", "larr", "rarr", "uarr",
	"darr", "harr", "minus", "lsaquo", "rsaquo", "acute", "uml", "cedil",
}

func prepareHTMLNamedEntities() map[string]string {
	entities := make(map[string]string, len(entityNames))
	for _, name := range entityNames {
		if s := html.UnescapeString("&" + name + ";"); s != "&"+name+";" {
			entities[name] = s
		}
	}
	return entities
}

var htmlEntities = prepareHTMLNamedEntities()

// FromXHTML parses XHTML content document and collects toc entries for its
// headings. Href is used to build entry links.
func FromXHTML(r io.Reader, href string, opts Options, log *zap.Logger) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        htmlEntities,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read XHTML document %q: %w", href, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document %q has no root element", href)
	}

	d := &Document{
		Href: href,
		doc:  doc,
		ids:  make(map[string]struct{}),
	}
	for _, el := range doc.FindElements("//*[@id]") {
		d.ids[el.SelectAttrValue("id", "")] = struct{}{}
	}

	d.collect(doc.Root(), opts, log)

	if len(d.Entries) == 0 && opts.TitleFallback {
		if title := doc.FindElement("//head/title"); title != nil {
			if text := headingText(title); len(text) > 0 {
				d.Entries = append(d.Entries, toc.NewEntry(href, text).SetLevel(opts.FirstLevel))
			}
		}
	}
	return d, nil
}

// WriteTo serializes document, used to store generated ids. Document text
// was decoded when read, so output is always UTF-8 and encoding declarations
// are updated to say so.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.declareUTF8()
	return d.doc.WriteTo(w)
}

func (d *Document) declareUTF8() {
	for _, tok := range d.doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = `version="1.0" encoding="UTF-8"`
		}
	}
	for _, meta := range d.doc.FindElements("//head/meta") {
		switch {
		case meta.SelectAttr("charset") != nil:
			meta.CreateAttr("charset", "UTF-8")
		case strings.EqualFold(meta.SelectAttrValue("http-equiv", ""), "content-type"):
			media, _, _ := strings.Cut(meta.SelectAttrValue("content", ""), ";")
			if media = strings.TrimSpace(media); len(media) == 0 {
				media = "text/html"
			}
			meta.CreateAttr("content", media+"; charset=UTF-8")
		}
	}
}

func headingRank(el *etree.Element) int {
	tag := strings.ToLower(el.Tag)
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

func (d *Document) collect(parent *etree.Element, opts Options, log *zap.Logger) {
	for _, el := range parent.ChildElements() {
		switch {
		case strings.EqualFold(el.Tag, "nav"), strings.EqualFold(el.Tag, "head"):
			// existing navigation and document metadata are never part of toc
			continue
		case headingRank(el) > 0:
			rank := headingRank(el)
			if rank < opts.MinRank || rank > opts.MaxRank {
				continue
			}
			if e := d.entryFor(el, rank, opts, log); e != nil {
				d.Entries = append(d.Entries, e)
			}
		default:
			d.collect(el, opts, log)
		}
	}
}

func (d *Document) entryFor(el *etree.Element, rank int, opts Options, log *zap.Logger) *toc.Entry {
	title := headingText(el)
	level := rank - opts.MinRank + opts.FirstLevel

	id := headingID(el)
	switch {
	case len(id) > 0:
	case opts.AssignIDs:
		id = d.newID(title)
		el.CreateAttr("id", id)
		d.Modified = true
	case len(d.Entries) == 0:
		// first heading could be reached by the document itself
		return toc.NewEntry(d.Href, title).SetLevel(level)
	default:
		log.Debug("Skipping heading without id", zap.String("href", d.Href), zap.String("title", title))
		return nil
	}
	return toc.NewEntry(d.Href+"#"+id, title).SetLevel(level)
}

// headingID returns heading id or, when heading opens section, id of that
// section.
func headingID(el *etree.Element) string {
	if id := el.SelectAttrValue("id", ""); len(id) > 0 {
		return id
	}
	parent := el.Parent()
	if parent == nil || !strings.EqualFold(parent.Tag, "section") {
		return ""
	}
	if children := parent.ChildElements(); len(children) > 0 && children[0] == el {
		return parent.SelectAttrValue("id", "")
	}
	return ""
}

// newID generates unique document id from heading title.
func (d *Document) newID(title string) string {
	base := slug.Make(title)
	if len(base) == 0 {
		base = "toc"
	} else if base[0] >= '0' && base[0] <= '9' {
		// XML names cannot start with digit
		base = "h-" + base
	}
	id := base
	for n := 2; ; n++ {
		if _, ok := d.ids[id]; !ok {
			break
		}
		id = base + "-" + strconv.Itoa(n)
	}
	d.ids[id] = struct{}{}
	return id
}

func isNoteRef(el *etree.Element) bool {
	if !strings.EqualFold(el.Tag, "a") {
		return false
	}
	for _, v := range []string{el.SelectAttrValue("epub:type", ""), el.SelectAttrValue("class", "")} {
		if strings.Contains(v, "noteref") {
			return true
		}
	}
	return false
}

// headingText flattens element content into single line of text.
func headingText(el *etree.Element) string {
	var b strings.Builder
	appendText(&b, el)
	return norm.NFC.String(strings.Join(strings.FieldsFunc(b.String(), isXMLSpace), " "))
}

// isXMLSpace reports XML white space characters. Other Unicode spaces (no-break
// space in particular) belong to the title and are kept.
func isXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func appendText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			switch {
			case isNoteRef(t):
				// footnote markers are not part of the title
			case strings.EqualFold(t.Tag, "br"):
				b.WriteByte(' ')
			case strings.EqualFold(t.Tag, "img"):
				b.WriteString(t.SelectAttrValue("alt", ""))
			default:
				appendText(b, t)
			}
		}
	}
}
