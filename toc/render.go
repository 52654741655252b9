package toc

import (
	"strconv"
	"strings"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText prepares text for inclusion into markup as element content.
// Quotes are left alone - result is not safe for attribute values.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func listTag(numbered bool) string {
	if numbered {
		return "ol"
	}
	return "ul"
}

// Render returns toc as a list, <ol> when numbered, <ul> otherwise.
func (t *Toc) Render(numbered bool) string {
	tag := listTag(numbered)

	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	for _, e := range t.Elements {
		e.renderList(&b, tag)
	}
	b.WriteString("\n</" + tag + ">\n")
	return b.String()
}

// RenderEPUB returns toc as a sequence of NCX navPoint elements suitable
// for navMap. Entries are numbered in document order starting with 1.
func (t *Toc) RenderEPUB() string {
	var (
		b      strings.Builder
		offset int
	)
	for _, e := range t.Elements {
		offset = e.renderNavPoint(&b, offset)
	}
	return b.String()
}

// Render returns entry as a list item with nested list of its children.
//
// NOTE: entry with empty title renders as empty string together with all its
// children. This is how it always worked and some books depend on it to hide
// auxiliary entries from contents page while keeping them in navigation map.
func (e *Entry) Render(numbered bool) string {
	var b strings.Builder
	e.renderList(&b, listTag(numbered))
	return b.String()
}

func (e *Entry) renderList(b *strings.Builder, tag string) {
	if len(e.Title) == 0 {
		return
	}
	b.WriteString(`<li><a href="`)
	b.WriteString(e.Link)
	b.WriteString(`">`)
	b.WriteString(EscapeText(e.Title))
	b.WriteString("</a>")
	if len(e.Children) > 0 {
		b.WriteString("\n<" + tag + ">")
		for _, child := range e.Children {
			child.renderList(b, tag)
		}
		b.WriteString("\n</" + tag + ">\n")
	}
	b.WriteString("</li>\n")
}

// RenderEPUB returns entry as NCX navPoint with nested navPoints for its
// children. Offset is the last id used before this entry, returned value is
// the last id used by this entry subtree. Unlike Render empty titles are
// not suppressed.
func (e *Entry) RenderEPUB(offset int) (int, string) {
	var b strings.Builder
	offset = e.renderNavPoint(&b, offset)
	return offset, b.String()
}

func (e *Entry) renderNavPoint(b *strings.Builder, offset int) int {
	offset++
	id := offset

	b.WriteString("\n<navPoint id=\"navPoint-")
	b.WriteString(strconv.Itoa(id))
	b.WriteString("\">\n  <navLabel>\n   <text>")
	b.WriteString(strings.TrimSpace(EscapeText(e.Title)))
	b.WriteString("</text>\n  </navLabel>\n  <content src=\"")
	b.WriteString(e.Link)
	b.WriteString("\" />\n")
	for _, child := range e.Children {
		offset = child.renderNavPoint(b, offset)
	}
	b.WriteString("\n</navPoint>")
	return offset
}
