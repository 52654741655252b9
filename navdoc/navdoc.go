// Package navdoc assembles complete navigation documents around rendered
// table of contents: NCX for EPUB2, navigation document for EPUB3 and
// contents page.
package navdoc

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"tocgen/toc"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("navdoc").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.tmpl"))

func funcMap() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["escape"] = toc.EscapeText
	funcs["attr"] = html.EscapeString
	return funcs
}

// Meta describes navigation document.
type Meta struct {
	// UID is NCX dtb:uid, must match package unique identifier. New
	// urn:uuid is generated when empty.
	UID string
	// Title of the book, docTitle for NCX.
	Title string
	// Heading is shown above the list in XHTML documents.
	Heading string
	// Language is BCP 47 tag, may be empty.
	Language string
}

// values is what templates see.
type values struct {
	Meta
	Depth int
	Body  string
}

func (m Meta) prepare() (Meta, error) {
	if len(m.Language) > 0 {
		tag, err := language.Parse(m.Language)
		if err != nil {
			return m, fmt.Errorf("bad language %q: %w", m.Language, err)
		}
		m.Language = tag.String()
	}
	return m, nil
}

func execute(name string, v values) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := templates.ExecuteTemplate(buf, name, v); err != nil {
		return nil, fmt.Errorf("unable to expand %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// NCX returns toc.ncx document with navMap built from t.
func NCX(t *toc.Toc, m Meta) ([]byte, error) {
	m, err := m.prepare()
	if err != nil {
		return nil, err
	}
	if len(m.UID) == 0 {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("unable to generate uid: %w", err)
		}
		m.UID = id.URN()
	}
	return execute("ncx.tmpl", values{Meta: m, Depth: max(1, t.Depth()), Body: t.RenderEPUB()})
}

// Nav returns EPUB3 navigation document. EPUB3 requires ordered list here,
// so list is always numbered.
func Nav(t *toc.Toc, m Meta) ([]byte, error) {
	m, err := m.prepare()
	if err != nil {
		return nil, err
	}
	return execute("nav.tmpl", values{Meta: m, Depth: t.Depth(), Body: t.Render(true)})
}

// Page returns XHTML contents page to be included into book text.
func Page(t *toc.Toc, m Meta, numbered bool) ([]byte, error) {
	m, err := m.prepare()
	if err != nil {
		return nil, err
	}
	return execute("page.tmpl", values{Meta: m, Depth: t.Depth(), Body: t.Render(numbered)})
}
