package navdoc

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"tocgen/toc"
)

func sampleToc() *toc.Toc {
	return toc.New().
		Add(toc.NewEntry("intro.xhtml", "Introduction")).
		Add(toc.NewEntry("ch1.xhtml", "Chapter 1").
			Child(toc.NewEntry("ch1.xhtml#s1", "1.1: Some section")).
			Child(toc.NewEntry("ch1.xhtml#s2", "1.2: Another section"))).
		Add(toc.NewEntry("ch1.xhtml#s3", "1.3: D&D <section>").SetLevel(2))
}

func parse(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("document is not well formed: %v\n%s", err, data)
	}
	return doc
}

func TestNCX(t *testing.T) {
	data, err := NCX(sampleToc(), Meta{UID: "urn:isbn:123", Title: "Tom & Jerry", Language: "en-us"})
	if err != nil {
		t.Fatalf("NCX() error = %v", err)
	}
	doc := parse(t, data)

	root := doc.Root()
	if root.Tag != "ncx" || root.SelectAttrValue("xml:lang", "") != "en-US" {
		t.Errorf("unexpected root %s lang=%q", root.Tag, root.SelectAttrValue("xml:lang", ""))
	}

	metas := map[string]string{}
	for _, m := range doc.FindElements("//head/meta") {
		metas[m.SelectAttrValue("name", "")] = m.SelectAttrValue("content", "")
	}
	if metas["dtb:uid"] != "urn:isbn:123" {
		t.Errorf("dtb:uid = %q", metas["dtb:uid"])
	}
	if metas["dtb:depth"] != "2" {
		t.Errorf("dtb:depth = %q, want 2", metas["dtb:depth"])
	}
	if title := doc.FindElement("//docTitle/text"); title == nil || title.Text() != "Tom & Jerry" {
		t.Errorf("docTitle is wrong: %v", title)
	}

	points := doc.FindElements("//navMap//navPoint")
	if len(points) != 5 {
		t.Fatalf("navPoints = %d, want 5", len(points))
	}
	for i, p := range points {
		if want := "navPoint-" + string(rune('1'+i)); p.SelectAttrValue("id", "") != want {
			t.Errorf("navPoint %d id = %q, want %q", i, p.SelectAttrValue("id", ""), want)
		}
	}
	if nested := doc.FindElements("//navMap/navPoint[2]/navPoint"); len(nested) != 3 {
		t.Errorf("chapter 1 children = %d, want 3", len(nested))
	}
	if last := points[4].FindElement("navLabel/text"); last.Text() != "1.3: D&D <section>" {
		t.Errorf("label = %q", last.Text())
	}
}

func TestNCX_GeneratedUID(t *testing.T) {
	first, err := NCX(toc.New(), Meta{})
	if err != nil {
		t.Fatalf("NCX() error = %v", err)
	}
	second, err := NCX(toc.New(), Meta{})
	if err != nil {
		t.Fatalf("NCX() error = %v", err)
	}

	uid := func(data []byte) string {
		return parse(t, data).FindElement("//meta[@name='dtb:uid']").SelectAttrValue("content", "")
	}
	if !strings.HasPrefix(uid(first), "urn:uuid:") {
		t.Errorf("uid = %q, want urn:uuid", uid(first))
	}
	if uid(first) == uid(second) {
		t.Error("generated uids must differ")
	}
	// empty toc still reports depth 1
	if d := parse(t, first).FindElement("//meta[@name='dtb:depth']").SelectAttrValue("content", ""); d != "1" {
		t.Errorf("dtb:depth = %q, want 1", d)
	}
}

func TestNav(t *testing.T) {
	data, err := Nav(sampleToc(), Meta{Title: "Book", Heading: "Contents", Language: "fr"})
	if err != nil {
		t.Fatalf("Nav() error = %v", err)
	}
	doc := parse(t, data)

	nav := doc.FindElement("//body/nav")
	if nav == nil || nav.SelectAttrValue("epub:type", "") != "toc" {
		t.Fatalf("nav element is missing:\n%s", data)
	}
	if h := nav.FindElement("h1"); h == nil || h.Text() != "Contents" {
		t.Errorf("heading is wrong")
	}
	if nav.FindElement("ol") == nil || nav.FindElement("ul") != nil {
		t.Error("navigation document must use ordered list")
	}
	if items := nav.FindElements(".//li"); len(items) != 5 {
		t.Errorf("list items = %d, want 5", len(items))
	}
	if title := doc.FindElement("//head/title"); title.Text() != "Book" {
		t.Errorf("title = %q", title.Text())
	}
}

func TestPage(t *testing.T) {
	for _, numbered := range []bool{false, true} {
		data, err := Page(sampleToc(), Meta{Heading: "Contents"}, numbered)
		if err != nil {
			t.Fatalf("Page() error = %v", err)
		}
		doc := parse(t, data)

		list := "ul"
		if numbered {
			list = "ol"
		}
		if doc.FindElement("//div[@id='toc']/"+list) == nil {
			t.Errorf("numbered=%v: %s list expected:\n%s", numbered, list, data)
		}
		// title falls back to heading
		if title := doc.FindElement("//head/title"); title.Text() != "Contents" {
			t.Errorf("title = %q", title.Text())
		}
		if doc.Root().SelectAttr("xml:lang") != nil {
			t.Error("language attribute must be omitted when not set")
		}
	}
}

func TestNav_HiddenChildren(t *testing.T) {
	tc := toc.New().
		Add(toc.NewEntry("cover.xhtml", "Cover").
			Child(toc.NewEntry("cover.xhtml#img", "")).
			Child(toc.NewEntry("cover.xhtml#alt", ""))).
		Add(toc.NewEntry("ch1.xhtml", "Chapter 1"))

	for name, render := range map[string]func() ([]byte, error){
		"nav":  func() ([]byte, error) { return Nav(tc, Meta{Heading: "Contents"}) },
		"page": func() ([]byte, error) { return Page(tc, Meta{Heading: "Contents"}, false) },
	} {
		t.Run(name, func(t *testing.T) {
			data, err := render()
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			doc := parse(t, data)

			if items := doc.FindElements("//li"); len(items) != 2 {
				t.Errorf("list items = %d, want 2:\n%s", len(items), data)
			}
			// hidden children leave an empty nested list behind
			first := doc.FindElement("//li")
			if nested := first.ChildElements(); len(nested) != 2 || len(nested[1].ChildElements()) != 0 {
				t.Errorf("unexpected first item:\n%s", data)
			}
		})
	}
}

func TestBadLanguage(t *testing.T) {
	if _, err := NCX(sampleToc(), Meta{Language: "not a language"}); err == nil {
		t.Error("NCX() expected error for bad language")
	}
	if _, err := Nav(sampleToc(), Meta{Language: "??"}); err == nil {
		t.Error("Nav() expected error for bad language")
	}
}
