package outline

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"golang.org/x/net/html/charset"
)

// ContainerPath is location of OCF container document inside EPUB.
const ContainerPath = "META-INF/container.xml"

// SortNatural orders content document names so that numbered files follow
// their numbers: ch2.xhtml goes before ch10.xhtml.
func SortNatural(names []string) {
	sort.Sort(natural.StringSlice(names))
}

func readXML(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, err
	}
	return doc, nil
}

// RootFile returns path of the package document from OCF container.
func RootFile(r io.Reader) (string, error) {
	doc, err := readXML(r)
	if err != nil {
		return "", fmt.Errorf("unable to read container: %w", err)
	}
	for _, rf := range doc.FindElements("//rootfiles/rootfile") {
		if mt := rf.SelectAttrValue("media-type", ""); mt != "" && mt != "application/oebps-package+xml" {
			continue
		}
		if p := rf.SelectAttrValue("full-path", ""); len(p) > 0 {
			return p, nil
		}
	}
	return "", errors.New("container has no package document")
}

// Spine returns content documents of the package in reading order. Paths are
// resolved against base - directory of the package document.
func Spine(r io.Reader, base string) ([]string, error) {
	doc, err := readXML(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read package document: %w", err)
	}

	items := make(map[string]string)
	for _, item := range doc.FindElements("//manifest/item") {
		switch item.SelectAttrValue("media-type", "") {
		case "application/xhtml+xml", "text/html":
		default:
			continue
		}
		items[item.SelectAttrValue("id", "")] = item.SelectAttrValue("href", "")
	}

	spine := doc.FindElement("//spine")
	if spine == nil {
		return nil, errors.New("package document has no spine")
	}

	var docs []string
	for _, ref := range spine.SelectElements("itemref") {
		href, ok := items[ref.SelectAttrValue("idref", "")]
		if !ok || len(href) == 0 {
			continue
		}
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}
		docs = append(docs, path.Join(base, href))
	}
	return docs, nil
}
