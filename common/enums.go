// Package common keeps enumerations shared by configuration and command line
// processing.
package common

//go:generate go tool go-enum --marshal --names

// Specification of requested output document.
// ENUM(ncx, nav, page, fragment)
type OutputFmt int

// Ext returns file name extension for the output document.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtNcx:
		return ".ncx"
	case OutputFmtNav, OutputFmtPage:
		return ".xhtml"
	case OutputFmtFragment:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Specification of list markup used for contents page.
// ENUM(unordered, ordered)
type ListStyle int

// Numbered reports if ordered list markup should be used.
func (l ListStyle) Numbered() bool {
	return l == ListStyleOrdered
}
