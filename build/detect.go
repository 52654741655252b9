package build

import (
	"path"
	"strings"

	"github.com/h2non/filetype"
)

type docKind int

const (
	kindOther docKind = iota
	kindXHTML
	kindYAML
)

// kindOf recognizes content documents by name. Content documents are
// always read as XML so plain HTML files have to be well formed.
func kindOf(name string) docKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".html", ".htm":
		return kindXHTML
	case ".yaml", ".yml":
		return kindYAML
	}
	return kindOther
}

// isArchiveFile checks file signature, EPUB books and plain zip archives
// are supported.
func isArchiveFile(name string) (bool, error) {
	kind, err := filetype.MatchFile(name)
	if err != nil {
		return false, err
	}
	switch kind.Extension {
	case "zip", "epub":
		return true, nil
	}
	return false, nil
}
