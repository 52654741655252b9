// Package archive gives access to content documents inside zip containers
// (EPUB books or plain zip archives) built on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The name argument is the file path inside archive
// (decoded when archive uses legacy code page), file is zip.File structure
// for it. If an error is returned, processing stops.
type WalkFunc func(name string, file *zip.File) error

// Archive is opened zip container with verified entry names.
type Archive struct {
	Path string

	r     *zip.ReadCloser
	names []string
	files map[string]*zip.File
}

// Open opens zip archive. Since zip "standard" does not define file name
// encoding, names not flagged as UTF-8 are decoded with cp when it is not
// nil. Archives with entries having absolute paths or path traversal
// components ("..") are rejected to prevent Zip Slip attacks.
func Open(name string, cp encoding.Encoding) (*Archive, error) {
	r, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		Path:  name,
		r:     r,
		names: make([]string, 0, len(r.File)),
		files: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		fname := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			if n, err := cp.NewDecoder().String(fname); err == nil {
				fname = n
			}
		}
		if !isSafePath(fname) {
			r.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", fname)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		a.names = append(a.names, fname)
		a.files[fname] = f
	}
	return a, nil
}

// Close closes underlying zip reader.
func (a *Archive) Close() error {
	return a.r.Close()
}

// Names returns paths of all files in archive in directory order.
func (a *Archive) Names() []string {
	return a.names
}

// Open opens file by its path inside archive.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("file %q not found in archive %q", name, a.Path)
	}
	return f.Open()
}

// Walk walks all files in the archive with path starting with prefix,
// calling walkFn for each item.
func (a *Archive) Walk(prefix string, walkFn WalkFunc) error {
	for _, name := range a.names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(name, a.files[name]); err != nil {
			return err
		}
	}
	return nil
}

// Walk opens archive and walks its files with path starting with prefix.
func Walk(name, prefix string, cp encoding.Encoding, walkFn WalkFunc) error {
	a, err := Open(name, cp)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Walk(prefix, walkFn)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
