package build

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tocgen/archive"
	"tocgen/outline"
)

// source is a single content document toc entries are collected from.
type source struct {
	// href is document location relative to the navigation document, base
	// of all links produced from it
	href string
	// file is document path on disk, empty for documents inside archives
	file string
	kind docKind
	open func() (io.ReadCloser, error)
}

func fileSource(file, href string) source {
	return source{
		href: href,
		file: file,
		kind: kindOf(file),
		open: func() (io.ReadCloser, error) { return os.Open(file) },
	}
}

// dirSources finds all XHTML documents under dir (symbolic links are not
// followed) in natural order of their relative paths.
func dirSources(dir string, log *zap.Logger) ([]source, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if kindOf(p) != kindXHTML {
			log.Debug("Skipping file, not recognized as content document", zap.String("file", p))
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	outline.SortNatural(names)

	sources := make([]source, 0, len(names))
	for _, name := range names {
		sources = append(sources, fileSource(filepath.Join(dir, filepath.FromSlash(name)), name))
	}
	return sources, nil
}

// archiveSources lists content documents inside archive with path starting
// with prefix. When archive is EPUB book documents come in spine order and
// links are relative to the package document, otherwise all XHTML files are
// taken in natural order.
func archiveSources(a *archive.Archive, prefix string, log *zap.Logger) ([]source, error) {
	names, base := spineOrder(a, log)
	if names == nil {
		err := a.Walk("", func(name string, _ *zip.File) error {
			if kindOf(name) == kindXHTML {
				names = append(names, name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		outline.SortNatural(names)
	}

	sources := make([]source, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		href, err := relativeHref(base, name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{
			href: href,
			kind: kindXHTML,
			open: func() (io.ReadCloser, error) { return a.Open(name) },
		})
	}
	return sources, nil
}

// relativeHref returns link to archive file name from directory base, both
// are slash separated archive paths.
func relativeHref(base, name string) (string, error) {
	if len(base) == 0 {
		return name, nil
	}
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(name))
	if err != nil {
		return "", fmt.Errorf("unable to make %q relative to %q: %w", name, base, err)
	}
	return filepath.ToSlash(rel), nil
}

// spineOrder returns reading order of EPUB content documents and directory
// of the package document, nil when archive is not a valid EPUB.
func spineOrder(a *archive.Archive, log *zap.Logger) ([]string, string) {
	rc, err := a.Open(outline.ContainerPath)
	if err != nil {
		log.Debug("No container, archive is not EPUB", zap.String("archive", a.Path))
		return nil, ""
	}
	opf, err := outline.RootFile(rc)
	rc.Close()
	if err != nil {
		log.Warn("Unable to locate package document, using natural order", zap.String("archive", a.Path), zap.Error(err))
		return nil, ""
	}

	rc, err = a.Open(opf)
	if err != nil {
		log.Warn("Unable to open package document, using natural order", zap.String("archive", a.Path), zap.Error(err))
		return nil, ""
	}
	defer rc.Close()

	base := path.Dir(opf)
	if base == "." {
		base = ""
	}
	names, err := outline.Spine(rc, base)
	if err != nil {
		log.Warn("Unable to read spine, using natural order", zap.String("archive", a.Path), zap.Error(err))
		return nil, ""
	}
	return names, base
}
