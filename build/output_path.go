package build

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"tocgen/config"
	"tocgen/state"
)

// buildOutputPath returns output file name. When dst is not a directory it
// is used as is. Otherwise file name is either derived from the source name
// or produced by user-defined template, which may also introduce
// subdirectories.
func buildOutputPath(b *book, dst string, toDir bool, env *state.LocalEnv) string {
	if !toDir {
		if fi, err := os.Stat(dst); err != nil || !fi.IsDir() {
			return dst
		}
	}

	defaultFile := buildDefaultFileName(b.src, env)
	if env.Cfg.Document.OutputNameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expandedName := expandOutputNameTemplate(b, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(dst, defaultFile)
	}
	return assemblePathWithSubdirs(dst, expandedName, env)
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	baseName := slug.Make(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	if baseName == "" {
		baseName = "toc"
	}
	return config.CleanFileName(baseName) + env.Format.Ext()
}

func expandOutputNameTemplate(b *book, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(b, config.OutputNameTemplateFieldName, env.Cfg.Document.OutputNameTemplate, env.Format)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output
// path, cleaning segments as needed.
func assemblePathWithSubdirs(outDir, expandedName string, env *state.LocalEnv) string {
	pathSegments := splitPath(expandedName)
	if len(pathSegments) == 0 {
		return filepath.Join(outDir, buildDefaultFileName("", env))
	}

	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, config.CleanFileName(segment))
	}
	dirParts = append(dirParts, config.CleanFileName(pathSegments[len(pathSegments)-1])+env.Format.Ext())
	return filepath.Join(dirParts...)
}

// splitPath breaks path into segments dropping empty ones and those
// pointing up or to the current directory, template cannot escape output
// directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(path); ; head, tail = filepath.Split(head) {
		if tail != "" && tail != "." && tail != ".." {
			segments = slices.Insert(segments, 0, tail)
		}
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" || head == path {
			break
		}
		path = head
	}
	return segments
}
