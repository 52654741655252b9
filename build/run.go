// Package build implements table of contents generation pipeline: it
// collects entries from content documents and writes navigation document.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"tocgen/archive"
	"tocgen/common"
	"tocgen/navdoc"
	"tocgen/outline"
	"tocgen/state"
	"tocgen/toc"
	"tocgen/utils/debug"
)

// StdoutName is destination name requesting output to standard output.
const StdoutName = "-"

// stdout is where results go when requested, replaced in tests.
var stdout io.Writer = os.Stdout

// book is table of contents collected from a single source.
type book struct {
	// src is source path, used to name output
	src      string
	title    string
	language string
	toc      *toc.Toc
	// docs is number of documents successfully read
	docs int
}

// Run is action for build command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	toDir := len(dst) == 0 || strings.HasSuffix(dst, string(filepath.Separator)) || strings.HasSuffix(dst, "/")
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != StdoutName {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format = env.Cfg.Document.Format
	if cmd.IsSet("to") {
		if env.Format, err = common.ParseOutputFmt(cmd.String("to")); err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Document.Format))
			env.Format = env.Cfg.Document.Format
		}
	}
	env.Numbered = cmd.Bool("numbered") || env.Cfg.Document.ListStyle.Numbered()
	env.AssignIDs = cmd.Bool("assign-ids") || env.Cfg.Document.Headings.AssignIDs
	env.Overwrite = cmd.Bool("overwrite")
	setCodePage(env, cmd.String("force-zip-cp"), log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, toDir, log)
}

// Dump is action for dump command, it prints collected tree instead of
// rendering it.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	env.AssignIDs = false
	setCodePage(env, cmd.String("force-zip-cp"), log)

	b, err := collect(ctx, src, log)
	if err != nil {
		return err
	}

	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "source", b.src)
	tw.TextBlock(0, "title", b.title)
	tw.Line(0, "documents: %d", b.docs)
	tw.Toc(b.toc)
	_, err = io.WriteString(stdout, tw.String())
	return err
}

func sourceArg(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no input source has been specified")
	}
	return filepath.Abs(src)
}

// Since zip "standard" does not define file name encoding we may need to
// force archaic code page for old archives
func setCodePage(env *state.LocalEnv, cp string, log *zap.Logger) {
	if len(cp) == 0 {
		return
	}
	var err error
	env.CodePage, err = ianaindex.IANA.Encoding(cp)
	if err != nil || env.CodePage == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		env.CodePage = nil
		return
	}
	n, _ := ianaindex.IANA.Name(env.CodePage)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
}

// process collects table of contents from src and writes resulting document
// to dst.
func process(ctx context.Context, src, dst string, toDir bool, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	b, err := collect(ctx, src, log)
	if err != nil {
		return err
	}

	if b.toc.IsEmpty() && env.Cfg.Document.SkipEmpty {
		log.Warn("Table of contents is empty, nothing to write", zap.String("source", src), zap.Int("entries", b.toc.Len()))
		return nil
	}

	data, err := render(b, env)
	if err != nil {
		return fmt.Errorf("unable to render %s: %w", env.Format, err)
	}
	return write(b, data, dst, toDir, env, log)
}

// collect determines the input type (directory, archive, path inside
// archive or single file) and reads all content documents it refers to.
func collect(ctx context.Context, src string, log *zap.Logger) (*book, error) {
	env := state.EnvFromContext(ctx)

	var (
		sources   []source
		inArchive bool
	)

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if sources, err = dirSources(head, log); err != nil {
				return nil, fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			a, err := archive.Open(head, env.CodePage)
			if err != nil {
				return nil, fmt.Errorf("unable to process archive: %w", err)
			}
			defer a.Close()

			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if sources, err = archiveSources(a, filepath.ToSlash(tail), log); err != nil {
				return nil, fmt.Errorf("unable to process archive: %w", err)
			}
			inArchive = true
			break
		}

		if len(tail) != 0 || kindOf(head) == kindOther {
			return nil, fmt.Errorf("input was not recognized as content document (%s)", head)
		}
		sources = []source{fileSource(head, filepath.Base(head))}
		break
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("input source was not found (%s)", src)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no content documents found (%s)", src)
	}

	opts := outline.Options{
		MinRank:       env.Cfg.Document.Headings.Min,
		MaxRank:       env.Cfg.Document.Headings.Max,
		FirstLevel:    env.Cfg.Document.Headings.FirstLevel,
		AssignIDs:     env.AssignIDs,
		TitleFallback: env.Cfg.Document.Headings.TitleFallback,
	}
	if inArchive && opts.AssignIDs {
		log.Warn("Heading ids cannot be stored inside archive, headings without ids will be skipped", zap.String("archive", head))
		opts.AssignIDs = false
	}

	b := &book{
		src:      src,
		title:    env.Cfg.Document.Title,
		language: env.Cfg.Document.Language,
		toc:      toc.New(),
	}
	if len(b.title) == 0 {
		b.title = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}

	var errs error
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := load(s, opts, log)
		if err != nil {
			log.Error("Unable to process document", zap.String("href", s.href), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		b.docs++
		for _, e := range entries {
			b.toc.Add(e)
		}
	}
	if b.docs == 0 {
		return nil, fmt.Errorf("unable to read any content document: %w", errs)
	}
	if errs != nil {
		log.Warn("Some documents were skipped", zap.Int("failed", len(multierr.Errors(errs))), zap.Int("read", b.docs))
	}
	log.Debug("Table of contents collected", zap.Int("documents", b.docs), zap.Int("entries", b.toc.Len()), zap.Int("depth", b.toc.Depth()))
	return b, nil
}

// load reads toc entries from a single document. Documents on disk which got
// new heading ids are written back.
func load(s source, opts outline.Options, log *zap.Logger) ([]*toc.Entry, error) {
	r, err := s.open()
	if err != nil {
		return nil, err
	}

	if s.kind == kindYAML {
		defer r.Close()
		entries, err := outline.FromYAML(r)
		if err != nil {
			return nil, fmt.Errorf("unable to read outline (%s): %w", s.href, err)
		}
		return entries, nil
	}

	d, err := outline.FromXHTML(r, s.href, opts, log)
	r.Close()
	if err != nil {
		return nil, err
	}
	if d.Modified && len(s.file) > 0 {
		if err := store(d, s.file); err != nil {
			return nil, fmt.Errorf("unable to store heading ids (%s): %w", s.file, err)
		}
		log.Info("Heading ids added", zap.String("file", s.file))
	}
	return d.Entries, nil
}

// store replaces document on disk. New content goes to a temporary file in the
// same directory first, so original is never left truncated.
func store(d *outline.Document, name string) (err error) {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, os.Remove(f.Name()))
		}
	}()

	if _, err = d.WriteTo(f); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(f.Name(), name)
}

func render(b *book, env *state.LocalEnv) ([]byte, error) {
	meta := navdoc.Meta{
		UID:      env.Cfg.Document.UID,
		Title:    b.title,
		Heading:  env.Cfg.Document.Heading,
		Language: b.language,
	}
	switch env.Format {
	case common.OutputFmtNcx:
		return navdoc.NCX(b.toc, meta)
	case common.OutputFmtNav:
		return navdoc.Nav(b.toc, meta)
	case common.OutputFmtPage:
		return navdoc.Page(b.toc, meta, env.Numbered)
	case common.OutputFmtFragment:
		return []byte(b.toc.Render(env.Numbered)), nil
	}
	return nil, fmt.Errorf("unsupported output format %d", env.Format)
}

func write(b *book, data []byte, dst string, toDir bool, env *state.LocalEnv, log *zap.Logger) error {
	if dst == StdoutName {
		_, err := stdout.Write(data)
		return err
	}

	outputName := buildOutputPath(b, dst, toDir, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Info("Table of contents written", zap.String("to", outputName), zap.Int("entries", b.toc.Len()))
	return nil
}
