package build

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"tocgen/common"
	"tocgen/config"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context    string
	Title      string
	Language   string
	Format     string
	SourceFile string
	Entries    int
	Depth      int
}

func expandTemplate(b *book, name config.TemplateFieldName, field string, format common.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:    string(name),
		Title:      b.title,
		Language:   b.language,
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(b.src), filepath.Ext(b.src)),
		Entries:    b.toc.Len(),
		Depth:      b.toc.Depth(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
