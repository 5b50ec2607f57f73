package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

type Engine interface {
	Execute(name string, data any) (string, error)
}

type TextTemplateEngine struct {
	templates *template.Template
	funcs     template.FuncMap
	embedded  embed.FS
	customDir string
}

// NewEngine loads every .tmpl file from the embedded set, then overlays
// any custom directory so users can replace individual templates.
func NewEngine(embedded embed.FS, customDir string, funcs template.FuncMap) (*TextTemplateEngine, error) {
	e := &TextTemplateEngine{
		embedded:  embedded,
		customDir: customDir,
		funcs:     funcs,
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *TextTemplateEngine) load() error {
	e.templates = template.New("").Funcs(e.funcs)

	if err := fs.WalkDir(e.embedded, ".", e.parseEntry(e.embedded.ReadFile)); err != nil {
		return fmt.Errorf("loading embedded templates: %w", err)
	}

	if e.customDir == "" {
		return nil
	}
	err := filepath.WalkDir(e.customDir, e.parseEntry(os.ReadFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading custom templates: %w", err)
	}
	return nil
}

// parseEntry builds the walk callback shared by the embedded set and the
// custom overlay; only the file reader differs. Templates register under
// their base name, so a custom file shadows the embedded one.
func (e *TextTemplateEngine) parseEntry(read func(string) ([]byte, error)) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := read(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}
		if _, err := e.templates.New(filepath.Base(path)).Parse(string(content)); err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}
		return nil
	}
}

func (e *TextTemplateEngine) Execute(name string, data any) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.String(), nil
}
