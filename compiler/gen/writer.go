package gen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// Header is the default comment at the top of generated files.
const Header = "Code generated by prismarest. DO NOT EDIT."

// HeaderComment returns the comment placed at the top of generated
// files.
func (c *Config) HeaderComment() string {
	if c.Header != "" {
		return c.Header
	}
	return Header
}

// JenFile creates a jennifer file for the configured package with the
// header comment applied.
func (c *Config) JenFile() *jen.File {
	f := jen.NewFile(c.Package)
	f.HeaderComment(c.HeaderComment())
	return f
}

// RenderJen renders a jennifer file into a generated file at path.
func RenderJen(path string, f *jen.File) (*File, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	return &File{Path: path, Buf: buf.Bytes()}, nil
}

// Funcs holds the naming helpers available to code templates.
var Funcs = template.FuncMap{
	"pascal":   pascal,
	"camel":    camel,
	"snake":    snake,
	"kebab":    kebab,
	"plural":   plural,
	"singular": singular,
	"receiver": receiver,
}

// A TemplateWriter renders text templates into formatted Go source
// files. The rendered output runs through goimports, which fixes the
// import block and rejects output the compiler would not accept.
type TemplateWriter struct {
	tmpl *template.Template
}

// NewTemplateWriter parses the template text with the naming helpers
// attached.
func NewTemplateWriter(name, text string) (*TemplateWriter, error) {
	tmpl, err := template.New(name).Funcs(Funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("prismarest: parse template %s: %w", name, err)
	}
	return &TemplateWriter{tmpl: tmpl}, nil
}

// MustTemplateWriter is like NewTemplateWriter but panics on a parse
// error. Intended for templates compiled into the binary.
func MustTemplateWriter(name, text string) *TemplateWriter {
	w, err := NewTemplateWriter(name, text)
	if err != nil {
		panic(err)
	}
	return w
}

// Render executes the template with the given data and formats the
// result, returning a file for the generator to write at path.
func (w *TemplateWriter) Render(path string, data any) (*File, error) {
	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s for %s: %w", w.tmpl.Name(), path, err)
	}
	src, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}
	return &File{Path: path, Buf: src}, nil
}

// RenderOnce is like Render for user-owned files: the returned file is
// written only when it does not exist yet, so edits made to it survive
// every later run.
func (w *TemplateWriter) RenderOnce(path string, data any) (*File, error) {
	f, err := w.Render(path, data)
	if err != nil {
		return nil, err
	}
	f.Once = true
	return f, nil
}
