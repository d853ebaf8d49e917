package gen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

//go:embed file.go.tmpl
var tmplFS embed.FS

var fileTmpl = template.Must(template.ParseFS(tmplFS, "file.go.tmpl"))

// DefaultRuntimeImport is the import path of the runtime library generated
// code links against.
const DefaultRuntimeImport = "github.com/reoring/shapegen"

// File is one rendered output module.
type File struct {
	// Name is the file name, e.g. "model.go".
	Name    string
	Package string
	// Source names the model the file was generated from; may be empty.
	Source string
	// RuntimeImport overrides DefaultRuntimeImport.
	RuntimeImport string
	// Body holds the declarations, unformatted.
	Body string
}

var qualifierRe = regexp.MustCompile(`\b(shapegen|codec|errors|time|regexp|fmt)\.[A-Za-z]`)

// imports lists the import specs the body needs, derived from the package
// qualifiers it uses.
func (f File) imports() []string {
	runtime := f.RuntimeImport
	if runtime == "" {
		runtime = DefaultRuntimeImport
	}
	used := map[string]bool{}
	for _, line := range strings.Split(f.Body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for _, m := range qualifierRe.FindAllStringSubmatch(line, -1) {
			used[m[1]] = true
		}
	}
	var std, ext []string
	for q := range used {
		switch q {
		case "shapegen":
			spec := strconv.Quote(runtime)
			if path.Base(runtime) != "shapegen" {
				spec = "shapegen " + spec
			}
			ext = append(ext, spec)
		case "codec":
			ext = append(ext, strconv.Quote(runtime+"/codec"))
		default:
			std = append(std, strconv.Quote(q))
		}
	}
	sort.Strings(std)
	sort.Strings(ext)
	if len(std) > 0 && len(ext) > 0 {
		std = append(std, "")
	}
	return append(std, ext...)
}

// RenderFile executes the file template over f and gofmts the result.
func RenderFile(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("render %s: package name is required", f.Name)
	}
	var buf bytes.Buffer
	data := struct {
		File
		Imports []string
	}{File: f, Imports: f.imports()}
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", f.Name, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("format %s: %w", f.Name, err)
	}
	return out, nil
}

// writer accumulates the source of one declaration.
type writer struct {
	buf bytes.Buffer
}

// l writes one formatted line. Indentation is left to gofmt.
func (w *writer) l(format string, args ...any) {
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

// doc writes text as a comment block, one "//" line per input line.
func (w *writer) doc(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		w.l("// %s", strings.TrimRight(line, " \t"))
	}
}

func (w *writer) blank() { w.buf.WriteByte('\n') }

// module collects declarations for one output file. Slots are reserved in
// call order so that a declaration emitted while another is being written
// still lands after it.
type module struct {
	name  string
	decls []*writer
	keys  map[string]bool
}

// sink routes declarations to modules.
type sink struct {
	modules map[string]*module
	order   []string
}

func newSink(names ...string) *sink {
	s := &sink{modules: map[string]*module{}}
	for _, n := range names {
		s.modules[n] = &module{name: n, keys: map[string]bool{}}
		s.order = append(s.order, n)
	}
	return s
}

// once writes the declaration identified by key into mod unless it was
// written before. It reports whether fn ran.
func (s *sink) once(mod, key string, fn func(w *writer)) bool {
	m, ok := s.modules[mod]
	if !ok {
		panic(fmt.Sprintf("gen: unknown module %q", mod))
	}
	if m.keys[key] {
		return false
	}
	m.keys[key] = true
	w := &writer{}
	m.decls = append(m.decls, w)
	fn(w)
	return true
}

// body joins a module's declarations.
func (s *sink) body(mod string) string {
	var b strings.Builder
	for i, w := range s.modules[mod].decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.Write(w.buf.Bytes())
	}
	return b.String()
}

// empty reports whether nothing was written to mod.
func (s *sink) empty(mod string) bool {
	for _, w := range s.modules[mod].decls {
		if w.buf.Len() > 0 {
			return false
		}
	}
	return true
}
