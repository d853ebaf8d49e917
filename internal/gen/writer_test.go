package gen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func TestRenderFile_Minimal(t *testing.T) {
	out, err := RenderFile(File{Name: "model.go", Package: "foo", Body: "type User struct{}\n"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(string(out), "// Code generated by shapegen. DO NOT EDIT.") {
		t.Fatalf("missing header:\n%s", out)
	}
	if strings.Contains(string(out), "import") {
		t.Fatalf("unexpected imports:\n%s", out)
	}
}

func TestRenderFile_Imports(t *testing.T) {
	body := `// doc mentioning time.Time only
func f(x shapegen.Issue) string { return fmt.Sprint(x) }
var p = regexp.MustCompile("a")
var d = codec.DateTime
`
	out, err := RenderFile(File{Name: "model.go", Package: "foo", Source: "model.json", Body: body})
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}
	src := string(out)
	for _, want := range []string{`"fmt"`, `"regexp"`, `"github.com/reoring/shapegen"`, `"github.com/reoring/shapegen/codec"`, "// source: model.json"} {
		if !strings.Contains(src, want) {
			t.Errorf("output lacks %s:\n%s", want, src)
		}
	}
	if strings.Contains(src, `"time"`) {
		t.Errorf("comment pulled in an import:\n%s", src)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "model.go", out, parser.ImportsOnly); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestRenderFile_RuntimeAlias(t *testing.T) {
	out, err := RenderFile(File{Name: "model.go", Package: "foo", RuntimeImport: "example.com/rt", Body: "var _ = shapegen.Redacted\n"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(string(out), `shapegen "example.com/rt"`) {
		t.Fatalf("runtime import not aliased:\n%s", out)
	}
}

func TestRenderFile_Errors(t *testing.T) {
	if _, err := RenderFile(File{Name: "model.go", Body: "type A struct{}"}); err == nil {
		t.Fatalf("expected missing package error")
	}
	if _, err := RenderFile(File{Name: "model.go", Package: "foo", Body: "func {"}); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestSinkOnceKeepsCallOrder(t *testing.T) {
	s := newSink("model")
	s.once("model", "outer", func(w *writer) {
		s.once("model", "inner", func(w *writer) { w.l("// inner") })
		s.once("model", "outer", func(w *writer) { w.l("// duplicate") })
		w.l("// outer")
	})
	got := s.body("model")
	if got != "// outer\n\n// inner\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
