// Package gen emits Go source for a classified shape model: data types,
// builders, constrained wrappers, constraint violations and JSON
// deserializers, split over four files named after the logical modules.
package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/reoring/shapegen/internal/constraint"
	"github.com/reoring/shapegen/internal/ir"
	"github.com/reoring/shapegen/internal/symbol"
)

// Options configures one generation run.
type Options struct {
	Mode symbol.Mode
	// Package is the package clause of every emitted file.
	Package string
	// RuntimeImport overrides DefaultRuntimeImport.
	RuntimeImport string
	// Source is recorded in the file header when set.
	Source string
	// Logger receives progress at debug level. Nil discards.
	Logger *slog.Logger
}

var modules = []string{symbol.ModuleModel, symbol.ModuleUnconstrained, symbol.ModuleConstrained, symbol.ModuleJSONDeser}

// Generate renders m under opts. The model must be normalized. Files for
// modules that received no declarations are omitted, except model.go.
func Generate(m *ir.Model, opts Options) (files []File, err error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Package == "" {
		return nil, errors.New("gen: package name is required")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	cls := constraint.New(m)
	if err := cls.Validate(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*symbol.FaultError)
			if !ok {
				panic(r)
			}
			files, err = nil, fe
		}
	}()

	g := newGenerator(cls, opts, log)
	g.run()

	for _, mod := range modules {
		if mod != symbol.ModuleModel && g.out.empty(mod) {
			continue
		}
		files = append(files, File{
			Name:          mod + ".go",
			Package:       opts.Package,
			Source:        opts.Source,
			RuntimeImport: opts.RuntimeImport,
			Body:          g.out.body(mod),
		})
	}
	log.Debug("generated files", "target", opts.Mode.Target, "public", opts.Mode.PublicConstrainedTypes, "files", len(files))
	return files, nil
}

type generator struct {
	m      *ir.Model
	cls    *constraint.Classifier
	p      *symbol.Providers
	mode   symbol.Mode
	takeIn map[ir.ShapeID]bool
	out    *sink
	log    *slog.Logger
}

func newGenerator(cls *constraint.Classifier, opts Options, log *slog.Logger) *generator {
	g := &generator{
		m:    cls.Model(),
		cls:  cls,
		p:    symbol.New(cls, opts.Mode, nil),
		mode: opts.Mode,
		out:  newSink(modules...),
		log:  log,
	}
	if g.validating() {
		g.takeIn = ir.ReachableFromInputs(g.m)
	}
	return g
}

func (g *generator) validating() bool { return g.mode.Target == symbol.Validating }
func (g *generator) public() bool     { return g.mode.PublicConstrainedTypes }

func (g *generator) run() {
	var n, constrained int
	unit := false
	for s := range g.m.UserShapes() {
		n++
		if g.cls.IsDirectlyConstrained(s) {
			constrained++
		}
		for _, mem := range ir.Members(s) {
			if mem.Target == ir.UnitID {
				unit = true
			}
		}
		switch v := s.(type) {
		case *ir.Structure:
			g.structure(v)
		case *ir.Union:
			g.union(v)
		case *ir.List:
			g.list(v)
		case *ir.Map:
			g.mapShape(v)
		case *ir.Simple:
			g.simple(v)
		}
	}
	if unit {
		g.structure(g.m.Expect(ir.UnitID).(*ir.Structure))
	}
	for op := range g.m.Operations() {
		g.operationError(op)
	}
	g.log.Debug("classified model", "shapes", n, "directly_constrained", constrained)
	g.deserializers()
}

// roots returns the structures that get top-level parsers: operation inputs
// on a validating target, outputs and errors otherwise. Without operations
// every structure gets one.
func (g *generator) roots() []ir.ShapeID {
	seen := map[ir.ShapeID]bool{}
	var out []ir.ShapeID
	add := func(id ir.ShapeID) {
		if id == "" || id == ir.UnitID || seen[id] {
			return
		}
		if _, ok := g.m.Expect(id).(*ir.Structure); !ok {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for op := range g.m.Operations() {
		if g.validating() {
			add(op.Input)
			continue
		}
		add(op.Output)
		for _, e := range op.Errors {
			add(e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *generator) hasOperations() bool {
	for range g.m.Operations() {
		return true
	}
	return false
}

func (g *generator) deserializers() {
	if !g.hasOperations() {
		for s := range g.m.UserShapes() {
			if st, ok := s.(*ir.Structure); ok {
				g.topLevel(st)
			}
			if ir.IsAggregate(s) {
				g.deserFunc(s)
			}
		}
		return
	}
	for _, id := range g.roots() {
		g.topLevel(g.m.Expect(id).(*ir.Structure))
	}
}

// name is the exported Go name of s.
func (g *generator) name(s ir.Shape) string { return g.p.Name(s) }

// constrainFunc names the function validating an unconstrained value of s.
func (g *generator) constrainFunc(s ir.Shape) string { return "constrain" + g.name(s) }

// convert turns a validated value of s held in expr into the exposed form.
func (g *generator) convert(s ir.Shape, expr string) string {
	if g.p.NeedsConversion(s) {
		return expr + ".into()"
	}
	return expr
}

// fieldName names the data type field for m.
func fieldName(m *ir.Member) string { return symbol.Pascal(m.Name) }

// slotName names the builder field for m.
func slotName(m *ir.Member) string { return symbol.LowerCamel(m.Name) }

// violationField names the member's payload field on a structure or union
// violation, avoiding the Kind discriminator.
func violationField(m *ir.Member) string {
	n := fieldName(m)
	if n == "Kind" {
		return "KindViolation"
	}
	return n
}

func fault(format string, args ...any) {
	panic(&symbol.FaultError{Msg: fmt.Sprintf(format, args...)})
}
