// Package symbol lowers shapes to Go type descriptors. Six lowerings are
// provided, all pure functions of (shape, target, public constrained types):
// the plain view, the constrained view, the restricted intermediate view, the
// unconstrained (builder) view, the constraint violation type, and the view
// exposed on generated data types.
package symbol

import (
	"fmt"
	"strings"
)

// Visibility of a generated declaration.
type Visibility int

const (
	Public Visibility = iota
	// Restricted declarations are unexported: usable only inside the
	// generated package.
	Restricted
)

func (v Visibility) String() string {
	if v == Restricted {
		return "restricted"
	}
	return "public"
}

// Target selects the compilation target.
type Target int

const (
	// Validating targets enforce constraints at runtime (service facing).
	Validating Target = iota
	// NonValidating targets trust their input (caller facing).
	NonValidating
)

func (t Target) String() string {
	if t == NonValidating {
		return "non-validating"
	}
	return "validating"
}

// ParseTarget accepts "validating" or "non-validating".
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "validating", "server":
		return Validating, nil
	case "non-validating", "nonvalidating", "client":
		return NonValidating, nil
	}
	return 0, fmt.Errorf("unknown target %q (want validating or non-validating)", s)
}

// Mode is the pair of settings every lowering depends on.
type Mode struct {
	Target                 Target
	PublicConstrainedTypes bool
}

// Module names of the logical output modules.
const (
	ModuleModel         = "model"
	ModuleUnconstrained = "unconstrained"
	ModuleConstrained   = "constrained"
	ModuleJSONDeser     = "json_deser"
)

// Symbol is a lowered shape: a name inside a module with a visibility and
// the Go type used to refer to it.
type Symbol struct {
	// Name is the declaration name before visibility casing.
	Name string
	// Namespace is the module path; its first element picks the output file.
	Namespace  []string
	Visibility Visibility
	Type       *Type
}

// GoName returns the declared identifier with visibility applied.
func (s Symbol) GoName() string {
	if s.Name == "" {
		return ""
	}
	return applyVisibility(s.Name, s.Visibility)
}

// Module returns the output module the symbol is declared in.
func (s Symbol) Module() string {
	if len(s.Namespace) == 0 {
		return ""
	}
	return s.Namespace[0]
}

// Path returns the namespace and name joined with "::".
func (s Symbol) Path() string {
	return strings.Join(append(append([]string{}, s.Namespace...), s.GoName()), "::")
}

// IsDeclared reports whether the symbol names a generated declaration, as
// opposed to a builtin or composite type.
func (s Symbol) IsDeclared() bool {
	return s.Type != nil && s.Type.Kind == TypeNamed
}
