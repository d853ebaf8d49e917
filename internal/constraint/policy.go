package constraint

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/reoring/shapegen/internal/ir"
)

// UnsupportedError reports a trait attached where the generator cannot honor
// it. It is an authoring error in the model and aborts generation.
type UnsupportedError struct {
	Shape  ir.ShapeID
	Trait  string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Trait == "" {
		return fmt.Sprintf("%s: %s", e.Shape, e.Reason)
	}
	return fmt.Sprintf("%s: trait %q %s", e.Shape, e.Trait, e.Reason)
}

// allowed lists the constraint traits each shape kind may carry.
func allowed(k ir.ShapeKind) map[string]bool {
	switch k {
	case ir.KindString:
		return map[string]bool{"length": true, "pattern": true, "enum": true}
	case ir.KindBlob, ir.KindList, ir.KindSet, ir.KindMap:
		return map[string]bool{"length": true}
	case ir.KindByte, ir.KindShort, ir.KindInteger, ir.KindLong, ir.KindFloat, ir.KindDouble:
		return map[string]bool{"range": true}
	default:
		return nil
	}
}

// Validate checks the model against the constraint policy and returns every
// violation found, joined. Only length may constrain lists, sets and maps;
// constraint traits on member edges are not supported.
func (c *Classifier) Validate() error {
	var errs []error
	for s := range c.model.UserShapes() {
		t := s.Traits()
		ok := allowed(s.Kind())
		for _, name := range t.ConstraintNames() {
			if !ok[name] {
				errs = append(errs, &UnsupportedError{Shape: s.ID(), Trait: name, Reason: fmt.Sprintf("is not supported on %s shapes", s.Kind())})
			}
		}
		if t.Length != nil && t.Length.Min != nil && t.Length.Max != nil && *t.Length.Min > *t.Length.Max {
			errs = append(errs, &UnsupportedError{Shape: s.ID(), Trait: "length", Reason: "has min greater than max"})
		}
		if t.Range != nil && t.Range.Min != nil && t.Range.Max != nil && *t.Range.Min > *t.Range.Max {
			errs = append(errs, &UnsupportedError{Shape: s.ID(), Trait: "range", Reason: "has min greater than max"})
		}
		if t.Pattern != "" {
			if _, err := regexp.Compile(t.Pattern); err != nil {
				errs = append(errs, &UnsupportedError{Shape: s.ID(), Trait: "pattern", Reason: fmt.Sprintf("does not compile: %v", err)})
			}
		}
		if len(t.Enum) > 0 && (t.Length != nil || t.Pattern != "") {
			errs = append(errs, &UnsupportedError{Shape: s.ID(), Trait: "enum", Reason: "cannot be combined with length or pattern"})
		}
		if mp, isMap := s.(*ir.Map); isMap {
			if c.model.Target(mp.Key).Kind() != ir.KindString {
				errs = append(errs, &UnsupportedError{Shape: s.ID(), Reason: "map keys must target a string shape"})
			}
		}
		for _, m := range ir.Members(s) {
			for _, name := range m.Traits.ConstraintNames() {
				errs = append(errs, &UnsupportedError{Shape: m.ID(), Trait: name, Reason: "is not supported on members; attach it to the target shape"})
			}
		}
	}
	return errors.Join(errs...)
}

func unexpected(s ir.Shape) string {
	return fmt.Sprintf("constraint: unexpected shape type %T for %s", s, s.ID())
}
