package shapegen

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Violation is implemented by every generated constraint-violation type.
// Issue renders the innermost failure at its path below at.
type Violation interface {
	error
	Issue(at PathRef) Issue
}

// ConstraintKind names the trait a scalar violation failed.
type ConstraintKind int

const (
	ConstraintLength ConstraintKind = iota
	ConstraintPattern
	ConstraintRange
	ConstraintEnum
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintLength:
		return "length"
	case ConstraintPattern:
		return "pattern"
	case ConstraintRange:
		return "range"
	case ConstraintEnum:
		return "enum"
	default:
		return "ConstraintKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ScalarViolation describes a failed check of a single trait.
type ScalarViolation struct {
	Constraint ConstraintKind
	Shape      string // shape id the trait is declared on
	Length     int
	Min, Max   *float64
	Pattern    string
	Values     []string
	Value      string // offending value, empty when sensitive
	Sensitive  bool
}

func (v *ScalarViolation) Error() string {
	prefix := "value"
	switch {
	case v.Constraint == ConstraintLength:
		prefix = fmt.Sprintf("value with length %d", v.Length)
	case v.Sensitive:
	case v.Constraint == ConstraintRange:
		prefix = "value " + v.Value
	default:
		prefix = fmt.Sprintf("value `%s`", v.Value)
	}
	var rule string
	switch v.Constraint {
	case ConstraintLength:
		rule = "have length " + describeBounds(v.Min, v.Max)
	case ConstraintPattern:
		rule = "satisfy regular expression pattern: " + v.Pattern
	case ConstraintRange:
		rule = "be " + describeBounds(v.Min, v.Max)
	case ConstraintEnum:
		rule = "satisfy enum value set: [" + strings.Join(v.Values, ", ") + "]"
	}
	return fmt.Sprintf("%s provided for '%s' failed to satisfy constraint: member must %s", prefix, v.Shape, rule)
}

// Issue renders the violation at the given path.
func (v *ScalarViolation) Issue(at PathRef) Issue {
	code := CodePattern
	var kv []any
	switch v.Constraint {
	case ConstraintLength:
		code = CodeTooLong
		if v.Min != nil && float64(v.Length) < *v.Min {
			code = CodeTooShort
		}
		kv = append(kv, "length", v.Length)
	case ConstraintRange:
		code = CodeTooBig
		if n, err := strconv.ParseFloat(v.Value, 64); err == nil && v.Min != nil && n < *v.Min {
			code = CodeTooSmall
		}
	case ConstraintEnum:
		code = CodeInvalidEnum
		kv = append(kv, "values", v.Values)
	case ConstraintPattern:
		kv = append(kv, "pattern", v.Pattern)
	}
	if v.Min != nil {
		kv = append(kv, "min", *v.Min)
	}
	if v.Max != nil {
		kv = append(kv, "max", *v.Max)
	}
	return at.Issue(code, v.Error(), kv...)
}

func describeBounds(lo, hi *float64) string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }
	switch {
	case lo != nil && hi != nil:
		return "between " + f(*lo) + " and " + f(*hi) + ", inclusive"
	case lo != nil:
		return "greater than or equal to " + f(*lo)
	case hi != nil:
		return "less than or equal to " + f(*hi)
	default:
		return "unbounded"
	}
}

// Bound returns a pointer to x for use as a Min or Max.
func Bound(x float64) *float64 { return &x }

// RuneCount measures string length in Unicode scalar values.
func RuneCount(s string) int { return utf8.RuneCountInString(s) }

// CheckLength returns a violation when n is outside [lo, hi].
func CheckLength(shape string, n int, lo, hi *float64) *ScalarViolation {
	if outside(float64(n), lo, hi) {
		return &ScalarViolation{Constraint: ConstraintLength, Shape: shape, Length: n, Min: lo, Max: hi}
	}
	return nil
}

// CheckRange returns a violation when x is outside [lo, hi].
func CheckRange(shape string, x float64, lo, hi *float64, sensitive bool) *ScalarViolation {
	if !outside(x, lo, hi) {
		return nil
	}
	v := &ScalarViolation{Constraint: ConstraintRange, Shape: shape, Min: lo, Max: hi, Sensitive: sensitive}
	if !sensitive {
		v.Value = strconv.FormatFloat(x, 'f', -1, 64)
	}
	return v
}

// CheckPattern returns a violation when s does not match re.
func CheckPattern(shape string, re *regexp.Regexp, s string, sensitive bool) *ScalarViolation {
	if re.MatchString(s) {
		return nil
	}
	v := &ScalarViolation{Constraint: ConstraintPattern, Shape: shape, Pattern: re.String(), Sensitive: sensitive}
	if !sensitive {
		v.Value = s
	}
	return v
}

// CheckEnum returns a violation when s is not one of values.
func CheckEnum(shape string, s string, values []string, sensitive bool) *ScalarViolation {
	if slices.Contains(values, s) {
		return nil
	}
	v := &ScalarViolation{Constraint: ConstraintEnum, Shape: shape, Values: values, Sensitive: sensitive}
	if !sensitive {
		v.Value = s
	}
	return v
}

func outside(x float64, lo, hi *float64) bool {
	return (lo != nil && x < *lo) || (hi != nil && x > *hi)
}

// SortedKeys returns the keys of m in ascending order. Generated map
// validation walks entries this way so the reported violation is stable.
func SortedKeys[M ~map[K]V, K ~string, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}
