package ir

// Trait ids as they appear in model files.
const (
	TraitRequired        = "smithy.api#required"
	TraitLength          = "smithy.api#length"
	TraitPattern         = "smithy.api#pattern"
	TraitEnum            = "smithy.api#enum"
	TraitEnumValue       = "smithy.api#enumValue"
	TraitRange           = "smithy.api#range"
	TraitSparse          = "smithy.api#sparse"
	TraitError           = "smithy.api#error"
	TraitSensitive       = "smithy.api#sensitive"
	TraitDefault         = "smithy.api#default"
	TraitJSONName        = "smithy.api#jsonName"
	TraitTimestampFormat = "smithy.api#timestampFormat"
	TraitDocumentation   = "smithy.api#documentation"
	TraitBox             = "smithy.api#box"
)

// Length bounds a size in scalar units: runes for strings, bytes for blobs,
// entries for collections and maps.
type Length struct {
	Min *int64
	Max *int64
}

// Range bounds a numeric value, inclusive.
type Range struct {
	Min *float64
	Max *float64
}

// EnumValue is one member of a closed string set.
type EnumValue struct {
	Name  string
	Value string
}

// Traits is the resolved trait set of a shape or member.
type Traits struct {
	Required bool
	Length   *Length
	Pattern  string
	Enum     []EnumValue
	Range    *Range
	Sparse   bool
	// Error is "client" or "server" for error structures.
	Error     string
	Sensitive bool
	// Default holds the decoded default value; HasDefault distinguishes an
	// explicit null default from no default at all.
	Default         any
	HasDefault      bool
	JSONName        string
	TimestampFormat string
	Documentation   string
	// SyntheticInput is set by Normalize on operation input structures.
	SyntheticInput bool
}

// HasConstraint reports whether any validation trait is attached.
func (t *Traits) HasConstraint() bool {
	return t.Length != nil || t.Pattern != "" || len(t.Enum) > 0 || t.Range != nil
}

// ConstraintNames lists the validation traits present, in a stable order.
func (t *Traits) ConstraintNames() []string {
	var out []string
	if t.Length != nil {
		out = append(out, "length")
	}
	if t.Pattern != "" {
		out = append(out, "pattern")
	}
	if len(t.Enum) > 0 {
		out = append(out, "enum")
	}
	if t.Range != nil {
		out = append(out, "range")
	}
	return out
}

// EnumStrings returns the allowed enum values in declaration order.
func (t *Traits) EnumStrings() []string {
	out := make([]string, 0, len(t.Enum))
	for _, e := range t.Enum {
		out = append(out, e.Value)
	}
	return out
}

// Int64 returns a pointer to v; handy when building Length bounds.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v; handy when building Range bounds.
func Float64(v float64) *float64 { return &v }
