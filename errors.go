package shapegen

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeDuplicateKey  = "duplicate_key"
	CodeParseError    = "parse_error"
	CodeTruncated     = "truncated"
	CodeOverflow      = "overflow"

	// Deserialization codes.
	CodeUnexpectedToken = "unexpected_token"
	CodeMixedVariants   = "union_mixed_variants"
	CodeUnknownVariant  = "union_unknown_variant"
	CodeEmptyUnion      = "union_empty"
	CodeTrailingTokens  = "trailing_tokens"
	CodeCustom          = "custom"
)

// Issue represents a single problem found in a request.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string
	Message string
	Offset  int64 // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"min":1, "max":10}).
	Params map[string]any
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// DeserializeError reports malformed or unexpected input.
type DeserializeError struct {
	Code   string
	Msg    string
	Path   string
	Offset int64
	Cause  error
}

func (e *DeserializeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Path != "" && e.Path != "/" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DeserializeError) Unwrap() error { return e.Cause }

// Issue converts the error into an Issue.
func (e *DeserializeError) Issue() Issue {
	path := e.Path
	if path == "" {
		path = "/"
	}
	return Issue{Path: path, Code: e.Code, Message: e.Error(), Offset: e.Offset}
}

// Custom builds a DeserializeError with a free-form message. Generated code
// uses it for structural problems such as empty unions.
func Custom(format string, args ...any) *DeserializeError {
	return &DeserializeError{Code: CodeCustom, Msg: fmt.Sprintf(format, args...), Offset: -1}
}

// BuildFailed reports a nested value whose Build failed while it was being
// read. The Build error stays reachable through errors.As.
func BuildFailed(err error) *DeserializeError {
	return &DeserializeError{Code: CodeCustom, Msg: "failed to build nested value", Offset: -1, Cause: err}
}

// MixedVariants reports a union object with more than one non-null member.
func MixedVariants() *DeserializeError {
	return &DeserializeError{Code: CodeMixedVariants, Msg: "encountered mixed variants in union", Offset: -1}
}

// UnknownVariant reports a union member name the model does not declare.
func UnknownVariant(tag string) *DeserializeError {
	return &DeserializeError{Code: CodeUnknownVariant, Msg: "unexpected union variant: " + tag, Offset: -1}
}

// EmptyUnion reports a union object without any non-null member.
func EmptyUnion() *DeserializeError {
	return &DeserializeError{Code: CodeEmptyUnion, Msg: "Union did not contain a valid variant.", Offset: -1}
}

func deserializeError(code string, off int64, format string, args ...any) *DeserializeError {
	return &DeserializeError{Code: code, Msg: fmt.Sprintf(format, args...), Offset: off}
}
