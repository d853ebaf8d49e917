package shapegen

import (
	"fmt"
	"reflect"
	"strings"
)

// Redacted replaces sensitive values in String output.
const Redacted = "*** Sensitive Data Redacted ***"

// FieldValue is one entry of FormatStruct output.
type FieldValue struct {
	Name   string
	Value  any
	Redact bool
}

// Field renders a field value, dereferencing pointers and printing <nil> for
// unset ones.
func Field(name string, v any) FieldValue { return FieldValue{Name: name, Value: v} }

// Redact hides a field's value.
func Redact(name string) FieldValue { return FieldValue{Name: name, Redact: true} }

// FormatStruct renders "Name{a: 1, b: *** Sensitive Data Redacted ***}".
// Generated String methods of sensitive structures use it.
func FormatStruct(name string, fields ...FieldValue) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		if f.Redact {
			b.WriteString(Redacted)
			continue
		}
		b.WriteString(formatValue(f.Value))
	}
	b.WriteByte('}')
	return b.String()
}

func formatValue(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "<nil>"
	}
	return fmt.Sprint(rv.Interface())
}

// ErrorMessage renders an error structure as "Name: message", or just
// "Name" when the message is absent or empty.
func ErrorMessage(name string, msg any) string {
	s := formatValue(msg)
	if s == "" || s == "<nil>" {
		return name
	}
	return name + ": " + s
}
