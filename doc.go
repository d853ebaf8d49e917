// Package shapegen is the runtime imported by code that the shapegen
// generator emits.
//
// It provides:
//
//   - A pull-based JSON token stream (Source, TokenStream) with a pluggable
//     tokenizer driver and depth, size and duplicate-key enforcement.
//   - MaybeConstrained, the builder slot that holds either a validated or a
//     not yet validated value.
//   - Constraint checks (length, pattern, range, enum) returning
//     ScalarViolation values, and the Violation interface generated
//     violation types implement.
//   - A stable error model: Issues with JSON Pointer paths, DeserializeError
//     for malformed input, and RequestRejection for operation inputs.
//
// Generated code is the main caller:
//
//	input, err := model.ParsePutThingInput(body)
//	var rej *shapegen.RequestRejection
//	if errors.As(err, &rej) {
//		// rej.Issues carries the path of the first violation.
//	}
//
// The generator itself lives under internal/ and cmd/shapegen.
package shapegen
