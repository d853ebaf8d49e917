package engine

// Framer tracks container nesting for tokenizers that report object keys
// and string values the same way (encoding/json style Token APIs).
type Framer struct {
	stack []framerEntry
}

type framerEntry struct {
	object       bool
	expectingKey bool
}

// Open records a new container and returns its begin kind.
func (f *Framer) Open(object bool) Kind {
	f.stack = append(f.stack, framerEntry{object: object, expectingKey: object})
	if object {
		return KindBeginObject
	}
	return KindBeginArray
}

// Close pops the innermost container and returns its end kind.
func (f *Framer) Close() Kind {
	kind := KindEndArray
	if n := len(f.stack); n > 0 {
		if f.stack[n-1].object {
			kind = KindEndObject
		}
		f.stack = f.stack[:n-1]
	}
	f.Value()
	return kind
}

// String classifies a string token as a key or a string value.
func (f *Framer) String() Kind {
	if n := len(f.stack); n > 0 && f.stack[n-1].expectingKey {
		f.stack[n-1].expectingKey = false
		return KindKey
	}
	f.Value()
	return KindString
}

// Value marks the current member value as complete.
func (f *Framer) Value() {
	if n := len(f.stack); n > 0 && f.stack[n-1].object {
		f.stack[n-1].expectingKey = true
	}
}
