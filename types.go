package shapegen

// Severity expresses the severity level for enforcement findings.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseOpt bundles runtime enforcement applied to token sources.
type ParseOpt struct {
	// OnDuplicateKey selects how repeated object keys are treated. With Warn
	// the finding goes to the issue sink and parsing continues.
	OnDuplicateKey Severity
	// MaxDepth bounds object and array nesting; zero disables the check.
	MaxDepth int
	// MaxBytes bounds consumed input when the driver reports offsets; zero
	// disables the check.
	MaxBytes int64
	// FailFast turns every finding into an error.
	FailFast bool
}

// DefaultParseOpt is what generated top-level parsers apply.
var DefaultParseOpt = ParseOpt{OnDuplicateKey: Error, MaxDepth: 128}

func (o ParseOpt) isZero() bool {
	return o.OnDuplicateKey == Ignore && o.MaxDepth == 0 && o.MaxBytes == 0
}
