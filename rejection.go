package shapegen

import (
	"errors"
	"fmt"
)

// RejectionReason classifies why an operation input was refused.
type RejectionReason int

const (
	ReasonDeserialize RejectionReason = iota
	ReasonConstraintViolation
)

func (r RejectionReason) String() string {
	if r == ReasonConstraintViolation {
		return "constraint violation"
	}
	return "deserialize"
}

// RequestRejection is returned by generated ParseXInput functions. Issues
// holds one entry: the first failure found.
type RequestRejection struct {
	Reason RejectionReason
	Issues Issues
	Cause  error
}

func (r *RequestRejection) Error() string {
	return fmt.Sprintf("request rejected (%s): %v", r.Reason, r.Cause)
}

func (r *RequestRejection) Unwrap() error { return r.Cause }

// RejectViolation wraps a constraint violation of an operation input.
func RejectViolation(v Violation) *RequestRejection {
	return &RequestRejection{
		Reason: ReasonConstraintViolation,
		Issues: Issues{v.Issue(Root())},
		Cause:  v,
	}
}

// RejectDeserialize wraps a failure to read the request body.
func RejectDeserialize(err error) *RequestRejection {
	var de *DeserializeError
	if !errors.As(err, &de) {
		de = &DeserializeError{Code: CodeParseError, Msg: "invalid JSON", Offset: -1, Cause: err}
	}
	return &RequestRejection{Reason: ReasonDeserialize, Issues: Issues{de.Issue()}, Cause: err}
}
