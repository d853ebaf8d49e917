// Package middleware turns generated ParseXInput functions into HTTP request
// validation: the decoded input is stored in the request context and a
// RequestRejection becomes a 400 response listing its issues.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/shapegen"
)

// Parser is the signature of a generated top-level input parser.
type Parser[T any] func(body []byte) (T, error)

// ctxKeyInput is a typed context key; the type parameter keeps keys for
// different inputs apart.
type ctxKeyInput[T any] struct{}

// ContextWithInput attaches a parsed input to the context.
func ContextWithInput[T any](ctx context.Context, in T) context.Context {
	return context.WithValue(ctx, ctxKeyInput[T]{}, in)
}

// InputFromContext retrieves the parsed input stored by ContextWithInput.
func InputFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyInput[T]{}).(T)
	return v, ok
}

// MaxBodyBytes bounds request bodies read by Decode.
const MaxBodyBytes = 4 << 20

// Decode reads r's body and runs parse over it.
func Decode[T any](r *http.Request, parse Parser[T]) (T, error) {
	var zero T
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return zero, shapegen.RejectDeserialize(err)
	}
	if len(body) > MaxBodyBytes {
		return zero, shapegen.RejectDeserialize(&shapegen.DeserializeError{
			Code:   shapegen.CodeTruncated,
			Msg:    "request body too large",
			Offset: MaxBodyBytes,
		})
	}
	return parse(body)
}

// IssuePayload is the JSON form of a single issue.
type IssuePayload struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorPayload is the body written for rejected requests.
type ErrorPayload struct {
	Reason string         `json:"reason"`
	Issues []IssuePayload `json:"issues,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Payload shapes err for a JSON response.
func Payload(err error) ErrorPayload {
	var rr *shapegen.RequestRejection
	if !errors.As(err, &rr) {
		return ErrorPayload{Reason: "internal", Error: err.Error()}
	}
	p := ErrorPayload{Reason: rr.Reason.String()}
	for _, is := range rr.Issues {
		p.Issues = append(p.Issues, IssuePayload{Path: is.Path, Code: is.Code, Message: is.Message})
	}
	return p
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	var rr *shapegen.RequestRejection
	if errors.As(err, &rr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON response.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(err))
	_ = json.NewEncoder(w).Encode(Payload(err))
}

// ValidateJSON parses each request body with parse and passes the decoded
// input to next through the request context.
func ValidateJSON[T any](parse Parser[T]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in, err := Decode(r, parse)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithInput(r.Context(), in)))
		})
	}
}
