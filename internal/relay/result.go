package relay

import (
	"encoding/json"
)

// ErrorKind classifies every failure a relay invocation can produce.
type ErrorKind string

const (
	// ErrorKindValidation marks a malformed inbound request, rejected before
	// any upstream call is attempted.
	ErrorKindValidation ErrorKind = "ValidationError"

	// ErrorKindUpstreamStatus marks a completed upstream call that returned a
	// non-success HTTP status.
	ErrorKindUpstreamStatus ErrorKind = "UpstreamStatusError"

	// ErrorKindUpstreamUnreachable marks a network, connection, or timeout
	// failure where no upstream response was received.
	ErrorKindUpstreamUnreachable ErrorKind = "UpstreamUnreachable"

	// ErrorKindUpstreamProtocol marks an upstream success status whose body
	// could not be parsed as JSON.
	ErrorKindUpstreamProtocol ErrorKind = "UpstreamProtocolError"

	// ErrorKindInternal marks any unclassified failure. Classification must
	// try every specific kind first; this is the last resort.
	ErrorKindInternal ErrorKind = "InternalError"
)

// String returns the string representation of the ErrorKind
func (k ErrorKind) String() string {
	return string(k)
}

// Failure describes one failed relay outcome.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// Result is the uniform envelope returned from every relay invocation.
// Exactly one of Body or Failure is set; it is never partially populated.
type Result struct {
	// Body holds the upstream JSON response verbatim on success.
	Body json.RawMessage

	// Failure holds the classified error on any non-success outcome.
	Failure *Failure
}

// Success wraps an upstream JSON body in a successful envelope.
func Success(body json.RawMessage) *Result {
	return &Result{Body: body}
}

// Fail builds a failure envelope with the given kind and message.
func Fail(kind ErrorKind, message string) *Result {
	return &Result{Failure: &Failure{Kind: kind, Message: message}}
}

// FailWithDetails builds a failure envelope carrying extra diagnostic detail,
// such as the upstream status code and response body.
func FailWithDetails(kind ErrorKind, message, details string) *Result {
	return &Result{Failure: &Failure{Kind: kind, Message: message, Details: details}}
}

// OK reports whether the envelope carries a successful upstream body.
func (r *Result) OK() bool {
	return r.Failure == nil
}

// wireError is the caller-facing JSON shape for failures. The "error" key
// carries the human-readable message; kind and details refine it.
type wireError struct {
	Error   string    `json:"error"`
	Kind    ErrorKind `json:"kind"`
	Details string    `json:"details,omitempty"`
}

// Payload renders the caller-facing JSON for this envelope: the upstream body
// verbatim on success, or an object with at least an "error" key on failure.
func (r *Result) Payload() []byte {
	if r.OK() {
		return r.Body
	}

	// Marshaling a struct of plain strings cannot fail.
	out, _ := json.Marshal(wireError{
		Error:   r.Failure.Message,
		Kind:    r.Failure.Kind,
		Details: r.Failure.Details,
	})
	return out
}
