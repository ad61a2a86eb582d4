// Package brperrors defines the closed set of error kinds that flow through
// the format-discovery and mutation-path core (spec §7).
package brperrors

import "fmt"

// Kind identifies one of the error categories the core can produce.
type Kind int

const (
	// KindNotInRegistry means the type is absent from the engine's reflect registry.
	KindNotInRegistry Kind = iota
	// KindMissingSerializationTraits means the type is registered but lacks Serialize/Deserialize.
	KindMissingSerializationTraits
	// KindNonMutatableHandle means a single-field tuple struct wraps an asset handle.
	KindNonMutatableHandle
	// KindRecursionLimitExceeded means path building hit the depth cap.
	KindRecursionLimitExceeded
	// KindUnknownOperation means the method is not supported by this bridge.
	KindUnknownOperation
	// KindTransportFailure means a timeout, connection refusal, or decode failure occurred.
	KindTransportFailure
	// KindUnrecoverable means the state machine exhausted every recovery tier.
	KindUnrecoverable
)

func (k Kind) String() string {
	switch k {
	case KindNotInRegistry:
		return "NotInRegistry"
	case KindMissingSerializationTraits:
		return "MissingSerializationTraits"
	case KindNonMutatableHandle:
		return "NonMutatableHandle"
	case KindRecursionLimitExceeded:
		return "RecursionLimitExceeded"
	case KindUnknownOperation:
		return "UnknownOperation"
	case KindTransportFailure:
		return "TransportFailure"
	case KindUnrecoverable:
		return "Unrecoverable"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carried through the core. Type and Detail
// are kind-specific payload (e.g. the offending type name, or the transport
// failure detail string); Cause, when set, is the wrapped underlying error.
type Error struct {
	Kind   Kind
	Type   string
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	switch {
	case e.Cause != nil && e.Type != "":
		return fmt.Sprintf("%s(%s): %v", e.Kind, e.Type, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	case e.Type != "" && e.Detail != "":
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Type, e.Detail)
	case e.Type != "":
		return fmt.Sprintf("%s(%s)", e.Kind, e.Type)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs an Error for the given kind and type name.
func New(kind Kind, typeName string) *Error {
	return &Error{Kind: kind, Type: typeName}
}

// Wrap constructs an Error for the given kind, wrapping cause.
func Wrap(kind Kind, typeName string, cause error) *Error {
	return &Error{Kind: kind, Type: typeName, Cause: cause}
}

// WithDetail returns a copy of e with Detail set.
func (e *Error) WithDetail(detail string) *Error {
	cp := *e
	cp.Detail = detail
	return &cp
}
