// Package errpattern implements C5: the error-pattern classifier. It turns
// an engine error (code, message, optional structured data) into a typed,
// closed-set Pattern, by pattern extraction over the message text (spec
// §4.5). The classifier is total and pure: it never fails, and identical
// inputs always produce identical output.
package errpattern

// Kind enumerates the recognized error-pattern shapes (spec §3).
type Kind int

const (
	Unrecognized Kind = iota
	MathTypeArray
	TransformSequence
	TupleStructAccess
	AccessError
	MissingField
	TypeMismatch
	EnumUnitVariantMutation
	EnumUnitVariantAccessError
	ExpectedType
)

func (k Kind) String() string {
	switch k {
	case MathTypeArray:
		return "MathTypeArray"
	case TransformSequence:
		return "TransformSequence"
	case TupleStructAccess:
		return "TupleStructAccess"
	case AccessError:
		return "AccessError"
	case MissingField:
		return "MissingField"
	case TypeMismatch:
		return "TypeMismatch"
	case EnumUnitVariantMutation:
		return "EnumUnitVariantMutation"
	case EnumUnitVariantAccessError:
		return "EnumUnitVariantAccessError"
	case ExpectedType:
		return "ExpectedType"
	default:
		return "Unrecognized"
	}
}

// Pattern is one classified error shape (spec §3, "ErrorPattern"). Only the
// fields relevant to Kind are meaningful; it is a tagged union represented
// as a flat struct, mirroring the closed-set dispatch style used by
// registry.TypeKind and pathbuilder.PathExample.
type Pattern struct {
	Kind Kind

	MathType      string // MathTypeArray
	ExpectedCount int    // TransformSequence; 0 if not present in the message

	Path string // TupleStructAccess

	Access    string // AccessError, EnumUnitVariantAccessError, TypeMismatch (when present)
	ErrorType string // AccessError

	Field string // MissingField
	Type  string // MissingField

	Expected  string // TypeMismatch, ExpectedType
	Actual    string // TypeMismatch
	IsVariant bool   // TypeMismatch

	ExpectedVariantType string // EnumUnitVariantMutation, EnumUnitVariantAccessError
	ActualVariantType   string // EnumUnitVariantMutation, EnumUnitVariantAccessError

	Code    int32
	Message string
}
