package errpattern

import (
	"regexp"
	"strconv"
	"strings"
)

// These codes form the opaque allow-list of engine error codes treated as
// format-recoverable (spec §6, §9 open question: "empirically calibrated
// and subject to revision"); IsRecoverableCode checks membership.
// JSON-RPC standard invalid-params (-32602) and internal-error (-32603) are
// always included; the remaining two are the engine's own
// reflection-specific codes for "unknown component type" (-23401) and
// "access error" (-23402). Classify never depends on their exact value,
// only IsRecoverableCode does.
const (
	CodeInvalidParams       int32 = -32602
	CodeInternalError       int32 = -32603
	CodeUnknownComponentType int32 = -23401
	CodeAccessError         int32 = -23402
)

// IsRecoverableCode reports whether code is in the format-recoverable
// allow-list (spec §6, §8 "recovery not attempted" precondition).
func IsRecoverableCode(code int32) bool {
	switch code {
	case CodeInvalidParams, CodeInternalError, CodeUnknownComponentType, CodeAccessError:
		return true
	default:
		return false
	}
}

// UnknownComponentTypeToken is the substring Init→SerializationCheck (C8)
// looks for to recognize an unknown-component-type complaint (spec §4.8).
const UnknownComponentTypeToken = "unknown component type"

var (
	reMathTypeArray = regexp.MustCompile("invalid type: map, expected an array for `([^`]+)`")
	reTransformSeq  = regexp.MustCompile(`expected a sequence of length (\d+)`)

	reEnumUnitAccessError = regexp.MustCompile(
		"Error accessing element with `([^`]+)`: expected variant `([^`]+)`, found variant `([^`]+)`")
	reEnumUnitMutation = regexp.MustCompile(
		"(?:[Cc]ould not set|[Cc]annot mutate) (?:enum )?variant: expected `([^`]+)`, found `([^`]+)`")

	reTupleStructAccess = regexp.MustCompile(
		"Error accessing element with `([^`]+)`: .*tuple struct")

	reAccessErrorGeneric = regexp.MustCompile(
		"Error accessing element with `([^`]+)`: (.+)$")

	reTypeMismatchAccess = regexp.MustCompile(
		"Error accessing element with `([^`]+)`: [Ee]xpected `([^`]+)`(?: \\w+)?, found `([^`]+)`")
	reTypeMismatchBare = regexp.MustCompile(
		"^[Ee]xpected `([^`]+)`(?: \\w+)?, found `([^`]+)`")

	reMissingField = regexp.MustCompile(
		"(?:[Mm]issing|[Uu]nknown) field `([^`]+)`(?:(?: on| for) (?:type|struct) `([^`]+)`)?")

	reExpectedType = regexp.MustCompile("^[Ee]xpected type `([^`]+)`$")
)

// Classify implements C5 (spec §4.5). It is pure: identical (code, message)
// inputs always produce an identical Pattern (spec §8 property 7).
// Matching proceeds in order from most to least structurally specific, per
// spec §4.5's "ambiguous messages resolve to the most specific pattern
// whose structural signature is fully present".
func Classify(code int32, message string, data interface{}) Pattern {
	base := Pattern{Code: code, Message: message}

	if m := reMathTypeArray.FindStringSubmatch(message); m != nil {
		base.Kind = MathTypeArray
		base.MathType = m[1]
		return base
	}
	if m := reTransformSeq.FindStringSubmatch(message); m != nil {
		base.Kind = TransformSequence
		if n, err := strconv.Atoi(m[1]); err == nil {
			base.ExpectedCount = n
		}
		return base
	}
	if m := reEnumUnitAccessError.FindStringSubmatch(message); m != nil {
		base.Kind = EnumUnitVariantAccessError
		base.Access = m[1]
		base.ExpectedVariantType = m[2]
		base.ActualVariantType = m[3]
		return base
	}
	if m := reEnumUnitMutation.FindStringSubmatch(message); m != nil {
		base.Kind = EnumUnitVariantMutation
		base.ExpectedVariantType = m[1]
		base.ActualVariantType = m[2]
		return base
	}
	if m := reTupleStructAccess.FindStringSubmatch(message); m != nil {
		base.Kind = TupleStructAccess
		base.Path = m[1]
		return base
	}
	if m := reTypeMismatchAccess.FindStringSubmatch(message); m != nil {
		base.Kind = TypeMismatch
		base.Access = m[1]
		base.Expected = m[2]
		base.Actual = m[3]
		base.IsVariant = strings.Contains(strings.ToLower(message), "variant")
		return base
	}
	if m := reTypeMismatchBare.FindStringSubmatch(message); m != nil {
		base.Kind = TypeMismatch
		base.Expected = m[1]
		base.Actual = m[2]
		base.IsVariant = strings.Contains(strings.ToLower(message), "variant")
		return base
	}
	if m := reMissingField.FindStringSubmatch(message); m != nil {
		base.Kind = MissingField
		base.Field = m[1]
		base.Type = m[2]
		return base
	}
	if m := reAccessErrorGeneric.FindStringSubmatch(message); m != nil {
		base.Kind = AccessError
		base.Access = m[1]
		base.ErrorType = m[2]
		return base
	}
	if m := reExpectedType.FindStringSubmatch(message); m != nil {
		base.Kind = ExpectedType
		base.Expected = m[1]
		return base
	}

	base.Kind = Unrecognized
	return base
}

// LooksVariantLike reports whether a field name looks like an enum variant
// tag rather than a struct field: capitalized first letter (spec §4.6,
// enum-variant transformer trigger condition).
func LooksVariantLike(field string) bool {
	if field == "" {
		return false
	}
	r := field[0]
	return r >= 'A' && r <= 'Z'
}

// LooksLowercaseField reports the complementary condition the tuple-struct
// transformer uses to decide whether a MissingField/AccessError names a
// plain (lowercase) struct field rather than a variant tag (spec §4.6).
func LooksLowercaseField(field string) bool {
	if field == "" {
		return false
	}
	r := field[0]
	return r >= 'a' && r <= 'z'
}
