// Package transform implements C6: the transformer registry. Each
// transformer deterministically rewrites a payload (or mutation path) that
// the engine rejected, guided by the classified error pattern (spec §4.6).
package transform

import "github.com/brpbridge/bridge/internal/errpattern"

// Transformation is the result of a successful transformer application
// (spec §4.6, `Transformation = { corrected_value, hint }`). CorrectedPath
// is an extension beyond the spec's literal two-field shape: the
// tuple-struct transformer corrects the *mutation path*, not the value, so
// a third optional field carries that. Structural reports whether applying
// this transformation changes the request in a way worth retrying, versus
// producing guidance text only (spec §4.8: "If any candidate correction
// changes the payload structurally, return Retryable ... If only guidance
// is produced, return GuidanceOnly").
type Transformation struct {
	CorrectedValue interface{}
	CorrectedPath  string
	Hint           string
	Structural     bool
}

// TypeInfo is the minimal view of a discovered type a transformer may
// consult: whether it is tagged as a math type, and its registry-known
// enum variant names. Kept as a narrow local interface so this package
// never imports internal/discovery; discovery.TypeInfo satisfies it
// structurally.
type TypeInfo interface {
	MathType() (name string, ok bool)
	KnownVariants() ([]string, bool)
}

// Transformer is one deterministic payload-rewrite rule (spec §4.6).
type Transformer interface {
	Name() string
	CanHandle(p errpattern.Pattern) bool
	Transform(original interface{}) (*Transformation, bool)
	TransformWithError(original interface{}, p errpattern.Pattern) (*Transformation, bool)
	TransformWithTypeInfo(original interface{}, p errpattern.Pattern, info TypeInfo) (*Transformation, bool)
}
