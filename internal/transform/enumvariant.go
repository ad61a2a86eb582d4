package transform

import (
	"strings"

	"github.com/brpbridge/bridge/internal/errpattern"
)

// EnumVariantTransformer unwraps a single-field variant object to its
// inner value, or takes an array's first element, and emits closest-match
// guidance for unrecognized unit-variant mutations (spec §4.6 "Enum-variant
// transformer").
type EnumVariantTransformer struct{}

func (EnumVariantTransformer) Name() string { return "enum_variant" }

func (EnumVariantTransformer) CanHandle(p errpattern.Pattern) bool {
	switch p.Kind {
	case errpattern.TypeMismatch:
		return p.IsVariant
	case errpattern.MissingField:
		return errpattern.LooksVariantLike(p.Field)
	case errpattern.EnumUnitVariantMutation, errpattern.EnumUnitVariantAccessError:
		return true
	}
	return false
}

func (EnumVariantTransformer) Transform(original interface{}) (*Transformation, bool) {
	return unwrapVariant(original)
}

func (t EnumVariantTransformer) TransformWithError(original interface{}, p errpattern.Pattern) (*Transformation, bool) {
	switch p.Kind {
	case errpattern.EnumUnitVariantMutation, errpattern.EnumUnitVariantAccessError:
		// Needs registry-known variants for guidance; without TypeInfo we
		// can only report what the error itself told us.
		return &Transformation{
			Hint:       "expected variant " + p.ExpectedVariantType + ", found " + p.ActualVariantType,
			Structural: false,
		}, true
	}
	return unwrapVariant(original)
}

func (t EnumVariantTransformer) TransformWithTypeInfo(original interface{}, p errpattern.Pattern, info TypeInfo) (*Transformation, bool) {
	if p.Kind == errpattern.EnumUnitVariantMutation || p.Kind == errpattern.EnumUnitVariantAccessError {
		if info != nil {
			if variants, ok := info.KnownVariants(); ok && len(variants) > 0 {
				suggestions := ClosestMatches(p.ActualVariantType, variants, 3)
				return &Transformation{
					Hint:       "unknown variant " + p.ActualVariantType + "; valid variants: " + strings.Join(variants, ", ") + "; closest: " + strings.Join(suggestions, ", "),
					Structural: false,
				}, true
			}
		}
	}
	return t.TransformWithError(original, p)
}

// unwrapVariant treats a single-field object's sole value as the payload
// (the outer key is the variant tag), or an array's first element.
func unwrapVariant(v interface{}) (*Transformation, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		if len(t) != 1 {
			return nil, false
		}
		for _, inner := range t {
			return &Transformation{CorrectedValue: inner, Hint: "unwrapped single-field variant object", Structural: true}, true
		}
	case []interface{}:
		if len(t) == 0 {
			return nil, false
		}
		return &Transformation{CorrectedValue: t[0], Hint: "took first element of variant array", Structural: true}, true
	}
	return nil, false
}
