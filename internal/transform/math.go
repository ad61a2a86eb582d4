package transform

import "github.com/brpbridge/bridge/internal/errpattern"

// MathTransformer converts `{x, y, z, w?}` objects to `[x, y, z, w?]`
// arrays, and recursively descends into Transform's translation/rotation/
// scale sub-objects, per spec §4.6 "Math transformer".
type MathTransformer struct{}

func (MathTransformer) Name() string { return "math" }

func (MathTransformer) CanHandle(p errpattern.Pattern) bool {
	return p.Kind == errpattern.MathTypeArray || p.Kind == errpattern.TransformSequence
}

// componentOrder gives the field order for a known math type. Transform
// gets special recursive handling in applyTransform below, not a flat order.
func componentOrder(mathType string) ([]string, bool) {
	switch mathType {
	case "glam::Vec2":
		return []string{"x", "y"}, true
	case "glam::Vec3", "glam::Vec3A":
		return []string{"x", "y", "z"}, true
	case "glam::Vec4", "glam::Quat":
		return []string{"x", "y", "z", "w"}, true
	default:
		return nil, false
	}
}

func (m MathTransformer) Transform(original interface{}) (*Transformation, bool) {
	if corrected, ok := applyMathGeneric(original); ok {
		return &Transformation{CorrectedValue: corrected, Hint: "converted object-of-components to array", Structural: shapeChanged(original, corrected)}, true
	}
	return nil, false
}

func (m MathTransformer) TransformWithError(original interface{}, p errpattern.Pattern) (*Transformation, bool) {
	if order, ok := componentOrder(p.MathType); ok {
		if corrected, ok := objectToArray(original, order); ok {
			return &Transformation{
				CorrectedValue: corrected,
				Hint:           "converted " + p.MathType + " object to a flat array",
				Structural:     shapeChanged(original, corrected),
			}, true
		}
	}
	if p.MathType == "bevy_transform::components::transform::Transform" {
		if corrected, ok := applyTransform(original); ok {
			return &Transformation{
				CorrectedValue: corrected,
				Hint:           "converted Transform's translation/rotation/scale to flat arrays",
				Structural:     shapeChanged(original, corrected),
			}, true
		}
	}
	return m.Transform(original)
}

func (m MathTransformer) TransformWithTypeInfo(original interface{}, p errpattern.Pattern, info TypeInfo) (*Transformation, bool) {
	if info != nil {
		if mt, ok := info.MathType(); ok {
			p2 := p
			p2.MathType = mt
			return m.TransformWithError(original, p2)
		}
	}
	return m.TransformWithError(original, p)
}

// applyMathGeneric handles the no-error-context case: detect a
// Transform-shaped object first (it has translation/rotation/scale keys),
// else detect a plain {x,y,z,w?} object by presence of x and y.
func applyMathGeneric(v interface{}) (interface{}, bool) {
	if obj, ok := v.(map[string]interface{}); ok {
		if _, hasTranslation := obj["translation"]; hasTranslation {
			if _, hasRotation := obj["rotation"]; hasRotation {
				return applyTransform(v)
			}
		}
		for _, order := range [][]string{{"x", "y", "z", "w"}, {"x", "y", "z"}, {"x", "y"}} {
			if hasAllKeys(obj, order) {
				if arr, ok := objectToArray(v, order); ok {
					return arr, true
				}
			}
		}
	}
	if arr, ok := v.([]interface{}); ok && allNumeric(arr) {
		return arr, true
	}
	return nil, false
}

// applyTransform recursively converts translation/scale (Vec3) and
// rotation (Quat) sub-objects to arrays, preserving the surrounding struct
// layout (spec §4.6).
func applyTransform(v interface{}) (interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]interface{}, len(obj))
	changed := false
	for k, val := range obj {
		switch k {
		case "translation", "scale":
			if arr, ok := objectToArray(val, []string{"x", "y", "z"}); ok {
				out[k] = arr
				changed = true
				continue
			}
		case "rotation":
			if arr, ok := objectToArray(val, []string{"x", "y", "z", "w"}); ok {
				out[k] = arr
				changed = true
				continue
			}
		}
		out[k] = val
	}
	if !changed {
		return nil, false
	}
	return out, true
}

// objectToArray converts a {key: value, ...} object to an ordered array
// following keys, or passes through an already-well-formed numeric array
// of the same length unchanged (spec §4.6, idempotence property — spec §8
// property 9).
func objectToArray(v interface{}, keys []string) (interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		if !hasAllKeys(t, keys) {
			return nil, false
		}
		arr := make([]interface{}, 0, len(keys))
		for _, k := range keys {
			arr = append(arr, t[k])
		}
		return arr, true
	case []interface{}:
		if len(t) == len(keys) && allNumeric(t) {
			return t, true
		}
	}
	return nil, false
}

func hasAllKeys(obj map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

func allNumeric(arr []interface{}) bool {
	for _, v := range arr {
		switch v.(type) {
		case float64, float32, int, int32, int64, uint, uint32, uint64:
		default:
			return false
		}
	}
	return true
}

// shapeChanged reports whether the conversion actually rewrote an
// object into an array (a real structural fix), as opposed to passing an
// already-array input through unchanged (the idempotent case).
func shapeChanged(a, b interface{}) bool {
	_, aIsObj := a.(map[string]interface{})
	_, bIsArr := b.([]interface{})
	return aIsObj && bIsArr
}
