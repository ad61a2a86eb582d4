package transform

import (
	"strconv"
	"strings"

	"github.com/brpbridge/bridge/internal/errpattern"
)

// TupleStructTransformer rewrites a failing access path's named color or
// math-component segments to their tuple indices (spec §4.6 "Tuple-struct
// transformer"). Unlike the other transformers it corrects the mutation
// path, not the value — see Transformation.CorrectedPath.
type TupleStructTransformer struct{}

func (TupleStructTransformer) Name() string { return "tuple_struct" }

func (TupleStructTransformer) CanHandle(p errpattern.Pattern) bool {
	switch p.Kind {
	case errpattern.TupleStructAccess, errpattern.AccessError:
		return true
	case errpattern.MissingField:
		return errpattern.LooksLowercaseField(p.Field)
	}
	return false
}

func (TupleStructTransformer) Transform(original interface{}) (*Transformation, bool) {
	return nil, false
}

func (t TupleStructTransformer) TransformWithError(original interface{}, p errpattern.Pattern) (*Transformation, bool) {
	path := p.Path
	if path == "" {
		path = p.Access
	}
	if path == "" {
		return nil, false
	}
	rewritten, ok := rewriteComponentPath(path)
	if !ok {
		return nil, false
	}
	return &Transformation{
		CorrectedPath: rewritten,
		Hint:          "rewrote " + path + " to " + rewritten,
		Structural:    true,
	}, true
}

func (t TupleStructTransformer) TransformWithTypeInfo(original interface{}, p errpattern.Pattern, info TypeInfo) (*Transformation, bool) {
	return t.TransformWithError(original, p)
}

// componentIndex maps a field name's leading letter to its tuple index
// (spec §4.6): r/h/l/x -> 0; g/s/y -> 1; b/v/z -> 2; a/w -> 3. Lab's "a"
// disambiguates to 1 (its a/b chroma axes, not alpha).
func componentIndex(field, enclosing string) (int, bool) {
	if field == "" {
		return 0, false
	}
	c := field[0]
	if c >= 'A' && c <= 'Z' {
		c = c - 'A' + 'a'
	}
	if c == 'a' && enclosing == "Lab" {
		return 1, true
	}
	switch c {
	case 'r', 'h', 'l', 'x':
		return 0, true
	case 'g', 's', 'y':
		return 1, true
	case 'b', 'v', 'z':
		return 2, true
	case 'a', 'w':
		return 3, true
	}
	return 0, false
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

// rewriteComponentPath rewrites every adjacent (TypeName, field) segment
// pair into (0, index) — e.g. ".LinearRgba.red" -> ".0.0" (spec §4.6,
// example S5).
func rewriteComponentPath(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, ".")
	parts := strings.Split(trimmed, ".")
	changed := false
	for i := 0; i+1 < len(parts); i++ {
		if !isCapitalized(parts[i]) {
			continue
		}
		if idx, ok := componentIndex(parts[i+1], parts[i]); ok {
			parts[i] = "0"
			parts[i+1] = strconv.Itoa(idx)
			changed = true
			i++
		}
	}
	if !changed {
		return path, false
	}
	return "." + strings.Join(parts, "."), true
}
