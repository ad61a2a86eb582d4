package transform

import (
	"reflect"
	"testing"

	"github.com/brpbridge/bridge/internal/errpattern"
)

func TestMathTransformerVec3ObjectToArray(t *testing.T) {
	m := MathTransformer{}
	p := errpattern.Pattern{Kind: errpattern.MathTypeArray, MathType: "glam::Vec3"}
	original := map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0}

	tr, ok := m.TransformWithError(original, p)
	if !ok {
		t.Fatalf("expected transformation")
	}
	want := []interface{}{1.0, 2.0, 3.0}
	if !reflect.DeepEqual(tr.CorrectedValue, want) {
		t.Errorf("CorrectedValue = %v, want %v", tr.CorrectedValue, want)
	}
	if !tr.Structural {
		t.Errorf("expected Structural=true for object->array conversion")
	}
}

func TestMathTransformerIdempotentOnArray(t *testing.T) {
	m := MathTransformer{}
	p := errpattern.Pattern{Kind: errpattern.MathTypeArray, MathType: "glam::Vec3"}
	original := []interface{}{1.0, 2.0, 3.0}

	tr, ok := m.TransformWithError(original, p)
	if !ok {
		t.Fatalf("expected transformation")
	}
	if !reflect.DeepEqual(tr.CorrectedValue, original) {
		t.Errorf("CorrectedValue = %v, want unchanged %v", tr.CorrectedValue, original)
	}
	if tr.Structural {
		t.Errorf("expected Structural=false when input was already an array")
	}
}

func TestMathTransformerTransformRecursive(t *testing.T) {
	m := MathTransformer{}
	original := map[string]interface{}{
		"translation": map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0},
		"rotation":    map[string]interface{}{"x": 0.0, "y": 0.0, "z": 0.0, "w": 1.0},
		"scale":       map[string]interface{}{"x": 1.0, "y": 1.0, "z": 1.0},
	}
	p := errpattern.Pattern{Kind: errpattern.TypeMismatch}
	tr, ok := m.Transform(original)
	if !ok {
		tr, ok = m.TransformWithError(original, p)
	}
	if !ok {
		t.Fatalf("expected transformation")
	}
	out, ok := tr.CorrectedValue.(map[string]interface{})
	if !ok {
		t.Fatalf("CorrectedValue is not a map: %v", tr.CorrectedValue)
	}
	if !reflect.DeepEqual(out["translation"], []interface{}{1.0, 2.0, 3.0}) {
		t.Errorf("translation = %v", out["translation"])
	}
	if !reflect.DeepEqual(out["rotation"], []interface{}{0.0, 0.0, 0.0, 1.0}) {
		t.Errorf("rotation = %v", out["rotation"])
	}
}

func TestEnumVariantTransformerUnwrapsSingleFieldObject(t *testing.T) {
	e := EnumVariantTransformer{}
	original := map[string]interface{}{"WithInt": 42.0}
	p := errpattern.Pattern{Kind: errpattern.TypeMismatch, IsVariant: true}

	tr, ok := e.TransformWithError(original, p)
	if !ok {
		t.Fatalf("expected transformation")
	}
	if tr.CorrectedValue != 42.0 {
		t.Errorf("CorrectedValue = %v, want 42.0", tr.CorrectedValue)
	}
}

func TestEnumVariantTransformerTakesFirstArrayElement(t *testing.T) {
	e := EnumVariantTransformer{}
	original := []interface{}{"Idle", "Running"}
	tr, ok := e.Transform(original)
	if !ok {
		t.Fatalf("expected transformation")
	}
	if tr.CorrectedValue != "Idle" {
		t.Errorf("CorrectedValue = %v, want Idle", tr.CorrectedValue)
	}
}

func TestEnumVariantTransformerGuidanceWithKnownVariants(t *testing.T) {
	e := EnumVariantTransformer{}
	p := errpattern.Pattern{
		Kind:                errpattern.EnumUnitVariantMutation,
		ExpectedVariantType: "Idle",
		ActualVariantType:   "Runing",
	}
	info := fakeTypeInfo{variants: []string{"Idle", "Running", "Jumping"}}

	tr, ok := e.TransformWithTypeInfo(nil, p, info)
	if !ok {
		t.Fatalf("expected guidance transformation")
	}
	if tr.Structural {
		t.Errorf("guidance should not be structural")
	}
	if tr.CorrectedValue != nil {
		t.Errorf("guidance should not carry a corrected value")
	}
}

func TestTupleStructTransformerRewritesColorAccess(t *testing.T) {
	tt := TupleStructTransformer{}
	p := errpattern.Pattern{Kind: errpattern.TupleStructAccess, Path: ".LinearRgba.red"}

	tr, ok := tt.TransformWithError(nil, p)
	if !ok {
		t.Fatalf("expected path rewrite")
	}
	if tr.CorrectedPath != ".0.0" {
		t.Errorf("CorrectedPath = %q, want .0.0", tr.CorrectedPath)
	}
}

func TestTupleStructTransformerRewritesMathComponentAccess(t *testing.T) {
	tt := TupleStructTransformer{}
	p := errpattern.Pattern{Kind: errpattern.AccessError, Access: ".Vec3.x"}

	tr, ok := tt.TransformWithError(nil, p)
	if !ok {
		t.Fatalf("expected path rewrite")
	}
	if tr.CorrectedPath != ".0.0" {
		t.Errorf("CorrectedPath = %q, want .0.0", tr.CorrectedPath)
	}
}

func TestTupleStructTransformerLabDisambiguation(t *testing.T) {
	tt := TupleStructTransformer{}
	p := errpattern.Pattern{Kind: errpattern.AccessError, Access: ".Lab.a"}

	tr, ok := tt.TransformWithError(nil, p)
	if !ok {
		t.Fatalf("expected path rewrite")
	}
	if tr.CorrectedPath != ".0.1" {
		t.Errorf("CorrectedPath = %q, want .0.1 (Lab's a disambiguates to index 1)", tr.CorrectedPath)
	}
}

func TestClosestMatches(t *testing.T) {
	got := ClosestMatches("Runing", []string{"Idle", "Running", "Jumping"}, 1)
	if len(got) != 1 || got[0] != "Running" {
		t.Errorf("ClosestMatches = %v, want [Running]", got)
	}
}

func TestRegistryAppliesFirstMatch(t *testing.T) {
	r := NewDefaultRegistry()
	p := errpattern.Pattern{Kind: errpattern.MathTypeArray, MathType: "glam::Vec2"}
	original := map[string]interface{}{"x": 1.0, "y": 2.0}

	tr, ok := r.Apply(p, original, nil)
	if !ok {
		t.Fatalf("expected registry to find a transformer")
	}
	want := []interface{}{1.0, 2.0}
	if !reflect.DeepEqual(tr.CorrectedValue, want) {
		t.Errorf("CorrectedValue = %v, want %v", tr.CorrectedValue, want)
	}
}

func TestRegistryNoMatch(t *testing.T) {
	r := NewDefaultRegistry()
	p := errpattern.Pattern{Kind: errpattern.Unrecognized}
	if _, ok := r.Apply(p, "anything", nil); ok {
		t.Errorf("expected no transformer to handle Unrecognized")
	}
}

type fakeTypeInfo struct {
	mathType string
	isMath   bool
	variants []string
}

func (f fakeTypeInfo) MathType() (string, bool) { return f.mathType, f.isMath }
func (f fakeTypeInfo) KnownVariants() ([]string, bool) {
	return f.variants, len(f.variants) > 0
}
