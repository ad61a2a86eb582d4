package errpattern

import "testing"

func TestClassifyMathTypeArray(t *testing.T) {
	p := Classify(CodeAccessError, "invalid type: map, expected an array for `glam::Vec3`", nil)
	if p.Kind != MathTypeArray {
		t.Fatalf("Kind = %v, want MathTypeArray", p.Kind)
	}
	if p.MathType != "glam::Vec3" {
		t.Errorf("MathType = %q, want glam::Vec3", p.MathType)
	}
}

func TestClassifyTransformSequence(t *testing.T) {
	p := Classify(CodeAccessError, "invalid length 2, expected a sequence of length 3", nil)
	if p.Kind != TransformSequence {
		t.Fatalf("Kind = %v, want TransformSequence", p.Kind)
	}
	if p.ExpectedCount != 3 {
		t.Errorf("ExpectedCount = %d, want 3", p.ExpectedCount)
	}
}

func TestClassifyTupleStructAccess(t *testing.T) {
	p := Classify(CodeAccessError, "Error accessing element with `.LinearRgba.red`: expected tuple struct, found struct", nil)
	if p.Kind != TupleStructAccess {
		t.Fatalf("Kind = %v, want TupleStructAccess", p.Kind)
	}
	if p.Path != ".LinearRgba.red" {
		t.Errorf("Path = %q, want .LinearRgba.red", p.Path)
	}
}

func TestClassifyEnumUnitVariantAccessError(t *testing.T) {
	msg := "Error accessing element with `.0`: expected variant `Idle`, found variant `Running`"
	p := Classify(CodeAccessError, msg, nil)
	if p.Kind != EnumUnitVariantAccessError {
		t.Fatalf("Kind = %v, want EnumUnitVariantAccessError", p.Kind)
	}
	if p.Access != ".0" || p.ExpectedVariantType != "Idle" || p.ActualVariantType != "Running" {
		t.Errorf("got Access=%q Expected=%q Actual=%q", p.Access, p.ExpectedVariantType, p.ActualVariantType)
	}
}

func TestClassifyEnumUnitVariantMutation(t *testing.T) {
	p := Classify(CodeAccessError, "Could not set variant: expected `Idle`, found `Running`", nil)
	if p.Kind != EnumUnitVariantMutation {
		t.Fatalf("Kind = %v, want EnumUnitVariantMutation", p.Kind)
	}
	if p.ExpectedVariantType != "Idle" || p.ActualVariantType != "Running" {
		t.Errorf("got Expected=%q Actual=%q", p.ExpectedVariantType, p.ActualVariantType)
	}
}

func TestClassifyTypeMismatchWithAccessIsVariant(t *testing.T) {
	msg := "Error accessing element with `.state`: Expected `Idle` variant, found `f32`"
	p := Classify(CodeAccessError, msg, nil)
	if p.Kind != TypeMismatch {
		t.Fatalf("Kind = %v, want TypeMismatch", p.Kind)
	}
	if !p.IsVariant {
		t.Errorf("IsVariant = false, want true")
	}
	if p.Access != ".state" || p.Expected != "Idle" || p.Actual != "f32" {
		t.Errorf("got Access=%q Expected=%q Actual=%q", p.Access, p.Expected, p.Actual)
	}
}

func TestClassifyMissingField(t *testing.T) {
	p := Classify(CodeAccessError, "Unknown field `count` on type `my_crate::Stats`", nil)
	if p.Kind != MissingField {
		t.Fatalf("Kind = %v, want MissingField", p.Kind)
	}
	if p.Field != "count" || p.Type != "my_crate::Stats" {
		t.Errorf("got Field=%q Type=%q", p.Field, p.Type)
	}
}

func TestClassifyAccessErrorGenericFallback(t *testing.T) {
	p := Classify(CodeAccessError, "Error accessing element with `.foo`: something unforeseen happened", nil)
	if p.Kind != AccessError {
		t.Fatalf("Kind = %v, want AccessError", p.Kind)
	}
	if p.Access != ".foo" || p.ErrorType != "something unforeseen happened" {
		t.Errorf("got Access=%q ErrorType=%q", p.Access, p.ErrorType)
	}
}

func TestClassifyExpectedType(t *testing.T) {
	p := Classify(CodeAccessError, "Expected type `my_crate::Health`", nil)
	if p.Kind != ExpectedType {
		t.Fatalf("Kind = %v, want ExpectedType", p.Kind)
	}
	if p.Expected != "my_crate::Health" {
		t.Errorf("Expected = %q, want my_crate::Health", p.Expected)
	}
}

func TestClassifyUnrecognizedIsTotal(t *testing.T) {
	p := Classify(CodeInternalError, "something entirely unstructured", nil)
	if p.Kind != Unrecognized {
		t.Fatalf("Kind = %v, want Unrecognized", p.Kind)
	}
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify(CodeAccessError, "invalid type: map, expected an array for `glam::Vec3`", nil)
	b := Classify(CodeAccessError, "invalid type: map, expected an array for `glam::Vec3`", nil)
	if a != b {
		t.Errorf("Classify is not pure: %+v != %+v", a, b)
	}
}

func TestIsRecoverableCode(t *testing.T) {
	if !IsRecoverableCode(CodeInvalidParams) {
		t.Errorf("CodeInvalidParams should be recoverable")
	}
	if IsRecoverableCode(404) {
		t.Errorf("arbitrary code 404 should not be recoverable")
	}
}

func TestLooksVariantLikeAndLowercase(t *testing.T) {
	if !LooksVariantLike("Idle") {
		t.Errorf("Idle should look variant-like")
	}
	if LooksVariantLike("count") {
		t.Errorf("count should not look variant-like")
	}
	if !LooksLowercaseField("count") {
		t.Errorf("count should look like a lowercase field")
	}
	if LooksLowercaseField("Idle") {
		t.Errorf("Idle should not look like a lowercase field")
	}
}
