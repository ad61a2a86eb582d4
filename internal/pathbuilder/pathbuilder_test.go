package pathbuilder

import (
	"encoding/json"
	"testing"

	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

func mustRegistry(t *testing.T, defs map[string]string) *registry.Registry {
	t.Helper()
	raw := make(map[string]json.RawMessage, len(defs))
	for k, v := range defs {
		raw[k] = json.RawMessage(v)
	}
	reg, err := registry.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return reg
}

func TestBuildStructEmitsFieldPaths(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Position": `{
			"kind": "struct",
			"reflectTypes": ["Serialize", "Deserialize"],
			"properties": {
				"x": {"type": {"$ref": "#/$defs/f32"}},
				"y": {"type": {"$ref": "#/$defs/f32"}}
			}
		}`,
		"f32": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})

	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Position"), Options{})

	root, ok := cat.ByPath("")
	if !ok {
		t.Fatalf("expected root path")
	}
	if root.Mutability != Mutable {
		t.Errorf("root mutability = %v, want Mutable", root.Mutability)
	}

	if _, ok := cat.ByPath(".x"); !ok {
		t.Errorf("expected .x path in catalog")
	}
	if _, ok := cat.ByPath(".y"); !ok {
		t.Errorf("expected .y path in catalog")
	}
}

func TestBuildNotInRegistryIsNotMutable(t *testing.T) {
	reg := mustRegistry(t, map[string]string{})
	cat := Build(reg, knowledge.NewTable(), typename.Name("unknown::Type"), Options{})

	root, ok := cat.ByPath("")
	if !ok {
		t.Fatalf("expected root path")
	}
	if root.Mutability != NotMutable {
		t.Errorf("mutability = %v, want NotMutable", root.Mutability)
	}
	if root.MutabilityReason != ReasonNotInRegistry {
		t.Errorf("reason = %v, want ReasonNotInRegistry", root.MutabilityReason)
	}
}

func TestBuildMissingSerializationTraitsIsNotMutable(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Opaque": `{"kind": "value", "reflectTypes": []}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Opaque"), Options{})

	root, _ := cat.ByPath("")
	if root.Mutability != NotMutable {
		t.Errorf("mutability = %v, want NotMutable", root.Mutability)
	}
	if root.MutabilityReason != ReasonMissingSerialization {
		t.Errorf("reason = %v, want ReasonMissingSerialization", root.MutabilityReason)
	}
}

func TestBuildTupleStructSingleField(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Speed": `{
			"kind": "struct",
			"reflectTypes": ["Serialize", "Deserialize"],
			"prefixItems": [{"type": {"$ref": "#/$defs/f32"}}]
		}`,
		"f32": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Speed"), Options{})

	if _, ok := cat.ByPath(".0"); !ok {
		t.Errorf("expected .0 path for tuple struct field")
	}
}

func TestBuildEnumDeduplicatesVariantsBySignature(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Shape": `{
			"kind": "enum",
			"reflectTypes": ["Serialize", "Deserialize"],
			"oneOf": [
				{"shortPath": "Circle", "prefixItems": [{"type": {"$ref": "#/$defs/f32"}}]},
				{"shortPath": "Square", "prefixItems": [{"type": {"$ref": "#/$defs/f32"}}]},
				"Point"
			]
		}`,
		"f32": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Shape"), Options{})

	root, ok := cat.ByPath("")
	if !ok {
		t.Fatalf("expected root enum path")
	}
	if root.Example.Kind != ExampleEnumRoot {
		t.Fatalf("expected ExampleEnumRoot, got %v", root.Example.Kind)
	}
	// Circle and Square share signature Tuple(f32); Point is its own Unit group.
	if len(root.Example.Groups) != 2 {
		t.Errorf("len(Groups) = %d, want 2 (dedup by signature)", len(root.Example.Groups))
	}
	found := false
	for _, g := range root.Example.Groups {
		if len(g.ApplicableVariants) == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected one group with 2 applicable variants (Circle, Square)")
	}
}

func TestBuildEnumStructVariantProducesEnumPathData(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Action": `{
			"kind": "enum",
			"reflectTypes": ["Serialize", "Deserialize"],
			"oneOf": [
				{"shortPath": "Move", "properties": {"dx": {"type": {"$ref": "#/$defs/f32"}}}}
			]
		}`,
		"f32": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Action"), Options{})

	child, ok := cat.ByPath(".dx")
	if !ok {
		t.Fatalf("expected .dx path inside Move variant")
	}
	if child.EnumPathData == nil {
		t.Fatalf("expected EnumPathData on enum-nested field path")
	}
	if len(child.EnumPathData.VariantChain) != 1 || child.EnumPathData.VariantChain[0] != "Move" {
		t.Errorf("VariantChain = %v, want [Move]", child.EnumPathData.VariantChain)
	}
}

func TestBuildArrayAndListExemplarPaths(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Grid": `{
			"kind": "array",
			"reflectTypes": ["Serialize", "Deserialize"],
			"items": {"$ref": "#/$defs/f32"},
			"prefixItems": [{}, {}, {}]
		}`,
		"my_crate::Tags": `{
			"kind": "array",
			"reflectTypes": ["Serialize", "Deserialize"],
			"items": {"$ref": "#/$defs/f32"}
		}`,
		"f32": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})

	arrCat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Grid"), Options{})
	if _, ok := arrCat.ByPath("[0]"); !ok {
		t.Errorf("expected [0] exemplar path for fixed array")
	}

	listCat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Tags"), Options{})
	if _, ok := listCat.ByPath("[0]"); !ok {
		t.Errorf("expected [0] exemplar path for list")
	}
}

func TestBuildMapExemplarPathAndKeyNotAddressable(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Scores": `{
			"kind": "map",
			"reflectTypes": ["Serialize", "Deserialize"],
			"keyType": {"$ref": "#/$defs/alloc::string::String"},
			"valueType": {"$ref": "#/$defs/f32"}
		}`,
		"alloc::string::String": `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
		"f32":                   `{"kind": "value", "reflectTypes": ["Serialize", "Deserialize"]}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Scores"), Options{})

	foundEntry := false
	for _, p := range cat.Paths {
		if p.Path != "" && p.PathKind == PathKindMapKey {
			foundEntry = true
		}
	}
	if !foundEntry {
		t.Errorf("expected one map-key-shaped exemplar entry path")
	}
	// No separate catalog path should exist purely for the key type itself
	// beyond the one exemplar entry.
	if len(cat.Paths) != 2 {
		t.Errorf("len(Paths) = %d, want 2 (root + one exemplar entry)", len(cat.Paths))
	}
}

func TestBuildRecursionLimitStopsDescent(t *testing.T) {
	reg := mustRegistry(t, map[string]string{
		"my_crate::Node": `{
			"kind": "struct",
			"reflectTypes": ["Serialize", "Deserialize"],
			"properties": {
				"next": {"type": {"$ref": "#/$defs/my_crate::Node"}}
			}
		}`,
	})
	cat := Build(reg, knowledge.NewTable(), typename.Name("my_crate::Node"), Options{DepthLimit: 3})

	maxDepth := 0
	for _, p := range cat.Paths {
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
	}
	if maxDepth > 3 {
		t.Errorf("max depth observed = %d, want <= 3", maxDepth)
	}
	var hitLimit bool
	for _, p := range cat.Paths {
		if p.MutabilityReason == ReasonRecursionLimitExceeded {
			hitLimit = true
		}
	}
	if !hitLimit {
		t.Errorf("expected at least one path with ReasonRecursionLimitExceeded")
	}
}

func TestCombineChildrenMutability(t *testing.T) {
	cases := []struct {
		name string
		in   []Mutability
		want Mutability
	}{
		{"empty", nil, Mutable},
		{"all mutable", []Mutability{Mutable, Mutable}, Mutable},
		{"all not mutable", []Mutability{NotMutable, NotMutable}, NotMutable},
		{"mixed", []Mutability{Mutable, NotMutable}, PartiallyMutable},
		{"partial propagates", []Mutability{Mutable, PartiallyMutable}, PartiallyMutable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := combineChildren(tc.in); got != tc.want {
				t.Errorf("combineChildren(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
