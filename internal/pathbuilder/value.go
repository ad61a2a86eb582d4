package pathbuilder

import (
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildValue handles leaf types (spec §4.4, "Value"). Its example is drawn
// from knowledge if present (handled earlier in build()), else the
// schema's own default, else a type-appropriate zero value. Mutability is
// Mutable iff both Serialize and Deserialize traits are present.
func (c *ctx) buildValue(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	mutability := Mutable
	reason := ReasonNone
	if !schema.Traits.BRPCompatible() {
		mutability = NotMutable
		reason = ReasonMissingSerialization
	}

	example := schema.Default
	if example == nil {
		example = zeroValueFor(typ)
	}

	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: example},
		forParent:  example,
		mutability: mutability,
		reason:     reason,
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}

// zeroValueFor provides a type-appropriate fallback example when neither
// knowledge nor the schema's own default supplies one.
func zeroValueFor(typ typename.Name) interface{} {
	switch typ.Base() {
	case "bool":
		return false
	case "alloc::string::String", "&str", "str":
		return ""
	default:
		return 0
	}
}
