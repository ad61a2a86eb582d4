package pathbuilder

import (
	"fmt"

	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildMap emits one exemplar entry path keyed by the key type's example,
// with the value type's example as the entry's value (spec §4.4). The key
// type itself does not get a separate catalog path: only the entry
// (value) is addressable.
func (c *ctx) buildMap(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	keyVal, keyMut := c.exampleOnly(schema.KeyType)
	keySeg := renderKeySegment(keyVal)
	childPath := path + "[" + keySeg + "]"

	valChild := c.build(schema.ValueType, childPath, depth+1, chain, nil, nil)
	valVal := forParentValue(valChild)

	example := map[string]interface{}{keySeg: valVal}
	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: example},
		forParent:  example,
		mutability: combineChildren([]Mutability{keyMut, valChild.mutability}),
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}

// buildSet emits one exemplar entry path; the set's own example is a
// single-element array containing the key example. Per spec §4.4, sets
// expose one exemplar entry path the same way maps do.
func (c *ctx) buildSet(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	keyVal, keyMut := c.exampleOnly(schema.KeyType)
	keySeg := renderKeySegment(keyVal)
	childPath := path + "[" + keySeg + "]"
	c.emit(childPath, schema.KeyType, depth+1, chain, node{
		example:    PathExample{Kind: ExampleSimple, Simple: keyVal},
		forParent:  keyVal,
		mutability: keyMut,
	}, classifyPathKind(childPath))

	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: []interface{}{keyVal}},
		forParent:  []interface{}{keyVal},
		mutability: keyMut,
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}

func renderKeySegment(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// exampleOnly resolves a type's example value via knowledge/registry
// defaults without registering catalog paths or recursing into children.
// Used for map/set key examples, which are not themselves addressable.
func (c *ctx) exampleOnly(typ typename.Name) (interface{}, Mutability) {
	if entry, ok := c.knowledge.Lookup(typ, nil, nil); ok {
		return entry.Example, Mutable
	}
	schema := c.reg.Get(typ)
	if !schema.InRegistry {
		return nil, NotMutable
	}
	if !schema.Traits.BRPCompatible() && schema.Kind == registry.KindValue {
		return nil, NotMutable
	}
	switch schema.Kind {
	case registry.KindStruct, registry.KindMap:
		return map[string]interface{}{}, Mutable
	case registry.KindTuple, registry.KindTupleStruct, registry.KindArray, registry.KindList, registry.KindSet:
		return []interface{}{}, Mutable
	default:
		return "", Mutable
	}
}
