package pathbuilder

import (
	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildStruct assembles a Struct's example as a JSON object and emits one
// child path per field, prefixed with ".<field_name>" (spec §4.4).
func (c *ctx) buildStruct(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	obj := make(map[string]interface{}, len(schema.Properties))
	var childMut []Mutability
	for _, f := range schema.Properties {
		childPath := path + "." + f.Name
		fieldCtx := &knowledge.FieldContext{StructType: typ, Field: f.Name}
		child := c.build(f.Type, childPath, depth+1, chain, nil, fieldCtx)
		obj[f.Name] = forParentValue(child)
		childMut = append(childMut, child.mutability)
	}
	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: obj},
		forParent:  obj,
		mutability: combineChildren(childMut),
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}

// forParentValue extracts the concrete value a parent assembles with:
// Simple's value, or EnumRoot's ForParent (spec §3).
func forParentValue(n node) interface{} {
	if n.example.Kind == ExampleEnumRoot {
		return n.example.ForParent
	}
	return n.example.Simple
}

// classifyPathKind infers a path's kind from its final addressing
// segment (spec §3: ".<field>", ".<tuple_index>", "[<array_index>]",
// "[<map_key>]"; empty string is root).
func classifyPathKind(path string) PathKind {
	if path == "" {
		return PathKindRoot
	}
	if i := lastSegmentStart(path); i >= 0 {
		switch path[i] {
		case '[':
			inner := path[i+1:]
			if len(inner) > 0 && inner[len(inner)-1] == ']' {
				inner = inner[:len(inner)-1]
			}
			if isAllDigits(inner) {
				return PathKindArrayIndex
			}
			return PathKindMapKey
		case '.':
			if isAllDigits(path[i+1:]) {
				return PathKindTupleIndex
			}
			return PathKindField
		}
	}
	return PathKindField
}

func lastSegmentStart(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' || path[i] == '[' {
			return i
		}
	}
	return -1
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
