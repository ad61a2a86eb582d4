package pathbuilder

import (
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildArray emits one exemplar child path at index "0" for a fixed-length
// array, and assembles the example as [child_example; length] (spec §4.4).
func (c *ctx) buildArray(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	childPath := path + "[0]"
	child := c.build(schema.ItemType, childPath, depth+1, chain, nil, nil)
	childVal := forParentValue(child)

	length := schema.ArrayLen
	if length <= 0 {
		length = 1
	}
	example := make([]interface{}, length)
	for i := range example {
		example[i] = childVal
	}

	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: example},
		forParent:  example,
		mutability: combineChildren([]Mutability{child.mutability}),
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}
