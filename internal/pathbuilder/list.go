package pathbuilder

import (
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildList emits one exemplar child path at index 0 for an unbounded
// list. The list's own example is [] by default, or [child_example] when
// the child could be synthesized (spec §4.4).
func (c *ctx) buildList(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	childPath := path + "[0]"
	child := c.build(schema.ItemType, childPath, depth+1, chain, nil, nil)
	childVal := forParentValue(child)

	var example interface{} = []interface{}{}
	if child.mutability != NotMutable && childVal != nil {
		example = []interface{}{childVal}
	}

	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: example},
		forParent:  example,
		mutability: combineChildren([]Mutability{child.mutability}),
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}
