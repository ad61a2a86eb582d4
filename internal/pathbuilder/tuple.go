package pathbuilder

import (
	"strconv"

	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildTuple assembles a Tuple/TupleStruct's example as a JSON array,
// unless there is exactly one child, in which case BRP unwraps the
// single-field tuple and the parent's example is the child's example
// directly (spec §4.4, Tuple/TupleStruct specifics).
func (c *ctx) buildTuple(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel, isTupleStruct bool) node {
	children := make([]interface{}, 0, len(schema.PrefixItems))
	var childMut []Mutability
	for i, f := range schema.PrefixItems {
		idx := strconv.Itoa(i)
		childPath := path + "." + idx
		child := c.build(f.Type, childPath, depth+1, chain, nil, nil)
		children = append(children, forParentValue(child))
		childMut = append(childMut, child.mutability)
	}

	var example interface{} = children
	if len(children) == 1 {
		example = children[0]
	}

	n := node{
		example:    PathExample{Kind: ExampleSimple, Simple: example},
		forParent:  example,
		mutability: combineChildren(childMut),
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}
