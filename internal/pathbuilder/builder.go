package pathbuilder

import (
	"fmt"
	"sort"

	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// pendingLevel is a to-be-patched VariantPath entry: EnumPath, VariantName
// and Instruction are known as soon as descent enters the variant; Example
// is filled in once that enum's own assembled example is known (spec §4.4
// ascent step 8, "Update variant_path entries").
type pendingLevel struct {
	enumPath    string
	variantName string
	instruction string
	example     interface{}
	filled      bool
}

// node is the per-call recursion result: the value a parent assembles with,
// plus bookkeeping for mutability and (for enum nodes) partial root
// examples.
type node struct {
	example        PathExample
	forParent      interface{}
	mutability     Mutability
	reason         MutabilityReason
	isEnumRoot     bool
	partialRoots   map[string]interface{} // only set when isEnumRoot
}

type ctx struct {
	reg        reg
	knowledge  *knowledge.Table
	catalog    *Catalog
	depthLimit int
	// pendingByPath records, per created path, the chain of enclosing-enum
	// pendingLevel pointers active when that path was created, outermost
	// first. Finalized into EnumPathData.Levels once Build returns.
	pendingByPath map[string][]*pendingLevel
}

// Build produces the exhaustive mutation-path catalog for root (spec §4.4).
func Build(r *registry.Registry, kt *knowledge.Table, root typename.Name, opts Options) *Catalog {
	c := &ctx{
		reg:           r,
		knowledge:     kt,
		catalog:       newCatalog(root),
		depthLimit:    opts.depthLimit(),
		pendingByPath: make(map[string][]*pendingLevel),
	}
	c.build(root, "", 0, nil, nil, nil)
	c.finalize()
	return c.catalog
}

// build is the single recursive descent (spec §4.4). path is this node's
// own addressing string; chain is the active enclosing-enum pendingLevel
// stack (outermost first); variantCtx/fieldCtx, when non-nil, supply
// knowledge-table lookup context for this exact node.
func (c *ctx) build(typ typename.Name, path string, depth int, chain []*pendingLevel, variantCtx *knowledge.VariantSigContext, fieldCtx *knowledge.FieldContext) node {
	// Descent contract step 1: recursion limit.
	if depth >= c.depthLimit {
		n := node{
			example:    PathExample{Kind: ExampleSimple, Simple: nil},
			mutability: NotMutable,
			reason:     ReasonRecursionLimitExceeded,
		}
		c.emit(path, typ, depth, chain, n, classifyPathKind(path))
		return n
	}

	schema := c.reg.Get(typ)

	// Descent contract step 2: not in registry.
	if !schema.InRegistry {
		n := node{
			example:    PathExample{Kind: ExampleSimple, Simple: nil},
			mutability: NotMutable,
			reason:     ReasonNotInRegistry,
		}
		c.emit(path, typ, depth, chain, n, classifyPathKind(path))
		return n
	}

	// Descent contract step 3: knowledge lookup.
	if entry, ok := c.knowledge.Lookup(typ, variantCtx, fieldCtx); ok {
		if entry.Kind == knowledge.TreatAsRootValue {
			n := node{
				example:    PathExample{Kind: ExampleSimple, Simple: entry.Example},
				forParent:  entry.Example,
				mutability: Mutable,
			}
			c.emit(path, typ, depth, chain, n, classifyPathKind(path))
			return n
		}
		// TeachAndRecurse: keep descending through the per-kind builder, then
		// substitute the taught example for the assembled one here and patch
		// the already-emitted entry (spec §4.2/§4.4 "knowledge table override").
		n := c.buildByKind(typ, schema, path, depth, chain)
		n.forParent = entry.Example
		if n.example.Kind == ExampleSimple {
			n.example.Simple = entry.Example
		}
		c.patchPath(path, n)
		return n
	}

	return c.buildByKind(typ, schema, path, depth, chain)
}

// buildByKind dispatches to one of the nine per-kind sub-builders by a
// switch over TypeKind (spec §9, "Polymorphism over sub-builders").
func (c *ctx) buildByKind(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	if handle, inner := handleWrapped(schema); handle {
		n := node{
			mutability: NotMutable,
			reason:     ReasonNonMutatableHandle,
			example:    PathExample{Kind: ExampleSimple, Simple: fmt.Sprintf("<Handle<%s>>", inner)},
		}
		c.emit(path, typ, depth, chain, n, classifyPathKind(path))
		return n
	}

	var n node
	switch schema.Kind {
	case registry.KindStruct:
		n = c.buildStruct(typ, schema, path, depth, chain)
	case registry.KindTuple:
		n = c.buildTuple(typ, schema, path, depth, chain, false)
	case registry.KindTupleStruct:
		n = c.buildTuple(typ, schema, path, depth, chain, true)
	case registry.KindArray:
		n = c.buildArray(typ, schema, path, depth, chain)
	case registry.KindList:
		n = c.buildList(typ, schema, path, depth, chain)
	case registry.KindMap:
		n = c.buildMap(typ, schema, path, depth, chain)
	case registry.KindSet:
		n = c.buildSet(typ, schema, path, depth, chain)
	case registry.KindEnum:
		n = c.buildEnum(typ, schema, path, depth, chain)
	default:
		n = c.buildValue(typ, schema, path, depth, chain)
	}
	return n
}

// handleWrapped detects a single-field tuple struct wrapping an asset
// handle (spec §4.4, mutability details): structurally, a single-field
// tuple struct whose child's fully-qualified name starts with
// "bevy_asset::handle::Handle<".
func handleWrapped(schema *registry.TypeSchema) (bool, string) {
	if schema.Kind != registry.KindTupleStruct || len(schema.PrefixItems) != 1 {
		return false, ""
	}
	childName := string(schema.PrefixItems[0].Type)
	const prefix = "bevy_asset::handle::Handle<"
	if len(childName) >= len(prefix) && childName[:len(prefix)] == prefix {
		return true, childName
	}
	return false, ""
}

// emit registers a catalog entry built from a node, and records the active
// enclosing-enum chain for later finalization.
func (c *ctx) emit(path string, typ typename.Name, depth int, chain []*pendingLevel, n node, kind PathKind) {
	mp := &MutationPathInternal{
		Path:             path,
		Example:          n.example,
		TypeName:         typ,
		PathKind:         kind,
		Mutability:       n.mutability,
		MutabilityReason: n.reason,
		Depth:            depth,
	}
	if n.isEnumRoot {
		mp.PartialRootExamples = n.partialRoots
	}
	c.catalog.add(mp)
	if len(chain) > 0 {
		cp := make([]*pendingLevel, len(chain))
		copy(cp, chain)
		c.pendingByPath[path] = cp
	}
}

// patchPath updates an already-emitted entry's Example (used
// when a TeachAndRecurse knowledge override replaces the structurally
// assembled example after the per-kind builder already emitted one).
func (c *ctx) patchPath(path string, n node) {
	if mp, ok := c.catalog.ByPath(path); ok {
		mp.Example = n.example
	}
}

// finalize converts the pendingLevel chains collected during Build into
// each path's EnumPathData (spec §3, §4.4).
func (c *ctx) finalize() {
	for _, mp := range c.catalog.Paths {
		chain := c.pendingByPath[mp.Path]
		if len(chain) == 0 {
			continue
		}
		epd := &EnumPathData{}
		for i, pl := range chain {
			epd.VariantChain = append(epd.VariantChain, pl.variantName)
			epd.Levels = append(epd.Levels, VariantPath{
				EnumPath:    pl.enumPath,
				VariantName: pl.variantName,
				Instruction: pl.instruction,
				Example:     pl.example,
			})
			if i == 0 {
				epd.RootExample = pl.example
			}
		}
		// ApplicableVariants for the nearest enclosing enum is whatever
		// that enum's ExampleGroup recorded; recover it from the enum's
		// own catalog entry group list.
		nearest := chain[len(chain)-1]
		if enumEntry, ok := c.catalog.ByPath(nearest.enumPath); ok && enumEntry.Example.Kind == ExampleEnumRoot {
			for _, g := range enumEntry.Example.Groups {
				for _, v := range g.ApplicableVariants {
					if v == nearest.variantName {
						epd.ApplicableVariants = g.ApplicableVariants
					}
				}
			}
		}
		if len(epd.ApplicableVariants) == 0 {
			epd.ApplicableVariants = []string{nearest.variantName}
		}
		mp.EnumPathData = epd
	}
}

// sortedKeys returns m's keys sorted, for deterministic map/set exemplar
// selection.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
