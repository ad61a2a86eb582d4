package pathbuilder

import (
	"sort"
	"strconv"

	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// buildEnum implements the Enum sub-builder (spec §4.4). Variants are
// deduplicated by signature; each unique signature gets one ExampleGroup,
// and its subtree is built exactly once and shared by every variant with
// that signature (spec §8 property 3).
func (c *ctx) buildEnum(typ typename.Name, schema *registry.TypeSchema, path string, depth int, chain []*pendingLevel) node {
	type groupInfo struct {
		signature  string
		variants   []registry.Variant // all sharing this signature, in first-seen order
		example    interface{}
		mutability Mutability
	}

	order := make([]string, 0)
	groups := make(map[string]*groupInfo)
	for _, v := range schema.Variants {
		sig := v.Signature()
		g, ok := groups[sig]
		if !ok {
			g = &groupInfo{signature: sig}
			groups[sig] = g
			order = append(order, sig)
		}
		g.variants = append(g.variants, v)
	}

	selfMutable := schema.Traits.BRPCompatible()

	exampleGroups := make([]ExampleGroup, 0, len(order))
	partialRoots := make(map[string]interface{})

	for _, sig := range order {
		g := groups[sig]
		rep := g.variants[0]
		applicable := variantNames(g.variants)

		var example interface{}
		var mut Mutability
		switch rep.Kind {
		case registry.VariantUnit:
			example = rep.Name
			mut = Mutable
		case registry.VariantTuple:
			example, mut = c.buildTupleVariant(typ, rep, sig, path, depth, chain)
		case registry.VariantStruct:
			example, mut = c.buildStructVariant(typ, rep, path, depth, chain)
		}
		if !selfMutable {
			mut = NotMutable
		}

		exampleGroups = append(exampleGroups, ExampleGroup{
			ApplicableVariants: applicable,
			SignatureString:    sig,
			Example:            example,
			Mutability:         mut,
		})
		for _, name := range applicable {
			partialRoots[name] = example
		}
	}

	forParent := enumForParent(exampleGroups, schema.Variants)

	groupMuts := make([]Mutability, len(exampleGroups))
	for i, g := range exampleGroups {
		groupMuts[i] = g.Mutability
	}
	overall := combineChildren(groupMuts)
	reason := ReasonNone
	if overall == NotMutable && !selfMutable {
		reason = ReasonMissingSerialization
	}

	n := node{
		example: PathExample{
			Kind:      ExampleEnumRoot,
			Groups:    exampleGroups,
			ForParent: forParent,
		},
		forParent:    forParent,
		mutability:   overall,
		reason:       reason,
		isEnumRoot:   true,
		partialRoots: partialRoots,
	}
	c.emit(path, typ, depth, chain, n, classifyPathKind(path))
	return n
}

// buildTupleVariant assembles a Tuple-shaped variant's example as
// {VariantName: inner_value}, unwrapping inner_value when it has a single
// element (spec §4.4, Enum "Tuple" case).
func (c *ctx) buildTupleVariant(enumType typename.Name, v registry.Variant, signature, path string, depth int, chain []*pendingLevel) (interface{}, Mutability) {
	level := &pendingLevel{enumPath: path, variantName: v.Name, instruction: "select variant " + v.Name}
	childChain := append(append([]*pendingLevel{}, chain...), level)

	children := make([]interface{}, 0, len(v.Tuple))
	var childMut []Mutability
	for i, f := range v.Tuple {
		idx := strconv.Itoa(i)
		childPath := path + "." + idx
		variantCtx := &knowledge.VariantSigContext{EnumType: enumType, Signature: signature, Index: i}
		child := c.build(f.Type, childPath, depth+1, childChain, variantCtx, nil)
		children = append(children, forParentValue(child))
		childMut = append(childMut, child.mutability)
	}

	var inner interface{} = children
	if len(children) == 1 {
		inner = children[0]
	}
	level.example = map[string]interface{}{v.Name: inner}
	level.filled = true
	return map[string]interface{}{v.Name: inner}, combineChildren(childMut)
}

// buildStructVariant assembles a Struct-shaped variant's example as
// {VariantName: {field: inner_value, ...}} (spec §4.4, Enum "Struct" case).
func (c *ctx) buildStructVariant(enumType typename.Name, v registry.Variant, path string, depth int, chain []*pendingLevel) (interface{}, Mutability) {
	level := &pendingLevel{enumPath: path, variantName: v.Name, instruction: "select variant " + v.Name}
	childChain := append(append([]*pendingLevel{}, chain...), level)

	obj := make(map[string]interface{}, len(v.Struct))
	var childMut []Mutability
	for _, f := range v.Struct {
		childPath := path + "." + f.Name
		fieldCtx := &knowledge.FieldContext{StructType: typename.Name(string(enumType) + "::" + v.Name), Field: f.Name}
		child := c.build(f.Type, childPath, depth+1, childChain, nil, fieldCtx)
		obj[f.Name] = forParentValue(child)
		childMut = append(childMut, child.mutability)
	}
	level.example = map[string]interface{}{v.Name: obj}
	level.filled = true
	return map[string]interface{}{v.Name: obj}, combineChildren(childMut)
}

func variantNames(vs []registry.Variant) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name
	}
	return names
}

// enumForParent picks the example the enum's parent embeds: the first
// signature's example, preferring a Unit variant if any exists, else the
// lexicographically first variant name's group (spec §4.4, Enum).
func enumForParent(groups []ExampleGroup, variants []registry.Variant) interface{} {
	for _, v := range variants {
		if v.Kind == registry.VariantUnit {
			return v.Name
		}
	}
	names := make([]string, 0, len(variants))
	nameToExample := make(map[string]interface{}, len(variants))
	for _, g := range groups {
		for _, n := range g.ApplicableVariants {
			names = append(names, n)
			nameToExample[n] = g.Example
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil
	}
	return nameToExample[names[0]]
}
