// Package pathbuilder implements C4: the mutation-path builder. For a
// registered type it performs a single recursive descent over the
// registry's schema view, producing the exhaustive catalog of mutation
// paths a caller may address, each annotated with an example, a mutability
// status, and (when relevant) an enum-variant context (spec §4.4).
package pathbuilder

import (
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// Mutability is the tri-state status of a mutation path (spec §3).
type Mutability int

const (
	Mutable Mutability = iota
	NotMutable
	PartiallyMutable
)

func (m Mutability) String() string {
	switch m {
	case Mutable:
		return "Mutable"
	case NotMutable:
		return "NotMutable"
	case PartiallyMutable:
		return "PartiallyMutable"
	default:
		return "Unknown"
	}
}

// PathExampleKind tags the two PathExample shapes (spec §3).
type PathExampleKind int

const (
	ExampleSimple PathExampleKind = iota
	ExampleEnumRoot
)

// PathExample is the example value attached to a mutation path. Exactly one
// of Simple or EnumRoot fields is meaningful, selected by Kind.
type PathExample struct {
	Kind     PathExampleKind
	Simple   interface{}    // non-enum nodes and enum leaves
	Groups   []ExampleGroup // EnumRoot: one per distinct variant signature
	ForParent interface{}   // EnumRoot: the concrete value parents use
}

// ExampleGroup is one distinct-signature group of enum variants (spec §3).
type ExampleGroup struct {
	ApplicableVariants []string
	SignatureString    string
	Example            interface{}
	Mutability         Mutability
}

// VariantPath is one entry of an enum-variant-path guidance chain (spec
// §4.4, "Variant-path contract").
type VariantPath struct {
	EnumPath    string // the outer enum's own mutation path
	VariantName string
	Instruction string
	Example     interface{} // literal example to set at that level
}

// EnumPathData annotates a path that lives inside one or more enums (spec
// §3, §4.4).
type EnumPathData struct {
	VariantChain       []string // outermost first
	ApplicableVariants []string
	RootExample        interface{} // optional; outermost enum's selection value
	Levels             []VariantPath
}

// PathKind classifies how a path's final segment addresses its parent.
type PathKind int

const (
	PathKindRoot PathKind = iota
	PathKindField
	PathKindTupleIndex
	PathKindArrayIndex
	PathKindMapKey
)

// MutabilityReason names why a path is NotMutable/PartiallyMutable, for
// user-facing diagnostics (spec §7).
type MutabilityReason string

const (
	ReasonNone                   MutabilityReason = ""
	ReasonNotInRegistry          MutabilityReason = "NotInRegistry"
	ReasonMissingSerialization   MutabilityReason = "MissingSerializationTraits"
	ReasonRecursionLimitExceeded MutabilityReason = "RecursionLimitExceeded"
	ReasonNonMutatableHandle     MutabilityReason = "NonMutatableHandle"
)

// MutationPathInternal is one record in the catalog: one addressable
// location inside a component or resource (spec §3).
type MutationPathInternal struct {
	Path                string
	Example             PathExample
	TypeName            typename.Name
	PathKind            PathKind
	Mutability          Mutability
	MutabilityReason    MutabilityReason
	EnumPathData        *EnumPathData
	Depth               int
	PartialRootExamples map[string]interface{} // keyed by this enum's own variant names (one level; descendants' examples are not harvested); non-nil only when Example.Kind == ExampleEnumRoot
}

// Catalog is the exhaustive, ordered list of mutation paths for one root
// type (spec §3, §4.4).
type Catalog struct {
	RootType typename.Name
	Paths    []*MutationPathInternal
	byPath   map[string]*MutationPathInternal
}

// ByPath looks up one path's record.
func (c *Catalog) ByPath(path string) (*MutationPathInternal, bool) {
	p, ok := c.byPath[path]
	return p, ok
}

func newCatalog(root typename.Name) *Catalog {
	return &Catalog{RootType: root, byPath: make(map[string]*MutationPathInternal)}
}

func (c *Catalog) add(p *MutationPathInternal) {
	c.Paths = append(c.Paths, p)
	c.byPath[p.Path] = p
}

// Options configures one Build invocation (spec §4.4, descent contract).
type Options struct {
	// DepthLimit bounds recursion (spec: "constant, ≥8 suffices").
	DepthLimit int
}

// DefaultDepthLimit is the recursion bound spec §4.4 names as sufficient.
const DefaultDepthLimit int = 12

func (o Options) depthLimit() int {
	if o.DepthLimit > 0 {
		return o.DepthLimit
	}
	return DefaultDepthLimit
}

// reg is the minimal registry surface the builder needs; satisfied by
// *registry.Registry.
type reg interface {
	Get(typename.Name) *registry.TypeSchema
}
