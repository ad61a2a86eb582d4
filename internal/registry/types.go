package registry

import (
	"sort"

	"github.com/brpbridge/bridge/internal/typename"
)

// defsPrefix is the fixed reference prefix the engine uses for its JSON
// schema $defs (spec §4.3).
const defsPrefix = "#/$defs/"

// ReflectTraits is the subset of reflect traits a type declares, extracted
// verbatim from the schema (spec §3).
type ReflectTraits map[string]bool

// Has reports whether trait is present.
func (t ReflectTraits) Has(trait string) bool { return t[trait] }

// BRPCompatible reports whether both Serialize and Deserialize are present.
func (t ReflectTraits) BRPCompatible() bool {
	return t.Has("Serialize") && t.Has("Deserialize")
}

// Field is one (name, referenced type) pair, used for struct properties and
// for the fields of a Struct-shaped enum variant.
type Field struct {
	Name string
	Type typename.Name
	// InRegistry is false when the referenced type's $ref could not be
	// resolved; callers decide whether that is fatal (spec §4.3, cycle
	// handling).
	InRegistry bool
}

// Variant is one element of an enum's oneOf list (spec §3, §4.3).
type Variant struct {
	Name   string
	Kind   VariantKind
	Tuple  []Field // populated for VariantTuple, in prefixItems order
	Struct []Field // populated for VariantStruct
}

// Signature returns a stable, comparable value identifying the variant's
// shape for deduplication purposes (spec §3: "Variant signature").
func (v Variant) Signature() string {
	switch v.Kind {
	case VariantUnit:
		return "Unit()"
	case VariantTuple:
		s := "Tuple("
		for i, f := range v.Tuple {
			if i > 0 {
				s += ","
			}
			s += string(f.Type)
		}
		return s + ")"
	case VariantStruct:
		s := "Struct("
		for i, f := range v.Struct {
			if i > 0 {
				s += ","
			}
			s += f.Name + ":" + string(f.Type)
		}
		return s + ")"
	default:
		return "?"
	}
}

// TypeSchema is the fully resolved view of one registered type (spec §3,
// "Schema view").
type TypeSchema struct {
	Name       typename.Name
	Kind       TypeKind
	Properties []Field   // Struct: ordered (name, type) pairs
	PrefixItems []Field  // Tuple/TupleStruct: ordered positional types
	ItemType   typename.Name // Array/List: element type
	ArrayLen   int           // Array: fixed length (0 for List)
	KeyType    typename.Name // Map/Set: key type
	ValueType  typename.Name // Map: value type
	Variants   []Variant     // Enum: oneOf, in order
	Traits     ReflectTraits
	ModulePath string
	CrateName  string
	// InRegistry is false for a synthetic placeholder created when a $ref
	// could not be resolved (spec §4.3, cycle handling).
	InRegistry bool
	// Default, when non-nil, is the schema's own default example value.
	Default interface{}
}

// notInRegistry returns a placeholder schema marking name as unresolved.
func notInRegistry(name typename.Name) *TypeSchema {
	return &TypeSchema{Name: name, Kind: KindValue, InRegistry: false}
}

// Registry is the adapted view of one engine registry_schema response,
// cached per (port, crate-set) for the duration of one request (spec §3,
// "Lifecycle").
type Registry struct {
	types map[typename.Name]*TypeSchema
}

// Get returns the schema for name, or a not-in-registry placeholder if
// absent.
func (r *Registry) Get(name typename.Name) *TypeSchema {
	if r == nil {
		return notInRegistry(name)
	}
	if s, ok := r.types[name]; ok {
		return s
	}
	return notInRegistry(name)
}

// Has reports whether name is present in the registry.
func (r *Registry) Has(name typename.Name) bool {
	if r == nil {
		return false
	}
	_, ok := r.types[name]
	return ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}

// Names returns every registered type name, sorted, for CLI introspection
// output (cmd/brp-bridge's "schema" subcommand).
func (r *Registry) Names() []typename.Name {
	if r == nil {
		return nil
	}
	names := make([]typename.Name, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
