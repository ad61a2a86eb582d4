package registry

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/brpbridge/bridge/internal/typename"
)

// rawSchema is the JSON shape of one entry under the engine's
// `bevy/registry_schema` response (spec §4.3, §6).
type rawSchema struct {
	Kind        string              `json:"kind"`
	Type        string              `json:"type"`
	TypePath    string              `json:"typePath"`
	ModulePath  string              `json:"modulePath"`
	CrateName   string              `json:"crateName"`
	ReflectTypes []string           `json:"reflectTypes"`
	Properties  map[string]rawRef   `json:"properties"`
	Required    []string            `json:"required"`
	PrefixItems []rawRef            `json:"prefixItems"`
	Items       *rawRef             `json:"items"`
	OneOf       []json.RawMessage   `json:"oneOf"`
	KeyType     *rawRef             `json:"keyType"`
	ValueType   *rawRef             `json:"valueType"`
	Default     json.RawMessage     `json:"default"`
}

// rawRef is a property/prefixItem entry: either `{"type": {"$ref": "..."}}`
// or a bare `{"$ref": "..."}`.
type rawRef struct {
	Type *refObj `json:"type"`
	Ref  string  `json:"$ref"`
}

type refObj struct {
	Ref string `json:"$ref"`
}

func (r rawRef) ref() string {
	if r.Ref != "" {
		return r.Ref
	}
	if r.Type != nil {
		return r.Type.Ref
	}
	return ""
}

// rawVariant covers the three shapes an oneOf element can take: a bare
// string (unit variant), or an object with prefixItems (tuple variant) or
// properties (struct variant).
type rawVariant struct {
	ShortPath   string            `json:"shortPath"`
	PrefixItems []rawRef          `json:"prefixItems"`
	Properties  map[string]rawRef `json:"properties"`
}

// resolveRef strips the fixed "#/$defs/" prefix (spec §4.3). Unresolved
// refs (no prefix match) are returned unchanged with ok=false.
func resolveRef(ref string) (typename.Name, bool) {
	if !strings.HasPrefix(ref, defsPrefix) {
		return typename.Name(ref), false
	}
	return typename.Name(strings.TrimPrefix(ref, defsPrefix)), true
}

// Parse decodes a raw `$defs`-style map (type name -> schema fragment) into
// a Registry. Types whose references cannot be resolved are not treated as
// hard errors (spec §4.3): the referencing field is marked InRegistry=false
// and traversal decides later whether that is fatal.
func Parse(defs map[string]json.RawMessage) (*Registry, error) {
	reg := &Registry{types: make(map[typename.Name]*TypeSchema, len(defs))}
	for name, raw := range defs {
		var rs rawSchema
		if err := json.Unmarshal(raw, &rs); err != nil {
			return nil, errors.Wrapf(err, "registry: decoding schema for %q", name)
		}
		ts, err := adapt(typename.Name(name), rs)
		if err != nil {
			return nil, errors.Wrapf(err, "registry: adapting schema for %q", name)
		}
		reg.types[typename.Name(name)] = ts
	}
	return reg, nil
}

func adapt(name typename.Name, rs rawSchema) (*TypeSchema, error) {
	ts := &TypeSchema{
		Name:       name,
		ModulePath: rs.ModulePath,
		CrateName:  rs.CrateName,
		Traits:     make(ReflectTraits, len(rs.ReflectTypes)),
		InRegistry: true,
	}
	for _, t := range rs.ReflectTypes {
		ts.Traits[t] = true
	}
	if len(rs.Default) > 0 {
		var v interface{}
		if err := json.Unmarshal(rs.Default, &v); err == nil {
			ts.Default = v
		}
	}

	ts.Kind = decideKind(rs)

	switch ts.Kind {
	case KindEnum:
		variants, err := adaptVariants(rs.OneOf)
		if err != nil {
			return nil, err
		}
		ts.Variants = variants
	case KindStruct:
		ts.Properties = adaptFields(rs.Properties, rs.Required)
	case KindTuple, KindTupleStruct:
		ts.PrefixItems = adaptPositional(rs.PrefixItems)
	case KindArray:
		if rs.Items != nil {
			ts.ItemType, _ = resolveRef(rs.Items.ref())
		}
		ts.ArrayLen = len(rs.PrefixItems)
	case KindList:
		if rs.Items != nil {
			ts.ItemType, _ = resolveRef(rs.Items.ref())
		}
	case KindMap:
		if rs.KeyType != nil {
			ts.KeyType, _ = resolveRef(rs.KeyType.ref())
		}
		if rs.ValueType != nil {
			ts.ValueType, _ = resolveRef(rs.ValueType.ref())
		}
	case KindSet:
		if rs.Items != nil {
			ts.KeyType, _ = resolveRef(rs.Items.ref())
		}
	}
	return ts, nil
}

// decideKind applies the ordered classification in spec §4.3.
func decideKind(rs rawSchema) TypeKind {
	switch {
	case rs.Kind == "enum" || len(rs.OneOf) > 0:
		return KindEnum
	case rs.Kind == "struct" && len(rs.Properties) > 0 && len(rs.PrefixItems) == 0:
		return KindStruct
	case len(rs.PrefixItems) > 0 && rs.Kind != "array":
		if len(rs.PrefixItems) == 1 {
			return KindTupleStruct
		}
		return KindTuple
	case rs.Kind == "array":
		if len(rs.PrefixItems) > 0 {
			return KindArray
		}
		if rs.Items != nil {
			return KindList
		}
		return KindArray
	case rs.Kind == "map":
		return KindMap
	case rs.Kind == "set":
		return KindSet
	default:
		return KindValue
	}
}

func adaptFields(props map[string]rawRef, required []string) []Field {
	_ = required // presence tracked for future optional-field handling
	fields := make([]Field, 0, len(props))
	for name, r := range props {
		tn, ok := resolveRef(r.ref())
		fields = append(fields, Field{Name: name, Type: tn, InRegistry: ok})
	}
	sortFieldsByName(fields)
	return fields
}

func adaptPositional(items []rawRef) []Field {
	fields := make([]Field, 0, len(items))
	for i, r := range items {
		tn, ok := resolveRef(r.ref())
		fields = append(fields, Field{Name: indexName(i), Type: tn, InRegistry: ok})
	}
	return fields
}

func adaptVariants(oneOf []json.RawMessage) ([]Variant, error) {
	variants := make([]Variant, 0, len(oneOf))
	for _, raw := range oneOf {
		// Unit variant: bare JSON string.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			variants = append(variants, Variant{Name: s, Kind: VariantUnit})
			continue
		}
		var rv rawVariant
		if err := json.Unmarshal(raw, &rv); err != nil {
			return nil, errors.Wrap(err, "registry: decoding enum variant")
		}
		switch {
		case len(rv.PrefixItems) > 0:
			variants = append(variants, Variant{
				Name:  rv.ShortPath,
				Kind:  VariantTuple,
				Tuple: adaptPositional(rv.PrefixItems),
			})
		case len(rv.Properties) > 0:
			variants = append(variants, Variant{
				Name:   rv.ShortPath,
				Kind:   VariantStruct,
				Struct: adaptFields(rv.Properties, nil),
			})
		default:
			variants = append(variants, Variant{Name: rv.ShortPath, Kind: VariantUnit})
		}
	}
	return variants, nil
}

func indexName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	// Engine types rarely exceed 10-ary tuples; fall back to a generic
	// decimal conversion for larger ones.
	var buf []byte
	n := i
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}

func sortFieldsByName(fields []Field) {
	// Registry property order is not guaranteed stable by Go map iteration;
	// a deterministic order keeps path-builder output (and tests) stable.
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && fields[j-1].Name > fields[j].Name; j-- {
			fields[j-1], fields[j] = fields[j], fields[j-1]
		}
	}
}
