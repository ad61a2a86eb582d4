// Package knowledge is the process-wide, immutable override table for
// engine types whose serialized shape differs from their reflected shape
// (spec §3, §4.2). It is the authoritative source of truth used to seed
// examples and stop (or redirect) mutation-path recursion.
package knowledge

import "github.com/brpbridge/bridge/internal/typename"

// EntryKind distinguishes the two knowledge-entry shapes (spec §3).
type EntryKind int

const (
	// TeachAndRecurse provides an example for this exact type but lets the
	// path builder continue recursing into its structural children.
	TeachAndRecurse EntryKind = iota
	// TreatAsRootValue provides an example and stops recursion: the type
	// acts atomically from the caller's point of view.
	TreatAsRootValue
)

// Entry is one knowledge-table value.
type Entry struct {
	Kind           EntryKind
	Example        interface{}
	SimplifiedType string // set by the built-in root() and teach() installers
}

// VariantSigContext identifies the i-th element of an enum variant group
// sharing a signature, for the highest-priority lookup key (spec §4.2).
type VariantSigContext struct {
	EnumType  typename.Name
	Signature string
	Index     int
}

// FieldContext identifies one field of a parent struct, for the lookup key
// consulted after the variant key and before the exact type name.
type FieldContext struct {
	StructType typename.Name
	Field      string
}

type variantKey struct {
	enum string
	sig  string
	idx  int
}

type fieldKey struct {
	structType string
	field      string
}

// Table is the process-lifetime knowledge table (spec §3, "Lifecycle").
type Table struct {
	exact   map[typename.Name]Entry
	variant map[variantKey]Entry
	field   map[fieldKey]Entry
}

// NewTable builds the table with the required hardcoded entries (spec
// §4.2) already installed. Callers may add further entries with Add*.
func NewTable() *Table {
	t := &Table{
		exact:   make(map[typename.Name]Entry),
		variant: make(map[variantKey]Entry),
		field:   make(map[fieldKey]Entry),
	}
	installBuiltins(t)
	return t
}

// AddExact installs (or overrides) an exact-type-name entry.
func (t *Table) AddExact(name typename.Name, e Entry) { t.exact[name] = e }

// AddVariant installs an enum-variant-signature override for the i-th
// element of variants sharing that signature.
func (t *Table) AddVariant(ctx VariantSigContext, e Entry) {
	t.variant[variantKey{string(ctx.EnumType), ctx.Signature, ctx.Index}] = e
}

// AddField installs a struct-field override.
func (t *Table) AddField(ctx FieldContext, e Entry) {
	t.field[fieldKey{string(ctx.StructType), ctx.Field}] = e
}

// Lookup resolves an entry for typ, consulting enum-variant-signature and
// struct-field context first when supplied, in the priority order defined
// by spec §4.2.
func (t *Table) Lookup(typ typename.Name, variantCtx *VariantSigContext, fieldCtx *FieldContext) (Entry, bool) {
	if variantCtx != nil {
		if e, ok := t.variant[variantKey{string(variantCtx.EnumType), variantCtx.Signature, variantCtx.Index}]; ok {
			return e, true
		}
	}
	if fieldCtx != nil {
		if e, ok := t.field[fieldKey{string(fieldCtx.StructType), fieldCtx.Field}]; ok {
			return e, true
		}
	}
	if e, ok := t.exact[typ]; ok {
		return e, true
	}
	return Entry{}, false
}
