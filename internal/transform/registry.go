package transform

import "github.com/brpbridge/bridge/internal/errpattern"

// Registry holds transformers in definition order; the first whose
// CanHandle matches wins (spec §4.6, "Matching order").
type Registry struct {
	transformers []Transformer
}

// NewDefaultRegistry builds the registry with the three required
// transformers, in the order spec §4.6 lists them.
func NewDefaultRegistry() *Registry {
	return &Registry{transformers: []Transformer{
		MathTransformer{},
		EnumVariantTransformer{},
		TupleStructTransformer{},
	}}
}

// Add appends a transformer, for callers that extend the default set.
func (r *Registry) Add(t Transformer) {
	r.transformers = append(r.transformers, t)
}

// Apply finds the first transformer that can handle p and successfully
// produces a Transformation.
func (r *Registry) Apply(p errpattern.Pattern, original interface{}, info TypeInfo) (*Transformation, bool) {
	for _, t := range r.transformers {
		if !t.CanHandle(p) {
			continue
		}
		if tr, ok := t.TransformWithTypeInfo(original, p, info); ok {
			return tr, true
		}
	}
	return nil, false
}
