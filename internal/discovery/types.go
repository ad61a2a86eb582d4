// Package discovery implements C7: the per-call discovery context. Given a
// method and its params, it extracts referenced type names, fetches the
// engine's registry schema and optional extras enrichment, and builds a
// request-local TypeInfo cache (spec §4.7).
package discovery

import (
	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// TypeInfo is the fully resolved per-type view: schema view + knowledge +
// optional extras enrichment + the original submitted value + current
// mutation path (spec §3, "DiscoveryContext").
type TypeInfo struct {
	Name          typename.Name
	Schema        *registry.TypeSchema
	Knowledge     *knowledge.Entry
	Extras        interface{}
	OriginalValue interface{}
	// Path is the mutation path from the request, populated only for
	// mutate_component/mutate_resource.
	Path string
}

// MathType reports whether this type is one the math transformer knows how
// to convert (glam vectors/matrices/quaternions, or Transform itself).
// Implements transform.TypeInfo.
func (t *TypeInfo) MathType() (string, bool) {
	if t == nil {
		return "", false
	}
	switch t.Name.Base() {
	case "glam::Vec2", "glam::Vec3", "glam::Vec3A", "glam::Vec4", "glam::Quat",
		"glam::Mat2", "glam::Mat3", "glam::Mat4", "glam::Affine2", "glam::Affine3A",
		"bevy_transform::components::transform::Transform":
		return string(t.Name), true
	}
	return "", false
}

// KnownVariants reports this type's registry-declared enum variant names,
// if it is an enum. Implements transform.TypeInfo.
func (t *TypeInfo) KnownVariants() ([]string, bool) {
	if t == nil || t.Schema == nil || t.Schema.Kind != registry.KindEnum {
		return nil, false
	}
	names := make([]string, len(t.Schema.Variants))
	for i, v := range t.Schema.Variants {
		names[i] = v.Name
	}
	return names, len(names) > 0
}

// InRegistry reports whether the engine's registry response included this
// type at all.
func (t *TypeInfo) InRegistry() bool {
	return t != nil && t.Schema != nil && t.Schema.InRegistry
}

// Context is the per-call mutable context C8 consults during recovery
// (spec §3, "DiscoveryContext"). Discarded after the response (spec §3,
// "Lifecycle").
type Context struct {
	Port               int
	RequestedTypeNames []typename.Name
	TypeMap            map[typename.Name]*TypeInfo
	// RegistryComparison carries whatever diagnostic the caller wants to
	// attach when comparing two registry snapshots; unused by the core
	// recovery path itself.
	RegistryComparison interface{}
}

// Get returns the TypeInfo for name, or nil if it was not requested.
func (c *Context) Get(name typename.Name) *TypeInfo {
	if c == nil {
		return nil
	}
	return c.TypeMap[name]
}
