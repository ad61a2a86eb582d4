// Package typename models the engine's fully qualified type-name strings
// (spec §3, §4.1): "crate::module::Ident<Params>".
package typename

import "strings"

// Name is a qualified engine type name, e.g.
// "bevy_transform::components::transform::Transform" or
// "alloc::vec::Vec<core::option::Option<f32>>".
type Name string

// Base returns the substring before the first '<', or the full name if there
// are no generic parameters. Used for generic-aware matches such as
// "alloc::vec::Vec".
func (n Name) Base() string {
	s := string(n)
	if i := strings.IndexByte(s, '<'); i >= 0 {
		return s[:i]
	}
	return s
}

// Display returns the substring after the last "::", i.e. the bare
// identifier without module or crate qualification. If the name has
// generic parameters, they remain attached to the returned segment.
func (n Name) Display() string {
	s := string(n)
	if i := strings.LastIndex(s, "::"); i >= 0 {
		return s[i+2:]
	}
	return s
}

// String returns the full qualified name.
func (n Name) String() string { return string(n) }

// Equal reports whether two names are identical, full-string comparison.
func Equal(a, b Name) bool { return a == b }
