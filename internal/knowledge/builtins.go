package knowledge

import "github.com/brpbridge/bridge/internal/typename"

// installBuiltins seeds every hardcoded entry spec §4.2 requires at
// minimum. Values are grounded on the guardrails documented in spec §4.2
// and §8 (property 10): these examples are known, by out-of-band
// experimentation against the real engine, to round-trip without a format
// correction.
func installBuiltins(t *Table) {
	installPrimitives(t)
	installSpecialNumerics(t)
	installCoreTypes(t)
	installGlamTypes(t)
	installEngineTypes(t)
	installGuardrails(t)
}

func root(example interface{}, simplified string) Entry {
	return Entry{Kind: TreatAsRootValue, Example: example, SimplifiedType: simplified}
}

// teach installs an example but lets the mutation-path builder keep
// recursing into the type's own fields (spec §4.2/§4.4): the taught
// example is used as-is wherever the type appears, while sub-paths like
// `.x`/`.y` are still emitted for it.
func teach(example interface{}, simplified string) Entry {
	return Entry{Kind: TeachAndRecurse, Example: example, SimplifiedType: simplified}
}

func installPrimitives(t *Table) {
	ints := []string{"i8", "i16", "i32", "i64", "i128", "isize"}
	for _, n := range ints {
		t.AddExact(typename.Name(n), root(int64(0), n))
	}
	uints := []string{"u8", "u16", "u32", "u64", "u128", "usize"}
	for _, n := range uints {
		t.AddExact(typename.Name(n), root(uint64(0), n))
	}
	t.AddExact("f32", root(float64(0), "f32"))
	t.AddExact("f64", root(float64(0), "f64"))
	t.AddExact("bool", root(false, "bool"))
	t.AddExact("char", root("a", "char"))
	t.AddExact("alloc::string::String", root("", "String"))
	t.AddExact("&str", root("", "str"))
	// Unit type serializes as an empty array (spec §4.2).
	t.AddExact("()", root([]interface{}{}, "()"))
}

// installSpecialNumerics installs the NonZero* family (spec §4.2: "1" as
// their canonical example, since 0 is never a valid NonZero value).
func installSpecialNumerics(t *Table) {
	nonZero := []string{
		"core::num::nonzero::NonZeroI8", "core::num::nonzero::NonZeroI16",
		"core::num::nonzero::NonZeroI32", "core::num::nonzero::NonZeroI64",
		"core::num::nonzero::NonZeroI128", "core::num::nonzero::NonZeroIsize",
		"core::num::nonzero::NonZeroU8", "core::num::nonzero::NonZeroU16",
		"core::num::nonzero::NonZeroU32", "core::num::nonzero::NonZeroU64",
		"core::num::nonzero::NonZeroU128", "core::num::nonzero::NonZeroUsize",
	}
	for _, n := range nonZero {
		t.AddExact(typename.Name(n), root(1, "NonZero"))
	}
}

func installCoreTypes(t *Table) {
	// Duration uses named fields secs/nanos rather than its internal repr.
	t.AddExact("core::time::Duration", root(map[string]interface{}{
		"secs":  uint64(0),
		"nanos": uint32(0),
	}, "Duration"))
	// UUID serializes in canonical hyphenated form.
	t.AddExact("uuid::Uuid", root("00000000-0000-0000-0000-000000000000", "Uuid"))
}

// installGlamTypes installs every glam vector/matrix/quaternion as a flat
// numeric array (spec §4.2 and §4.4 "math transformer"). These are
// TeachAndRecurse so the mutation-path builder still emits their `.x`/`.y`/…
// children through the per-kind sub-builder for the type's registry kind,
// while the parent's own example stays a flat array.
func installGlamTypes(t *Table) {
	vec := func(n int) []interface{} {
		v := make([]interface{}, n)
		for i := range v {
			v[i] = float64(0)
		}
		return v
	}
	t.AddExact("glam::Vec2", teach(vec(2), "[f32; 2]"))
	t.AddExact("glam::Vec3", teach(vec(3), "[f32; 3]"))
	t.AddExact("glam::Vec3A", teach(vec(3), "[f32; 3]"))
	t.AddExact("glam::Vec4", teach(vec(4), "[f32; 4]"))
	t.AddExact("glam::Quat", teach([]interface{}{float64(0), float64(0), float64(0), float64(1)}, "[f32; 4]"))
	t.AddExact("glam::Mat2", teach(vec(4), "[f32; 4]"))
	t.AddExact("glam::Mat3", teach(vec(9), "[f32; 9]"))
	t.AddExact("glam::Mat4", teach(vec(16), "[f32; 16]"))
	t.AddExact("glam::Affine2", teach(vec(6), "[f32; 6]"))
	t.AddExact("glam::Affine3A", teach(vec(12), "[f32; 12]"))
}

// installEngineTypes installs the engine component/resource fields whose
// correct payload cannot be derived from reflection (spec §4.2).
func installEngineTypes(t *Table) {
	// Entity serializes as a single u64 bit-packed index/generation value.
	t.AddExact("bevy_ecs::entity::Entity", root(uint64(8589934670), "u64"))
	// Name is a plain string, not the struct it's reflected as.
	t.AddExact("bevy_ecs::name::Name", root("", "String"))
	// GlobalTransform / affine matrices serialize as flat arrays, same
	// shape as Affine3A.
	t.AddExact("bevy_transform::components::global_transform::GlobalTransform", root(
		[]interface{}{
			float64(1), float64(0), float64(0),
			float64(0), float64(1), float64(0),
			float64(0), float64(0), float64(1),
			float64(0), float64(0), float64(0),
		}, "[f32; 12]"))
}

// installGuardrails installs the experimentally discovered safe defaults
// called out by spec §4.2: camera texture-usage bitflags and window
// dimensions. These cannot be rederived from the schema.
func installGuardrails(t *Table) {
	// RENDER_ATTACHMENT (4) | TEXTURE_BINDING (16) = 20. STORAGE_BINDING (8)
	// must never be chosen: it crashes with multisampled textures.
	t.AddExact("bevy_render::render_resource::TextureUsages", root(uint64(20), "u32"))
	t.AddField(FieldContext{
		StructType: "bevy_window::window::WindowResolution",
		Field:      "width",
	}, root(float64(800), "f32"))
	t.AddField(FieldContext{
		StructType: "bevy_window::window::WindowResolution",
		Field:      "height",
	}, root(float64(600), "f32"))
}
