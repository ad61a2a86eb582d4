package discovery

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

type fakeRegistryFetcher struct {
	raw json.RawMessage
	err error
}

func (f *fakeRegistryFetcher) FetchRegistrySchema(ctx context.Context, prefixes []string) (json.RawMessage, error) {
	return f.raw, f.err
}

type fakeExtrasFetcher struct {
	byType map[string]json.RawMessage
	failFor map[string]bool
}

func (f *fakeExtrasFetcher) FetchExtras(ctx context.Context, typeName string) (json.RawMessage, error) {
	if f.failFor[typeName] {
		return nil, errTestExtras
	}
	return f.byType[typeName], nil
}

var errTestExtras = errTest("extras unavailable")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestExtractTypeNamesSpawnSortsDeterministically(t *testing.T) {
	params := map[string]interface{}{
		"components": map[string]interface{}{
			"bevy_transform::components::transform::Transform": map[string]interface{}{},
			"my_game::Velocity":                                 map[string]interface{}{},
		},
	}
	got := ExtractTypeNames("bevy/spawn", params)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].TypeName != "bevy_transform::components::transform::Transform" {
		t.Fatalf("first = %s, want Transform first (sorted)", got[0].TypeName)
	}
}

func TestExtractTypeNamesMutateComponentCapturesPath(t *testing.T) {
	params := map[string]interface{}{
		"component": "my_game::Velocity",
		"path":      ".x",
		"value":     1.5,
	}
	got := ExtractTypeNames("bevy/mutate_component", params)
	if len(got) != 1 || got[0].Path != ".x" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractTypeNamesUnknownMethodReturnsNil(t *testing.T) {
	if got := ExtractTypeNames("bevy/get", map[string]interface{}{}); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestBuildContextSingleArrayResponseShape(t *testing.T) {
	raw := json.RawMessage(`[
		{"typePath":"my_game::Velocity","kind":"struct","properties":{"x":{"type":{"$ref":"#/$defs/f32"}}},"reflectTypes":["Serialize","Deserialize"]},
		{"typePath":"f32","kind":"value","reflectTypes":["Serialize","Deserialize"]}
	]`)
	fetcher := &fakeRegistryFetcher{raw: raw}
	kt := knowledge.NewTable()

	ctx, err := BuildContext(context.Background(), "bevy/mutate_component",
		map[string]interface{}{"component": "my_game::Velocity", "path": ".x", "value": 2.0},
		15702, fetcher, nil, kt)
	if err != nil {
		t.Fatalf("BuildContext error: %v", err)
	}
	info := ctx.Get(typename.Name("my_game::Velocity"))
	if info == nil {
		t.Fatal("expected TypeInfo for my_game::Velocity")
	}
	if !info.InRegistry() {
		t.Fatal("expected InRegistry true")
	}
	if info.Path != ".x" {
		t.Fatalf("Path = %q, want .x", info.Path)
	}
}

func TestBuildContextObjectKeyedByTypeNameShape(t *testing.T) {
	raw := json.RawMessage(`{
		"glam::Vec3": {"typePath":"glam::Vec3","kind":"struct","properties":{"x":{"type":{"$ref":"#/$defs/f32"}},"y":{"type":{"$ref":"#/$defs/f32"}},"z":{"type":{"$ref":"#/$defs/f32"}}},"reflectTypes":["Serialize","Deserialize"]},
		"f32": {"typePath":"f32","kind":"value","reflectTypes":["Serialize","Deserialize"]}
	}`)
	fetcher := &fakeRegistryFetcher{raw: raw}
	kt := knowledge.NewTable()

	ctx, err := BuildContext(context.Background(), "bevy/spawn",
		map[string]interface{}{"components": map[string]interface{}{
			"glam::Vec3": map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0},
		}}, 15702, fetcher, nil, kt)
	if err != nil {
		t.Fatalf("BuildContext error: %v", err)
	}
	if ctx.Get(typename.Name("glam::Vec3")) == nil {
		t.Fatal("expected TypeInfo for glam::Vec3")
	}
}

func TestBuildContextRegistryErrorIsFatal(t *testing.T) {
	fetcher := &fakeRegistryFetcher{err: errTest("transport down")}
	kt := knowledge.NewTable()
	_, err := BuildContext(context.Background(), "bevy/mutate_component",
		map[string]interface{}{"component": "my_game::Velocity", "path": ".x"},
		15702, fetcher, nil, kt)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildContextNoExtractionsShortCircuits(t *testing.T) {
	fetcher := &fakeRegistryFetcher{raw: json.RawMessage(`{}`)}
	kt := knowledge.NewTable()
	ctx, err := BuildContext(context.Background(), "bevy/get", map[string]interface{}{}, 15702, fetcher, nil, kt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ctx.TypeMap) != 0 {
		t.Fatalf("TypeMap = %+v, want empty", ctx.TypeMap)
	}
}

func TestBuildContextExtrasEnrichmentIsOptionalOnFailure(t *testing.T) {
	raw := json.RawMessage(`[{"typePath":"my_game::Velocity","kind":"struct","properties":{},"reflectTypes":["Serialize","Deserialize"]}]`)
	fetcher := &fakeRegistryFetcher{raw: raw}
	extras := &fakeExtrasFetcher{failFor: map[string]bool{"my_game::Velocity": true}}
	kt := knowledge.NewTable()

	ctx, err := BuildContext(context.Background(), "bevy/mutate_component",
		map[string]interface{}{"component": "my_game::Velocity", "path": ".x"},
		15702, fetcher, extras, kt)
	if err != nil {
		t.Fatalf("extras failure must not be fatal, got %v", err)
	}
	info := ctx.Get(typename.Name("my_game::Velocity"))
	if info == nil || info.Extras != nil {
		t.Fatalf("expected nil Extras after failed fetch, got %+v", info)
	}
}

func TestBuildContextExtrasEnrichmentMerges(t *testing.T) {
	raw := json.RawMessage(`[
		{"typePath":"my_game::Velocity","kind":"struct","properties":{},"reflectTypes":["Serialize","Deserialize"]},
		{"typePath":"my_game::Health","kind":"struct","properties":{},"reflectTypes":["Serialize","Deserialize"]}
	]`)
	fetcher := &fakeRegistryFetcher{raw: raw}
	extras := &fakeExtrasFetcher{byType: map[string]json.RawMessage{
		"my_game::Velocity": json.RawMessage(`{"example":{"x":0,"y":0,"z":0}}`),
	}}
	kt := knowledge.NewTable()

	ctx, err := BuildContext(context.Background(), "bevy/spawn",
		map[string]interface{}{"components": map[string]interface{}{
			"my_game::Velocity": map[string]interface{}{},
			"my_game::Health":   map[string]interface{}{},
		}}, 15702, fetcher, extras, kt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vel := ctx.Get(typename.Name("my_game::Velocity"))
	if vel.Extras == nil {
		t.Fatal("expected Velocity to be enriched with extras")
	}
	health := ctx.Get(typename.Name("my_game::Health"))
	if health.Extras != nil {
		t.Fatalf("expected Health to remain unenriched, got %+v", health.Extras)
	}
}

func TestIsHighQualityRejectsNilAndAmbiguousNulls(t *testing.T) {
	if IsHighQuality(nil, registry.KindStruct) {
		t.Fatal("nil example must not be high quality")
	}
	if IsHighQuality(map[string]interface{}{"x": nil}, registry.KindStruct) {
		t.Fatal("object containing a null field must not be high quality")
	}
	if !IsHighQuality(map[string]interface{}{"x": 1.0, "y": 2.0}, registry.KindStruct) {
		t.Fatal("well-formed struct example should be high quality")
	}
}

func TestIsHighQualityChecksArrayShapeForSequenceKinds(t *testing.T) {
	if IsHighQuality(map[string]interface{}{"x": 1.0}, registry.KindArray) {
		t.Fatal("object example for an array-kind type must not be high quality")
	}
	if !IsHighQuality([]interface{}{1.0, 2.0, 3.0}, registry.KindArray) {
		t.Fatal("well-formed array example should be high quality")
	}
	if IsHighQuality([]interface{}{1.0, nil, 3.0}, registry.KindArray) {
		t.Fatal("array containing a null element must not be high quality")
	}
}

func TestCratePrefixesDeduplicatesAndSorts(t *testing.T) {
	extractions := []Extraction{
		{TypeName: typename.Name("glam::Vec3")},
		{TypeName: typename.Name("glam::Quat")},
		{TypeName: typename.Name("my_game::Velocity")},
	}
	got := cratePrefixes(extractions)
	want := []string{"glam", "my_game"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
