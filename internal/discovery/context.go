package discovery

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/brpbridge/bridge/internal/knowledge"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/typename"
)

// RegistryFetcher is the thin collaborator interface over the engine's
// `bevy/registry_schema` method (spec §4.7); the concrete HTTP/JSON-RPC
// implementation lives in internal/brpclient.
type RegistryFetcher interface {
	FetchRegistrySchema(ctx context.Context, cratePrefixes []string) (json.RawMessage, error)
}

// ExtrasFetcher is the thin collaborator interface over the extras
// plugin's `brp_extras/discover_format` method, one type at a time (spec
// §4.7's "optional enrichment").
type ExtrasFetcher interface {
	FetchExtras(ctx context.Context, typeName string) (json.RawMessage, error)
}

// BuildContext implements C7 end-to-end (spec §4.7): extract referenced
// types, issue the single registry query, populate TypeInfo per type, then
// optionally enrich from the extras endpoint. Registry fetch strictly
// precedes extras enrichment (spec §5); a registry fetch failure is fatal,
// an extras failure or timeout is not (spec §4.8: "Discovery timeouts are
// not fatal").
func BuildContext(ctx context.Context, method string, params map[string]interface{}, port int, reg RegistryFetcher, extras ExtrasFetcher, kt *knowledge.Table) (*Context, error) {
	extractions := ExtractTypeNames(method, params)
	if len(extractions) == 0 {
		return &Context{Port: port, TypeMap: map[typename.Name]*TypeInfo{}}, nil
	}

	raw, err := reg.FetchRegistrySchema(ctx, cratePrefixes(extractions))
	if err != nil {
		return nil, errors.Wrap(err, "discovery: registry fetch")
	}
	defs, err := normalizeRegistryResponse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "discovery: normalizing registry response")
	}
	reg2, err := registry.Parse(defs)
	if err != nil {
		return nil, errors.Wrap(err, "discovery: parsing registry schema")
	}

	typeMap := make(map[typename.Name]*TypeInfo, len(extractions))
	requested := make([]typename.Name, 0, len(extractions))
	for _, e := range extractions {
		info := &TypeInfo{
			Name:          e.TypeName,
			Schema:        reg2.Get(e.TypeName),
			OriginalValue: e.Value,
			Path:          e.Path,
		}
		if entry, ok := kt.Lookup(e.TypeName, nil, nil); ok {
			info.Knowledge = &entry
		}
		typeMap[e.TypeName] = info
		requested = append(requested, e.TypeName)
	}

	if extras != nil {
		enrichWithExtras(ctx, extras, typeMap)
	}

	return &Context{Port: port, RequestedTypeNames: requested, TypeMap: typeMap}, nil
}

// enrichWithExtras fans out one FetchExtras call per requested type
// concurrently (all strictly after the registry fetch above has already
// completed) and merges successful results without overwriting
// registry-derived traits. A per-type failure or the group's context
// deadline is swallowed: extras enrichment is optional (spec §4.7, §4.8).
func enrichWithExtras(ctx context.Context, extras ExtrasFetcher, typeMap map[typename.Name]*TypeInfo) {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for name, info := range typeMap {
		name, info := name, info
		g.Go(func() error {
			raw, err := extras.FetchExtras(gctx, string(name))
			if err != nil || len(raw) == 0 {
				return nil // optional enrichment; never fails the group
			}
			var v interface{}
			if json.Unmarshal(raw, &v) != nil {
				return nil
			}
			mu.Lock()
			info.Extras = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // enrichWithExtras's goroutines never return a real error
}

// IsHighQuality implements the supplemented extras-quality heuristic (spec
// §4.8's "well-formed examples...no ambiguous nulls"): an example is
// trusted only when it is non-nil, structurally matches expectedKind
// (object for Struct/Map, array for the sequence kinds), and contains no
// nested nulls that would make its shape ambiguous.
func IsHighQuality(example interface{}, expectedKind registry.TypeKind) bool {
	if example == nil {
		return false
	}
	switch expectedKind {
	case registry.KindStruct, registry.KindMap:
		obj, ok := example.(map[string]interface{})
		if !ok {
			return false
		}
		return !containsNull(obj)
	case registry.KindTuple, registry.KindTupleStruct, registry.KindArray, registry.KindList, registry.KindSet:
		arr, ok := example.([]interface{})
		if !ok {
			return false
		}
		return !containsNullSlice(arr)
	default:
		return true
	}
}

func containsNull(obj map[string]interface{}) bool {
	for _, v := range obj {
		if v == nil {
			return true
		}
		if nested, ok := v.(map[string]interface{}); ok && containsNull(nested) {
			return true
		}
		if nested, ok := v.([]interface{}); ok && containsNullSlice(nested) {
			return true
		}
	}
	return false
}

func containsNullSlice(arr []interface{}) bool {
	for _, v := range arr {
		if v == nil {
			return true
		}
		if nested, ok := v.(map[string]interface{}); ok && containsNull(nested) {
			return true
		}
		if nested, ok := v.([]interface{}); ok && containsNullSlice(nested) {
			return true
		}
	}
	return false
}
