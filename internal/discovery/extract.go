package discovery

import (
	"sort"
	"strings"

	"github.com/brpbridge/bridge/internal/typename"
)

// Extraction is one (type, value, mutation path) triple pulled from a
// request's params (spec §4.7).
type Extraction struct {
	TypeName typename.Name
	Value    interface{}
	// Path is set only for mutate_component/mutate_resource, from the
	// request's own "path" field.
	Path string
}

// ExtractTypeNames implements the method table in spec §4.7. Order is
// deterministic (sorted by type name) so callers and tests don't depend on
// map iteration order.
func ExtractTypeNames(method string, params map[string]interface{}) []Extraction {
	switch method {
	case "bevy/spawn", "bevy/insert":
		return extractComponents(params)
	case "bevy/mutate_component":
		return extractSingle(params, "component")
	case "bevy/insert_resource", "bevy/mutate_resource":
		return extractSingle(params, "resource")
	default:
		return nil
	}
}

func extractComponents(params map[string]interface{}) []Extraction {
	comps, _ := params["components"].(map[string]interface{})
	if len(comps) == 0 {
		return nil
	}
	names := make([]string, 0, len(comps))
	for name := range comps {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Extraction, 0, len(names))
	for _, name := range names {
		out = append(out, Extraction{TypeName: typename.Name(name), Value: comps[name]})
	}
	return out
}

func extractSingle(params map[string]interface{}, typeField string) []Extraction {
	name, _ := params[typeField].(string)
	if name == "" {
		return nil
	}
	value := params["value"]
	path, _ := params["path"].(string)
	return []Extraction{{TypeName: typename.Name(name), Value: value, Path: path}}
}

// cratePrefixes returns the deduplicated, sorted set of crate prefixes (the
// substring before the first "::") referenced by extractions, for the
// single registry query (spec §4.7).
func cratePrefixes(extractions []Extraction) []string {
	seen := make(map[string]bool)
	for _, e := range extractions {
		if p := cratePrefix(e.TypeName); p != "" {
			seen[p] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func cratePrefix(n typename.Name) string {
	s := n.Base()
	if i := strings.Index(s, "::"); i >= 0 {
		return s[:i]
	}
	return s
}
