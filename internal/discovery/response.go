package discovery

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// normalizeRegistryResponse accepts the three shapes spec §4.7 requires the
// registry-schema fetch to tolerate: an object keyed by full type name (the
// `$defs` shape registry.Parse wants directly), an array of
// `{typePath, shortPath, ...}` objects, or a single such object. It always
// returns a map keyed by full type name.
func normalizeRegistryResponse(raw json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := skipWhitespace(raw)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	switch trimmed[0] {
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, errors.Wrap(err, "discovery: decoding registry response array")
		}
		out := make(map[string]json.RawMessage, len(arr))
		for _, item := range arr {
			name, err := typePathOf(item)
			if err != nil {
				return nil, err
			}
			out[name] = item
		}
		return out, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, errors.Wrap(err, "discovery: decoding registry response object")
		}
		if looksLikeDefsMap(obj) {
			return obj, nil
		}
		// Single-type object shape: key it by its own typePath.
		name, err := typePathOf(raw)
		if err != nil {
			return nil, err
		}
		return map[string]json.RawMessage{name: raw}, nil
	default:
		return nil, errors.Errorf("discovery: unrecognized registry response shape starting with %q", string(trimmed[0]))
	}
}

// looksLikeDefsMap distinguishes "object keyed by full type name" from "a
// single type's own fragment" by checking whether the object's values are
// themselves schema-fragment-shaped (have a "kind" or "typePath" field)
// rather than the object being one flat fragment itself.
func looksLikeDefsMap(obj map[string]json.RawMessage) bool {
	for _, v := range obj {
		var probe struct {
			Kind     string `json:"kind"`
			TypePath string `json:"typePath"`
		}
		if json.Unmarshal(v, &probe) == nil && (probe.Kind != "" || probe.TypePath != "") {
			return true
		}
		return false
	}
	// Empty object: treat as an (empty) defs map.
	return true
}

func typePathOf(raw json.RawMessage) (string, error) {
	var probe struct {
		TypePath string `json:"typePath"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", errors.Wrap(err, "discovery: reading typePath")
	}
	if probe.TypePath == "" {
		return "", errors.New("discovery: registry response entry missing typePath")
	}
	return probe.TypePath, nil
}

func skipWhitespace(b json.RawMessage) json.RawMessage {
	i := 0
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		break
	}
	return b[i:]
}
