package response

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// DefaultSpillThreshold is the default response size above which Render
// writes the payload to a tempfile instead of returning it inline (spec
// §4.9, "~64 KiB").
const DefaultSpillThreshold = 64 * 1024

// SpilledPointer is what Render returns in place of a response that
// exceeded the size threshold.
type SpilledPointer struct {
	SpilledTo string `json:"spilled_to"`
	SizeBytes int    `json:"size_bytes"`
}

// Render marshals v and, if the encoding exceeds threshold bytes (0 means
// DefaultSpillThreshold), writes it to a tempfile and returns a pointer to
// it instead (spec §4.9).
func Render(v interface{}, threshold int) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "response: marshaling envelope")
	}
	if threshold <= 0 {
		threshold = DefaultSpillThreshold
	}
	if len(data) <= threshold {
		return data, nil
	}

	path, err := spillToTempFile(data)
	if err != nil {
		return nil, err
	}
	pointer, err := json.Marshal(SpilledPointer{SpilledTo: path, SizeBytes: len(data)})
	if err != nil {
		return nil, errors.Wrap(err, "response: marshaling spill pointer")
	}
	return pointer, nil
}

func spillToTempFile(data []byte) (string, error) {
	f, err := os.CreateTemp("", "brp-bridge-response-*.json")
	if err != nil {
		return "", errors.Wrap(err, "response: creating spill tempfile")
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", errors.Wrap(err, "response: writing spill tempfile")
	}
	return f.Name(), nil
}
