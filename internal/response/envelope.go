// Package response implements C9: assembling the user-visible response
// from a direct-call result and whatever recovery contributed (spec
// §4.9). Success payloads pass through mostly unchanged; error payloads
// are flattened for agent consumption.
package response

import (
	"encoding/json"
	"strings"

	"github.com/brpbridge/bridge/internal/recovery"
)

// FormatCorrection is the public shape of one applied or proposed fix,
// mirroring recovery.Correction's fields that are meaningful to a caller
// (internal bookkeeping like Structural is dropped).
type FormatCorrection struct {
	TypeName       string      `json:"type_name"`
	Hint           string      `json:"hint,omitempty"`
	CorrectedValue interface{} `json:"corrected_value,omitempty"`
	CorrectedPath  string      `json:"corrected_path,omitempty"`
	ValidValues    []string    `json:"valid_values,omitempty"`
}

func fromRecoveryCorrections(cs []recovery.Correction) []FormatCorrection {
	if len(cs) == 0 {
		return nil
	}
	out := make([]FormatCorrection, len(cs))
	for i, c := range cs {
		out[i] = FormatCorrection{
			TypeName:       c.TypeName,
			Hint:           c.Hint,
			CorrectedValue: c.CorrectedValue,
			CorrectedPath:  c.CorrectedPath,
			ValidValues:    c.ValidValues,
		}
	}
	return out
}

// Envelope is a successful response: the underlying result, annotated with
// recovery provenance when recovery contributed to it (spec §6, §4.9,
// "Success payloads pass through unchanged except for the addition of
// format_corrected and format_corrections").
type Envelope struct {
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	Result            json.RawMessage    `json:"result"`
	FormatCorrected   string             `json:"format_corrected,omitempty"`
	FormatCorrections []FormatCorrection `json:"format_corrections,omitempty"`
}

// BuildSuccess assembles a success envelope. formatCorrected and
// corrections should come from a recovery.Result when recovery ran;
// formatCorrected is left empty (omitted) when recovery was never
// attempted at all, per spec §8 property 6 ("else it is not_attempted or
// absent").
func BuildSuccess(result json.RawMessage, formatCorrected string, corrections []recovery.Correction) *Envelope {
	return &Envelope{
		Status:            "success",
		Message:           "ok",
		Result:            result,
		FormatCorrected:   formatCorrected,
		FormatCorrections: fromRecoveryCorrections(corrections),
	}
}

// ErrorEnvelope is an error response with format_corrections flattened
// into top-level hint/examples/valid_values for direct agent consumption,
// while the original error_code/message and the structured corrections
// list are preserved (spec §6, §4.9).
type ErrorEnvelope struct {
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	ErrorCode         int32              `json:"error_code"`
	Hint              string             `json:"hint,omitempty"`
	Examples          []interface{}      `json:"examples,omitempty"`
	ValidValues       []string           `json:"valid_values,omitempty"`
	FormatCorrections []FormatCorrection `json:"format_corrections,omitempty"`
}

// BuildError assembles an error envelope, flattening corrections into
// hint/examples/valid_values.
func BuildError(code int32, message string, corrections []recovery.Correction) *ErrorEnvelope {
	env := &ErrorEnvelope{
		Status:            "error",
		Message:           message,
		ErrorCode:         code,
		FormatCorrections: fromRecoveryCorrections(corrections),
	}
	env.Hint, env.Examples, env.ValidValues = flatten(corrections)
	return env
}

// flatten joins each correction's hint (in order, semicolon-separated),
// collects every non-nil corrected value as an example, and concatenates
// every correction's valid-value suggestions.
func flatten(corrections []recovery.Correction) (hint string, examples []interface{}, validValues []string) {
	var hints []string
	for _, c := range corrections {
		if c.Hint != "" {
			hints = append(hints, c.Hint)
		}
		if c.CorrectedValue != nil {
			examples = append(examples, c.CorrectedValue)
		}
		validValues = append(validValues, c.ValidValues...)
	}
	return strings.Join(hints, "; "), examples, validValues
}
