package recovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/brpbridge/bridge/internal/discovery"
	"github.com/brpbridge/bridge/internal/errpattern"
	"github.com/brpbridge/bridge/internal/logging"
	"github.com/brpbridge/bridge/internal/registry"
	"github.com/brpbridge/bridge/internal/transform"
	"github.com/brpbridge/bridge/internal/typename"
)

// Recover drives the tiered flow of spec §4.8: Init → SerializationCheck →
// DirectDiscovery → PatternTransform → Retry. discCtx must already have
// completed its registry fetch and (if available) extras enrichment —
// recovery never fetches anything itself beyond the optional retry call,
// preserving the ordering invariant of spec §5 ("registry fetch strictly
// precedes extras enrichment, which strictly precedes recovery
// transformations").
func Recover(ctx context.Context, method string, params map[string]interface{}, rpcErr *RPCError, discCtx *discovery.Context, transformers *transform.Registry, executor DirectExecutor) (*Result, error) {
	log := logging.From(ctx).WithField("method", method)

	if rpcErr == nil || !errpattern.IsRecoverableCode(rpcErr.Code) {
		return &Result{Kind: NotAttempted, FormatCorrected: "not_attempted"}, nil
	}

	if corrections, ok := serializationCheck(method, rpcErr, discCtx); ok {
		log.Debug("recovery: serialization check fired, terminating")
		return &Result{Kind: GuidanceOnly, Corrections: corrections, FormatCorrected: "not_attempted"}, nil
	}

	if corrections, ok := directDiscovery(discCtx); ok {
		log.Debug("recovery: applying high-quality extras examples verbatim")
		return retryOrGuidance(ctx, method, params, corrections, executor, log)
	}

	corrections := patternTransform(rpcErr, discCtx, transformers)
	if len(corrections) == 0 {
		log.Info("recovery: unrecoverable, every tier exhausted")
		return &Result{Kind: Unrecoverable, FormatCorrected: "not_attempted", FinalErr: rpcErr}, nil
	}
	return retryOrGuidance(ctx, method, params, corrections, executor, log)
}

// serializationCheck implements spec §4.8's first transition: an
// unknown-component-type complaint on spawn/insert is terminal guidance
// when the offending type is registered but missing Serialize/Deserialize.
func serializationCheck(method string, rpcErr *RPCError, discCtx *discovery.Context) ([]Correction, bool) {
	if method != "bevy/spawn" && method != "bevy/insert" {
		return nil, false
	}
	if !strings.Contains(strings.ToLower(rpcErr.Message), errpattern.UnknownComponentTypeToken) {
		return nil, false
	}
	var corrections []Correction
	for _, name := range discCtx.RequestedTypeNames {
		info := discCtx.Get(name)
		if info == nil || info.Schema == nil || !info.InRegistry() {
			continue
		}
		if info.Schema.Traits.BRPCompatible() {
			continue
		}
		missing := missingTraits(info.Schema.Traits)
		corrections = append(corrections, Correction{
			TypeName: string(name),
			Hint: fmt.Sprintf("%s is missing %s; add #[derive(Serialize, Deserialize)]",
				name, strings.Join(missing, ", ")),
		})
	}
	return corrections, len(corrections) > 0
}

func missingTraits(t registry.ReflectTraits) []string {
	var missing []string
	if !t.Has("Serialize") {
		missing = append(missing, "Serialize")
	}
	if !t.Has("Deserialize") {
		missing = append(missing, "Deserialize")
	}
	return missing
}

// directDiscovery implements spec §4.8's second transition: if any
// requested type already carries a high-quality extras example (fetched
// earlier by C7), apply it verbatim as a structural correction.
func directDiscovery(discCtx *discovery.Context) ([]Correction, bool) {
	var corrections []Correction
	for _, name := range discCtx.RequestedTypeNames {
		info := discCtx.Get(name)
		if info == nil || info.Extras == nil || info.Schema == nil {
			continue
		}
		if !discovery.IsHighQuality(info.Extras, info.Schema.Kind) {
			continue
		}
		corrections = append(corrections, Correction{
			TypeName:       string(name),
			Hint:           fmt.Sprintf("%s: applied authoritative format from extras", name),
			CorrectedValue: info.Extras,
			Structural:     true,
		})
	}
	return corrections, len(corrections) > 0
}

// patternTransform implements spec §4.8's third transition. Step 1 (spec
// §4.8 bullet 1): if the type's own registry TypeInfo already knows a
// transformation — it's tagged as a math type and the original value is a
// matching object — apply that directly, independent of how the error
// classifies. Step 2 (bullet 2, the fallback): classify the error and
// consult the transformer registry, falling back to guidance with
// closest-match suggestions for enum variants.
func patternTransform(rpcErr *RPCError, discCtx *discovery.Context, transformers *transform.Registry) []Correction {
	pattern := errpattern.Classify(rpcErr.Code, rpcErr.Message, rpcErr.Data)

	var corrections []Correction
	for _, name := range discCtx.RequestedTypeNames {
		info := discCtx.Get(name)
		if info == nil {
			continue
		}
		if _, ok := info.MathType(); ok {
			if tr, ok := (transform.MathTransformer{}).TransformWithTypeInfo(info.OriginalValue, pattern, info); ok {
				corrections = append(corrections, Correction{
					TypeName:       string(name),
					Hint:           tr.Hint,
					CorrectedValue: tr.CorrectedValue,
					CorrectedPath:  tr.CorrectedPath,
					Structural:     tr.Structural,
				})
				continue
			}
		}
		if tr, ok := transformers.Apply(pattern, info.OriginalValue, info); ok {
			corrections = append(corrections, Correction{
				TypeName:       string(name),
				Hint:           tr.Hint,
				CorrectedValue: tr.CorrectedValue,
				CorrectedPath:  tr.CorrectedPath,
				Structural:     tr.Structural,
			})
			continue
		}
		corrections = append(corrections, guidanceCorrection(name, pattern, info))
	}
	return corrections
}

func guidanceCorrection(name typename.Name, pattern errpattern.Pattern, info *discovery.TypeInfo) Correction {
	c := Correction{
		TypeName: string(name),
		Hint:     fmt.Sprintf("%s: %s", name, pattern.Message),
	}
	target := pattern.ActualVariantType
	if target == "" {
		target = pattern.Actual
	}
	if variants, ok := info.KnownVariants(); ok && target != "" {
		c.ValidValues = transform.ClosestMatches(target, variants, 3)
	}
	return c
}

// retryOrGuidance decides between Retryable and GuidanceOnly per spec
// §4.8's aggregation rule, and performs the single allowed retry when
// applicable.
func retryOrGuidance(ctx context.Context, method string, params map[string]interface{}, corrections []Correction, executor DirectExecutor, log logEntry) (*Result, error) {
	if !anyStructural(corrections) {
		return &Result{Kind: GuidanceOnly, Corrections: corrections, FormatCorrected: "not_attempted"}, nil
	}

	retried := rebuildParams(method, params, corrections)
	response, rpcErr, err := executor.ExecuteDirect(ctx, method, retried)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Kind:          Retryable,
		Corrections:   corrections,
		RetriedParams: retried,
		Response:      response,
		FinalErr:      rpcErr,
	}
	if rpcErr != nil {
		result.FormatCorrected = "failed"
		log.Warn("recovery: retry still failed after corrections")
	} else {
		result.FormatCorrected = "succeeded"
		log.Info("recovery: retry succeeded after corrections")
	}
	return result, nil
}

func anyStructural(corrections []Correction) bool {
	for _, c := range corrections {
		if c.Structural {
			return true
		}
	}
	return false
}

// rebuildParams applies structural corrections to a shallow copy of
// params, per the method-specific shapes of spec §4.7's extraction table.
func rebuildParams(method string, params map[string]interface{}, corrections []Correction) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}

	switch method {
	case "bevy/spawn", "bevy/insert":
		comps, _ := out["components"].(map[string]interface{})
		newComps := make(map[string]interface{}, len(comps))
		for k, v := range comps {
			newComps[k] = v
		}
		for _, c := range corrections {
			if c.Structural {
				newComps[c.TypeName] = c.CorrectedValue
			}
		}
		out["components"] = newComps
	case "bevy/mutate_component", "bevy/insert_resource", "bevy/mutate_resource":
		for _, c := range corrections {
			if !c.Structural {
				continue
			}
			if c.CorrectedValue != nil {
				out["value"] = c.CorrectedValue
			}
			if c.CorrectedPath != "" {
				out["path"] = c.CorrectedPath
			}
		}
	}
	return out
}

// logEntry is the narrow subset of *logrus.Entry this package calls,
// satisfied by logging.From's return value.
type logEntry interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
}
