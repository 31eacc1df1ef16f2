package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coverbridge/intake-backend/internal/logger"
	"github.com/coverbridge/intake-backend/internal/schema"
)

// JSONGenerator is the slice of the OpenAI client the fallback stage
// needs: one structured-output call per extraction run.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, jsonSchema map[string]any) (map[string]any, error)
}

const (
	maxSourceContextChars     = 6000
	maxTranscriptContextChars = 8000
)

const fallbackSystemPrompt = `You extract commercial insurance application fields from company records and call transcripts.
Return a value for a field only when the source material clearly supports it; otherwise return null for that field.
Never guess, never invent, never reformat beyond the per-field format instructions.
Every value must be returned as a string.`

// LLMExtractor fills the fields the rule stage left open. Every failure
// mode of the external model (missing credential, transport error,
// refusal, malformed output) degrades to an empty candidate map; the
// pipeline treats that the same as the model finding nothing.
type LLMExtractor struct {
	log *logger.Logger
	ai  JSONGenerator
}

// NewLLMExtractor accepts a nil client; that leaves the fallback stage
// permanently unavailable, which downstream validation simply reports as
// missing required fields.
func NewLLMExtractor(log *logger.Logger, ai JSONGenerator) *LLMExtractor {
	return &LLMExtractor{
		log: log.With("component", "LLMExtractor"),
		ai:  ai,
	}
}

// Available reports whether a model client is actually configured. The
// pipeline uses this to record a skipped fallback instead of a call
// that never happened.
func (e *LLMExtractor) Available() bool {
	return e != nil && e.ai != nil
}

// ExtractRemaining asks the model for string-typed candidates for the
// remaining fields only. Values come back untyped on purpose: native
// typed-output modes are unreliable for domain formats like tax ids and
// constrained enumerations, so type fidelity is recovered during merge.
func (e *LLMExtractor) ExtractRemaining(ctx context.Context, rawSource map[string]any, transcripts []string, remaining *schema.Registry) map[string]string {
	out := map[string]string{}
	if remaining == nil || remaining.Len() == 0 {
		return out
	}
	if e.ai == nil {
		e.log.Debug("No model client configured; skipping fallback extraction")
		return out
	}

	user := e.buildUserPrompt(rawSource, transcripts, remaining)
	obj, err := e.ai.GenerateJSON(ctx, fallbackSystemPrompt, user, "intake_field_candidates", buildCandidateSchema(remaining))
	if err != nil {
		e.log.Warn("Fallback extraction failed; continuing without candidates", "error", err)
		return out
	}

	allowed := make(map[string]bool, remaining.Len())
	for _, k := range remaining.Keys() {
		allowed[k] = true
	}
	for key, v := range obj {
		if !allowed[key] {
			e.log.Warn("Model returned field outside the requested set; dropping", "field_key", key)
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out[key] = s
	}
	return out
}

// buildCandidateSchema is the fixed output contract: one nullable string
// property per remaining field, nothing else accepted.
func buildCandidateSchema(remaining *schema.Registry) map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, key := range remaining.Keys() {
		def, _ := remaining.Get(key)
		properties[key] = map[string]any{
			"type":        []string{"string", "null"},
			"description": fieldHint(def),
		}
		required = append(required, key)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func fieldHint(def schema.FieldDef) string {
	switch def.Type {
	case schema.FieldNumber:
		return fmt.Sprintf("%s. Numeric; digits or spelled-out words, optional $ , k m annotations.", def.Label)
	case schema.FieldDate:
		return fmt.Sprintf("%s. Format as YYYY-MM-DD.", def.Label)
	case schema.FieldSelect:
		values := make([]string, 0, len(def.Options))
		for _, opt := range def.Options {
			values = append(values, opt.Value)
		}
		return fmt.Sprintf("%s. Exactly one of: %s.", def.Label, strings.Join(values, ", "))
	case schema.FieldCheckbox:
		return fmt.Sprintf("%s. Answer yes or no.", def.Label)
	case schema.FieldEmail:
		return fmt.Sprintf("%s. A single email address.", def.Label)
	default:
		return def.Label
	}
}

func (e *LLMExtractor) buildUserPrompt(rawSource map[string]any, transcripts []string, remaining *schema.Registry) string {
	var b strings.Builder

	b.WriteString("Company records (JSON):\n")
	b.WriteString(capString(serializeSource(rawSource), maxSourceContextChars))
	b.WriteString("\n\nCall transcripts:\n")
	b.WriteString(capString(strings.Join(transcripts, "\n---\n"), maxTranscriptContextChars))

	b.WriteString("\n\nFields to extract:\n")
	for _, key := range remaining.Keys() {
		def, _ := remaining.Get(key)
		fmt.Fprintf(&b, "- %s: %s\n", key, fieldHint(def))
	}
	b.WriteString("\nReturn null for any field the material does not clearly support.")
	return b.String()
}

func serializeSource(rawSource map[string]any) string {
	if len(rawSource) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(rawSource)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// capString truncates context to bound request cost. Truncation is
// silently lossy and acceptable here.
func capString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
