package extraction

import "github.com/coverbridge/intake-backend/internal/schema"

// Remaining computes the subset of the registry still unfilled after the
// rule stage: absent, nil, or empty-string values. This subset is the
// entire contract handed to the fallback extractor, which both bounds
// prompt size and guarantees the model can never override a
// rule-confirmed value.
func Remaining(reg *schema.Registry, partial FieldMap) *schema.Registry {
	missing := make(map[string]bool)
	for _, key := range reg.Keys() {
		v, ok := partial[key]
		if !ok || v == nil {
			missing[key] = true
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing[key] = true
		}
	}
	return reg.Subset(missing)
}
