package extraction

import (
	"fmt"
	"sort"

	"github.com/coverbridge/intake-backend/internal/schema"
)

// Merge reconciles fallback candidates into the rule-stage map. A
// candidate must survive type coercion and the field validator to be
// written; one that does not is silently dropped, so an unaccepted model
// guess is indistinguishable from "no data found". Candidates outside
// remaining are returned so the caller can log them; they are never
// merged, which is what keeps rule-accepted values unoverridable.
func Merge(ruleMap FieldMap, candidates map[string]string, remaining *schema.Registry) (FieldMap, []string) {
	out := ruleMap.Clone()

	keys := make([]string, 0, len(candidates))
	for k := range candidates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var unexpected []string
	for _, key := range keys {
		def, ok := remaining.Get(key)
		if !ok {
			unexpected = append(unexpected, key)
			continue
		}
		coerced, ok := schema.Coerce(def, candidates[key])
		if !ok {
			continue
		}
		if !def.Validate(coerced) {
			continue
		}
		out[key] = coerced
	}
	return out, unexpected
}

// Validate runs the full-schema pass: required-field presence plus the
// domain predicate for every populated value. Only these two categories
// ever surface to the end user.
func Validate(reg *schema.Registry, fm FieldMap) Report {
	report := Report{Errors: map[string]string{}}

	for _, key := range reg.Keys() {
		def, _ := reg.Get(key)
		v, present := fm[key]
		if !present || v == nil || v == "" {
			if def.Required {
				report.Errors[key] = fmt.Sprintf("%s is required", def.Label)
			}
			continue
		}
		if !def.Validate(v) {
			report.Errors[key] = fmt.Sprintf("%s is invalid", def.Label)
		}
	}

	report.IsValid = len(report.Errors) == 0
	return report
}

// Finalize applies closed defaulting: every registry key appears in the
// returned map, unfilled checkboxes become false, everything else
// unfilled stays nil.
func Finalize(reg *schema.Registry, fm FieldMap) FieldMap {
	out := make(FieldMap, reg.Len())
	for _, key := range reg.Keys() {
		def, _ := reg.Get(key)
		v, present := fm[key]
		if !present || v == nil {
			if def.Type == schema.FieldCheckbox {
				out[key] = false
			} else {
				out[key] = nil
			}
			continue
		}
		out[key] = v
	}
	return out
}
