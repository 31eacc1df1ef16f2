package extraction

import (
	"regexp"
	"strings"

	"github.com/coverbridge/intake-backend/internal/schema"
)

// ruleSources maps schema keys to the direct and alternate dotted paths
// where company memory tends to carry the value. Order matters: the
// first resolvable path wins.
var ruleSources = map[string][]string{
	"legal_name":         {"profile.legal_name", "legal_name", "company.name"},
	"dba":                {"profile.dba", "dba"},
	"business_type":      {"profile.entity_type", "business_type"},
	"fein":               {"profile.fein", "fein", "tax.fein"},
	"sic":                {"classification.sic", "sic"},
	"naics":              {"classification.naics", "naics"},
	"years_in_business":  {"profile.years_in_business", "years_in_business"},
	"annual_revenue":     {"financials.annual_revenue", "annual_revenue", "revenue"},
	"num_employees":      {"profile.employee_count", "num_employees", "employees"},
	"website":            {"contact.website", "website"},
	"contact_email":      {"contact.email", "email"},
	"contact_phone":      {"contact.phone", "phone"},
	"mailing_address":    {"address.street", "mailing_address"},
	"mailing_city":       {"address.city", "city"},
	"mailing_state":      {"address.state", "state"},
	"mailing_zip":        {"address.zip", "zip"},
	"nature_of_business": {"profile.description", "nature_of_business"},
	"coverage_type":      {"coverage.type", "coverage_type"},
	"effective_date":     {"coverage.effective_date", "effective_date"},
	"expiration_date":    {"coverage.expiration_date", "expiration_date"},
	"has_subsidiaries":   {"profile.has_subsidiaries"},
	"safety_program":     {"operations.safety_program"},
	"non_owned_autos":    {"operations.non_owned_autos"},
}

// transcriptPatterns are the token shapes worth scanning free text for
// when the structured data has no direct path. First match that also
// passes the field's validator wins; scanning stops there.
var transcriptPatterns = map[string]*regexp.Regexp{
	"fein":          regexp.MustCompile(`\b\d{2}-\d{7}\b`),
	"contact_email": regexp.MustCompile(`\b\S+@\S+\.\S+\b`),
	"contact_phone": regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`),
	"website":       regexp.MustCompile(`\b(?:https?://|www\.)\S+\b`),
}

// ExtractRules is the deterministic first stage: structured-path lookups
// plus light regex scans of the transcripts. It is pure; identical
// inputs produce identical partial maps.
func ExtractRules(rawSource map[string]any, transcripts []string, reg *schema.Registry) FieldMap {
	out := make(FieldMap)

	for _, key := range reg.Keys() {
		def, _ := reg.Get(key)

		if v, ok := lookupPaths(rawSource, ruleSources[key]); ok {
			if accepted, ok := acceptRuleValue(def, v); ok {
				out[key] = accepted
				continue
			}
		}

		if re, ok := transcriptPatterns[key]; ok {
			if v, ok := scanTranscripts(transcripts, re, def); ok {
				out[key] = v
			}
		}
	}

	return out
}

func acceptRuleValue(def schema.FieldDef, raw any) (any, bool) {
	// Numeric fields are coerced before validation so that spelled-out
	// or annotated values ("1.2m") reach the predicate in canonical
	// form. Everything else is validated as-is.
	if def.Type == schema.FieldNumber {
		n, ok := schema.CoerceNumber(raw)
		if !ok {
			return nil, false
		}
		if !def.Validate(n) {
			return nil, false
		}
		return n, true
	}
	if !def.Validate(raw) {
		return nil, false
	}
	return raw, true
}

func scanTranscripts(transcripts []string, re *regexp.Regexp, def schema.FieldDef) (any, bool) {
	for _, t := range transcripts {
		for _, match := range re.FindAllString(t, -1) {
			match = strings.TrimSpace(match)
			if match == "" {
				continue
			}
			if def.Validate(match) {
				return match, true
			}
		}
	}
	return nil, false
}

// lookupPaths resolves the first dotted path that yields a usable value.
func lookupPaths(source map[string]any, paths []string) (any, bool) {
	for _, path := range paths {
		if v, ok := lookupPath(source, path); ok {
			return v, true
		}
	}
	return nil, false
}

// lookupPath walks a dotted path through nested maps. Missing keys, nil
// intermediates, and non-map intermediates all short-circuit to "not
// found"; raw source data is never trusted to have any shape.
func lookupPath(source map[string]any, path string) (any, bool) {
	if source == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var cur any = source
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil, false
		}
		next, ok := m[part]
		if !ok || next == nil {
			return nil, false
		}
		cur = next
	}
	if s, ok := cur.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return cur, true
}
