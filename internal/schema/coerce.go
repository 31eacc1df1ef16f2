package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Coerce converts a raw candidate value into the canonical representation
// for the field's declared type. ok=false means the candidate cannot be
// represented in that type at all; that is distinct from failing the
// field's Validate predicate, which only ever sees coerced values.
func Coerce(def FieldDef, raw any) (any, bool) {
	switch def.Type {
	case FieldText, FieldTextarea, FieldEmail:
		return coerceText(raw)
	case FieldNumber:
		return CoerceNumber(raw)
	case FieldCheckbox:
		return coerceCheckbox(raw)
	case FieldDate:
		return coerceDate(raw)
	case FieldSelect:
		return coerceSelect(def, raw)
	default:
		return nil, false
	}
}

func coerceText(raw any) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return s, true
}

// Digit words show up in voice transcripts ("add two employees").
var numberWords = map[string]float64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// CoerceNumber accepts native numbers as-is. Strings are lower-cased and
// trimmed, spelled-out digit words mapped, currency and thousands
// punctuation stripped, then parsed as a float. A trailing k or m on the
// original trimmed string multiplies by 1e3 or 1e6.
func CoerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return coerceNumberString(v)
	default:
		return 0, false
	}
}

func coerceNumberString(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, ok := numberWords[s]; ok {
		return n, true
	}

	multiplier := 1.0
	if strings.HasSuffix(s, "k") {
		multiplier = 1_000
		s = strings.TrimSuffix(s, "k")
	} else if strings.HasSuffix(s, "m") {
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "m")
	}

	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n * multiplier, true
}

var (
	checkboxTruthy = map[string]bool{"true": true, "yes": true, "on": true, "1": true, "affirmative": true, "checked": true}
	checkboxFalsy  = map[string]bool{"false": true, "no": true, "off": true, "0": true, "negative": true, "unchecked": true}
)

// coerceCheckbox only accepts the closed truthy/falsy vocabulary. Anything
// else is a coercion failure, not a default: a rejected candidate is
// indistinguishable from "no data".
func coerceCheckbox(raw any) (any, bool) {
	if b, ok := raw.(bool); ok {
		return b, true
	}
	s, ok := asString(raw)
	if !ok {
		return nil, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if checkboxTruthy[s] {
		return true, true
	}
	if checkboxFalsy[s] {
		return false, true
	}
	return nil, false
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Dates are lexical YYYY-MM-DD only; no timezone or calendar
// normalization happens anywhere in the pipeline.
func coerceDate(raw any) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if !isoDateRe.MatchString(s) {
		return nil, false
	}
	return s, true
}

// coerceSelect requires a verbatim option value. Fuzzy resolution of
// near-misses is the fallback model's job upstream, never this layer's.
func coerceSelect(def FieldDef, raw any) (any, bool) {
	s, ok := asString(raw)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	for _, opt := range def.Options {
		if s == opt.Value {
			return s, true
		}
	}
	return nil, false
}

func asString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
