package schema

import (
	"regexp"
	"strings"
)

// Domain predicates shared by the ACORD field set. Each one runs against
// a value that already passed type coercion, so the type assertions here
// are the only defensive code they need.

var (
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	feinRe  = regexp.MustCompile(`^\d{2}-\d{7}$`)
	sicRe   = regexp.MustCompile(`^\d{4}$`)
	naicsRe = regexp.MustCompile(`^\d{6}$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	stateRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	phoneRe = regexp.MustCompile(`^[\d\s\-\().+]{7,}$`)
)

func AnyValue(any) bool { return true }

func NonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

func NonNegativeNumber(v any) bool {
	n, ok := v.(float64)
	return ok && n >= 0
}

func ValidEmail(v any) bool {
	s, ok := v.(string)
	return ok && emailRe.MatchString(strings.TrimSpace(s))
}

// ValidPhone wants at least seven digit-ish characters; separators and a
// leading + are fine. It deliberately does not parse regional formats.
func ValidPhone(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if !phoneRe.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// ValidFEIN matches the two-digit-dash-seven-digit federal tax id shape.
func ValidFEIN(v any) bool {
	s, ok := v.(string)
	return ok && feinRe.MatchString(strings.TrimSpace(s))
}

func ValidSIC(v any) bool {
	s, ok := v.(string)
	return ok && sicRe.MatchString(strings.TrimSpace(s))
}

func ValidNAICS(v any) bool {
	s, ok := v.(string)
	return ok && naicsRe.MatchString(strings.TrimSpace(s))
}

func ValidZip(v any) bool {
	s, ok := v.(string)
	return ok && zipRe.MatchString(strings.TrimSpace(s))
}

func ValidState(v any) bool {
	s, ok := v.(string)
	return ok && stateRe.MatchString(strings.TrimSpace(s))
}

func ValidISODate(v any) bool {
	s, ok := v.(string)
	return ok && dateRe.MatchString(strings.TrimSpace(s))
}

func ValidBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// OptionMember builds a membership predicate over a select field's
// option values.
func OptionMember(options []Option) func(any) bool {
	allowed := make(map[string]bool, len(options))
	for _, opt := range options {
		allowed[opt.Value] = true
	}
	return func(v any) bool {
		s, ok := v.(string)
		return ok && allowed[s]
	}
}
