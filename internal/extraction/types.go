package extraction

// FieldMap is a mapping from schema keys to canonical typed values. In a
// finished map every registry key is present; a key that no extractor
// filled holds nil (false for checkbox fields).
type FieldMap map[string]any

// Report is the outcome of the full-schema validation pass. Errors only
// ever carries user-visible problems: a required field with no value, or
// a populated value its domain predicate rejects.
type Report struct {
	Errors  map[string]string `json:"errors"`
	IsValid bool              `json:"is_valid"`
}

// Clone returns an independent copy; the pipeline never mutates a map it
// has handed out.
func (fm FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(fm))
	for k, v := range fm {
		out[k] = v
	}
	return out
}
