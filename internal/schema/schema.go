package schema

// FieldType is the closed set of form field types. Coercion and
// validation dispatch on it with a plain switch; there is no reflection
// anywhere in the form pipeline.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldEmail    FieldType = "email"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDef is one schema entry. Validate runs only against values that
// already passed coercion for the declared type; it must be pure and
// total (false for out-of-domain input, never a panic).
type FieldDef struct {
	Key      string
	Label    string
	Type     FieldType
	Required bool
	Options  []Option
	Validate func(v any) bool
}

// Registry is an ordered, read-only set of field definitions. It is
// built once at process start and shared across requests without
// synchronization.
type Registry struct {
	keys  []string
	byKey map[string]FieldDef
}

func NewRegistry(defs []FieldDef) *Registry {
	r := &Registry{
		keys:  make([]string, 0, len(defs)),
		byKey: make(map[string]FieldDef, len(defs)),
	}
	for _, def := range defs {
		if def.Key == "" {
			continue
		}
		if _, dup := r.byKey[def.Key]; dup {
			continue
		}
		if def.Validate == nil {
			def.Validate = func(any) bool { return true }
		}
		r.keys = append(r.keys, def.Key)
		r.byKey[def.Key] = def
	}
	return r
}

// Keys returns the field keys in declaration order. The returned slice
// is a copy; callers may not mutate registry state through it.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Get(key string) (FieldDef, bool) {
	def, ok := r.byKey[key]
	return def, ok
}

func (r *Registry) Len() int {
	return len(r.keys)
}

// Subset returns a new registry containing only the given keys, in this
// registry's declaration order. Unknown keys are ignored.
func (r *Registry) Subset(keys map[string]bool) *Registry {
	defs := make([]FieldDef, 0, len(keys))
	for _, k := range r.keys {
		if keys[k] {
			defs = append(defs, r.byKey[k])
		}
	}
	return NewRegistry(defs)
}
