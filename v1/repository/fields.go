package repository

import "sort"

// FieldSet is the static field registry of one entity type: the enumerated
// set of column names that may appear in filters, updates and order-by
// clauses. Registries are declared next to the entity definition and never
// derived through reflection, so an unknown name is a compile-visible,
// test-visible mistake rather than a runtime surprise.
type FieldSet struct {
	model string
	names map[string]struct{}
	// sorted is kept alongside the set so error messages and iteration
	// order are stable.
	sorted []string
}

// NewFieldSet builds the registry for the named entity model from its valid
// column names.
//
// Example:
//
//	var GradeFields = repository.NewFieldSet("Grade",
//	    "id", "grade_name", "created_at", "updated_at")
func NewFieldSet(model string, names ...string) FieldSet {
	set := make(map[string]struct{}, len(names))
	sorted := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := set[n]; ok {
			continue
		}
		set[n] = struct{}{}
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	return FieldSet{model: model, names: set, sorted: sorted}
}

// Model returns the entity model name the registry belongs to.
func (fs FieldSet) Model() string { return fs.model }

// Contains reports whether name is a valid field of the entity.
func (fs FieldSet) Contains(name string) bool {
	_, ok := fs.names[name]
	return ok
}

// Names returns the valid field names in sorted order. The returned slice
// is a copy.
func (fs FieldSet) Names() []string {
	out := make([]string, len(fs.sorted))
	copy(out, fs.sorted)
	return out
}

// Validate checks every key of fields against the registry. It fails with
// *InvalidFieldError on the first unknown key, listing the full valid set.
func (fs FieldSet) Validate(fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fs.ValidateNames(keys...)
}

// ValidateNames checks each given field name against the registry. Pure
// set-membership lookup, no side effects.
func (fs FieldSet) ValidateNames(names ...string) error {
	for _, n := range names {
		if !fs.Contains(n) {
			return &InvalidFieldError{
				Field:       n,
				Model:       fs.model,
				ValidFields: fs.Names(),
			}
		}
	}
	return nil
}
