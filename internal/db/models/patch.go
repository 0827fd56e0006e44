package models

import (
	"encoding/json"
	"sort"
)

// Patch is a partial account update keyed by JSON field name. Present keys
// overwrite, including explicit nulls; absent keys are left alone.
type Patch map[string]json.RawMessage

// NewPatch builds a Patch from Go values, mainly for callers that do not
// start from a request body.
func NewPatch(fields map[string]any) (Patch, error) {
	p := make(Patch, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		p[k] = raw
	}
	return p, nil
}

// Keys returns the field names in the patch, sorted.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNull reports whether key is present with an explicit null value.
func (p Patch) IsNull(key string) bool {
	v, ok := p[key]
	return ok && isNull(v)
}

// ApplyTo merges the patch into a. The id key is never applied.
func (p Patch) ApplyTo(a *Account) error {
	for _, k := range p.Keys() {
		if k == "id" {
			continue
		}
		if err := a.setField(k, p[k]); err != nil {
			return err
		}
	}
	return nil
}
