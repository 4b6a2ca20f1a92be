package schema

// Fill produces a schema-complete mapping from a partial one. Declared fields
// present in partial are copied unchanged; absent fields take the explicit
// default when declared, otherwise a synthesized type default. Keys not
// declared in the schema are dropped: the schema is authoritative.
//
// An empty partial mapping yields no result: there is nothing worth
// defaulting into a record yet.
func (d *Descriptor) Fill(partial map[string]any) (map[string]any, bool) {
	if len(partial) == 0 {
		return nil, false
	}
	full := make(map[string]any, len(d.fields))
	for _, f := range d.fields {
		if v, ok := partial[f.Name]; ok {
			full[f.Name] = v
			continue
		}
		full[f.Name] = f.DefaultValue()
	}
	return full, true
}
