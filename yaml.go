package qstree

import "github.com/goccy/go-yaml"

// MarshalYAML encodes a tree as YAML. Objects become ordered mappings and
// gaps become null.
func MarshalYAML(v Value) ([]byte, error) {
	return yaml.Marshal(v)
}

// MarshalYAML returns the entries as an ordered yaml.MapSlice.
func (o *Object) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(o.entries))
	for _, e := range o.entries {
		ms = append(ms, yaml.MapItem{Key: e.Key, Value: e.Value})
	}
	return ms, nil
}

// MarshalYAML returns the items as a sequence.
func (l *List) MarshalYAML() (any, error) {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = v
	}
	return out, nil
}

// MarshalYAML returns the scalar as a plain string.
func (s Scalar) MarshalYAML() (any, error) { return string(s), nil }

// MarshalYAML returns nil, which encodes as null.
func (Gap) MarshalYAML() (any, error) { return nil, nil }
