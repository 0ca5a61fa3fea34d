// Package ctyconv converts qstree values to and from cty values, so query
// parameters can be fed to HCL evaluation contexts.
package ctyconv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/text/unicode/norm"

	"github.com/calumari/qstree"
)

// ErrKeyCollision is returned by FromValue when two object keys name the same
// cty attribute. cty normalizes attribute names to NFC, so keys that differ
// only in Unicode normalization cannot both be represented.
var ErrKeyCollision = errors.New("ctyconv: keys collide after NFC normalization")

// FromValue converts a tree to cty. Objects become object values, lists
// become tuples (their elements may differ in type), scalars become strings
// and gaps become dynamic nulls.
func FromValue(v qstree.Value) (cty.Value, error) {
	switch v := v.(type) {
	case *qstree.Object:
		if v.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, v.Len())
		seen := make(map[string]string, v.Len())
		for k, child := range v.All() {
			name := norm.NFC.String(k)
			if prev, ok := seen[name]; ok {
				return cty.NilVal, fmt.Errorf("%w: %q and %q", ErrKeyCollision, prev, k)
			}
			seen[name] = k
			val, err := FromValue(child)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
			}
			attrs[name] = val
		}
		return cty.ObjectVal(attrs), nil
	case *qstree.List:
		if v.Len() == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, v.Len())
		for i, child := range v.All() {
			val, err := FromValue(child)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, val)
		}
		return cty.TupleVal(elems), nil
	case qstree.Scalar:
		return cty.StringVal(string(v)), nil
	default:
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
}

// ToValue converts a cty value back to a tree. Numbers and bools become
// scalars in their canonical text form, maps and objects become objects with
// keys in sorted order, and lists, sets and tuples become lists. Unknown
// values cannot be represented and are rejected.
func ToValue(val cty.Value) (qstree.Value, error) {
	if val.IsNull() {
		return qstree.Gap{}, nil
	}
	if !val.IsKnown() {
		return nil, fmt.Errorf("ctyconv: unknown value of type %s", val.Type().FriendlyName())
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return qstree.Scalar(val.AsString()), nil
	case ty == cty.Number:
		return qstree.Scalar(val.AsBigFloat().Text('f', -1)), nil
	case ty == cty.Bool:
		if val.True() {
			return qstree.Scalar("true"), nil
		}
		return qstree.Scalar("false"), nil
	case ty.IsObjectType() || ty.IsMapType():
		m := val.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := qstree.NewObject()
		for _, k := range keys {
			child, err := ToValue(m[k])
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", k, err)
			}
			obj.Set(k, child)
		}
		return obj, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		list := qstree.NewList()
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			child, err := ToValue(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", list.Len(), err)
			}
			list.Append(child)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("ctyconv: unsupported type %s", ty.FriendlyName())
	}
}
