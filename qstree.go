// Package qstree parses query strings written in bracket/dot path notation
// (dog[0].name=lucy, dog[]=radar) into a nested tree of ordered objects,
// lists and string scalars.
package qstree

import "iter"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindGap Kind = iota
	KindScalar
	KindObject
	KindList
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGap:
		return "gap"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a node of a parsed tree. It is one of *Object, *List, Scalar or
// Gap; the set is closed.
type Value interface {
	// Kind reports which variant the value is.
	Kind() Kind
	isValue()
}

// Scalar is a decoded form-field value.
type Scalar string

// Kind returns KindScalar.
func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) isValue()   {}

// Gap occupies list positions that were skipped when a higher index was
// written first. It is distinct from Scalar("").
type Gap struct{}

// Kind returns KindGap.
func (Gap) Kind() Kind { return KindGap }
func (Gap) isValue()   {}

// Entry represents a single entry in an Object.
type Entry struct {
	Key   string
	Value Value
}

// Object is an ordered collection of key-value pairs. Keys are unique and
// keep the position of their first insertion.
type Object struct {
	entries []Entry
	index   map[string]int
}

// NewObject returns an object holding entries in order. A repeated key
// overwrites the earlier value in place.
func NewObject(entries ...Entry) *Object {
	o := &Object{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Kind returns KindObject.
func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// Len returns the number of entries.
func (o *Object) Len() int { return len(o.entries) }

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].Value, true
}

// Set stores v under key, replacing any existing value without moving it.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.entries[i].Value = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry{Key: key, Value: v})
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (o *Object) Entries() []Entry {
	out := make([]Entry, len(o.entries))
	copy(out, o.entries)
	return out
}

// All iterates over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, e := range o.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// List is a dense, index-addressable sequence of values. Unset positions
// hold Gap.
type List struct {
	items []Value
}

// NewList returns a list holding items in order.
func NewList(items ...Value) *List {
	l := &List{}
	l.items = append(l.items, items...)
	return l
}

// Kind returns KindList.
func (*List) Kind() Kind { return KindList }
func (*List) isValue()   {}

// Len returns the number of elements, gaps included.
func (l *List) Len() int { return len(l.items) }

// At returns the element at i, or nil when i is out of range.
func (l *List) At(i int) Value {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Append adds v at the end of the list.
func (l *List) Append(v Value) { l.items = append(l.items, v) }

// Set stores v at index i. Writing past the end grows the list to i+1 and
// fills the skipped positions with Gap.
func (l *List) Set(i int, v Value) {
	for len(l.items) <= i {
		l.items = append(l.items, Gap{})
	}
	l.items[i] = v
}

// All iterates over the elements in order.
func (l *List) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Equal reports whether a and b are the same tree. Object key order is
// significant.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Gap:
		_, ok := b.(Gap)
		return ok
	case Scalar:
		bs, ok := b.(Scalar)
		return ok && a == bs
	case *Object:
		bo, ok := b.(*Object)
		if !ok || a.Len() != bo.Len() {
			return false
		}
		for i, e := range a.entries {
			be := bo.entries[i]
			if e.Key != be.Key || !Equal(e.Value, be.Value) {
				return false
			}
		}
		return true
	case *List:
		bl, ok := b.(*List)
		if !ok || a.Len() != bl.Len() {
			return false
		}
		for i, v := range a.items {
			if !Equal(v, bl.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
