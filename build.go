package qstree

import (
	"context"
	"fmt"
	"log/slog"
)

type addrKind uint8

const (
	addrName addrKind = iota
	addrIndex
	addrPush
)

func (k addrKind) String() string {
	switch k {
	case addrIndex:
		return "index"
	case addrPush:
		return "push"
	default:
		return "name"
	}
}

// address is one resolved position of a path: a field name, a list index or
// an append.
type address struct {
	kind  addrKind
	label string
	index int
	pos   int
}

// addresses flattens tokens into the positions they address. An empty
// ArrayStep or ObjectStep right after a KeyStep only joins two groups
// (the '[' of a[0][1], the '.' of a[0].b) and addresses nothing.
func addresses(toks []Token) []address {
	out := make([]address, 0, len(toks))
	for i, t := range toks {
		switch t.Kind {
		case ArrayStep, ObjectStep:
			if t.Label == "" && i > 0 && toks[i-1].Kind == KeyStep {
				continue
			}
			out = append(out, address{kind: addrName, label: t.Label, index: -1, pos: t.Pos})
		case KeyStep:
			a := address{kind: addrName, label: t.Label, index: t.Index, pos: t.Pos}
			switch {
			case t.IsIndex():
				a.kind = addrIndex
			case t.IsPush():
				a.kind = addrPush
			}
			out = append(out, a)
		}
	}
	return out
}

// containerFor returns the container a step creates when the following
// address is next. Indices and pushes need a list, names need an object.
func containerFor(next address) Value {
	if next.kind == addrName {
		return NewObject()
	}
	return NewList()
}

func isContainer(v Value) bool {
	switch v.(type) {
	case *Object, *List:
		return true
	default:
		return false
	}
}

// builder applies pairs to a single tree. It is used for one Build call and
// then discarded.
type builder struct {
	cfg  *config
	root *Object
}

func (b *builder) apply(p Pair) error {
	toks, err := tokenize(p.Key, b.cfg.trimSpace)
	if err != nil {
		return err
	}
	addrs := addresses(toks)
	if depth := len(addrs) - 1; b.cfg.maxDepth >= 0 && depth > b.cfg.maxDepth {
		return &PathError{
			Key: p.Key,
			Pos: addrs[b.cfg.maxDepth+1].pos,
			Err: fmt.Errorf("%w: depth %d above maximum %d", ErrLimitExceeded, depth, b.cfg.maxDepth),
		}
	}

	var ref Value = b.root
	for i, a := range addrs[:len(addrs)-1] {
		ref, err = b.descend(p.Key, ref, a, addrs[i+1])
		if err != nil {
			return err
		}
	}
	return b.assign(p.Key, ref, addrs[len(addrs)-1], Scalar(p.Value))
}

// descend returns the container addressed by a inside ref, creating it when
// absent. An existing container is reused whatever its kind; a scalar or gap
// in the way is replaced.
func (b *builder) descend(key string, ref Value, a, next address) (Value, error) {
	switch c := ref.(type) {
	case *Object:
		if a.kind != addrName {
			if err := b.conflict(key, a, a.kind.String()+" step into object"); err != nil {
				return nil, err
			}
		}
		if v, ok := c.Get(a.label); ok {
			if isContainer(v) {
				return v, nil
			}
			if err := b.conflict(key, a, "container replaces scalar"); err != nil {
				return nil, err
			}
		}
		child := containerFor(next)
		c.Set(a.label, child)
		return child, nil

	case *List:
		switch a.kind {
		case addrIndex:
			if err := b.checkIndex(key, a, a.index); err != nil {
				return nil, err
			}
			switch v := c.At(a.index); v.(type) {
			case *Object, *List:
				return v, nil
			case Scalar:
				if err := b.conflict(key, a, "container replaces scalar"); err != nil {
					return nil, err
				}
			}
			child := containerFor(next)
			c.Set(a.index, child)
			return child, nil
		case addrName:
			if err := b.conflict(key, a, "name step into list"); err != nil {
				return nil, err
			}
		}
		if err := b.checkIndex(key, a, c.Len()); err != nil {
			return nil, err
		}
		child := containerFor(next)
		c.Append(child)
		return child, nil
	}
	return nil, fmt.Errorf("descend into %T", ref)
}

// assign stores v at the terminal address a inside ref. A container already
// stored there is kept and v dropped.
func (b *builder) assign(key string, ref Value, a address, v Scalar) error {
	switch c := ref.(type) {
	case *Object:
		if a.kind != addrName {
			if err := b.conflict(key, a, a.kind.String()+" into object"); err != nil {
				return err
			}
		}
		if old, ok := c.Get(a.label); ok && isContainer(old) {
			return b.conflict(key, a, "scalar would replace container")
		}
		c.Set(a.label, v)
		return nil

	case *List:
		switch a.kind {
		case addrIndex:
			if err := b.checkIndex(key, a, a.index); err != nil {
				return err
			}
			if isContainer(c.At(a.index)) {
				return b.conflict(key, a, "scalar would replace container")
			}
			c.Set(a.index, v)
			return nil
		case addrName:
			if err := b.conflict(key, a, "name into list"); err != nil {
				return err
			}
		}
		if err := b.checkIndex(key, a, c.Len()); err != nil {
			return err
		}
		c.Append(v)
		return nil
	}
	return fmt.Errorf("assign into %T", ref)
}

func (b *builder) checkIndex(key string, a address, i int) error {
	if b.cfg.maxIndex < 0 || i <= b.cfg.maxIndex {
		return nil
	}
	return &PathError{
		Key: key,
		Pos: a.pos,
		Err: fmt.Errorf("%w: index %d above maximum %d", ErrLimitExceeded, i, b.cfg.maxIndex),
	}
}

// conflict records a pair that disagrees with the shape already built. In
// strict mode it fails the parse; otherwise it is logged and tolerated.
func (b *builder) conflict(key string, a address, reason string) error {
	if b.cfg.strict {
		return &PathError{Key: key, Pos: a.pos, Err: fmt.Errorf("%w: %s", ErrShapeConflict, reason)}
	}
	b.cfg.logger.LogAttrs(context.Background(), slog.LevelDebug, "qstree: shape conflict",
		slog.String("key", key),
		slog.Int("pos", a.pos),
		slog.String("reason", reason),
	)
	return nil
}
