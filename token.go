package qstree

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind identifies a navigation step produced by Tokenize.
type TokenKind uint8

const (
	// ArrayStep is a '[' preceded by its label. An empty label directly after
	// a KeyStep only joins two bracket groups, as in a[0][1].
	ArrayStep TokenKind = iota + 1
	// ObjectStep is a '.' preceded by its label.
	ObjectStep
	// KeyStep is a closing ']' or the end of the key. Its label is an index,
	// empty (push) or a field name.
	KeyStep
)

func (k TokenKind) String() string {
	switch k {
	case ArrayStep:
		return "array"
	case ObjectStep:
		return "object"
	case KeyStep:
		return "key"
	default:
		return "invalid"
	}
}

// Token is a single navigation step of a raw key.
type Token struct {
	Kind  TokenKind
	Label string
	// Index is the parsed label of a bracketed KeyStep when it is a
	// non-negative integer, and -1 otherwise.
	Index int
	// Pos is the byte offset of Label within the raw key.
	Pos int
}

// IsIndex reports whether t addresses a list position.
func (t Token) IsIndex() bool { return t.Kind == KeyStep && t.Index >= 0 }

// IsPush reports whether t came from an empty [] and appends.
func (t Token) IsPush() bool { return t.Kind == KeyStep && t.Index < 0 && t.Label == "" }

// Tokenize splits a raw key such as dog[0].name into navigation steps. '.'
// and '[' only act as delimiters outside brackets, so dog[name.1] and
// dog[name[2]] name the fields "name.1" and "name[2]".
func Tokenize(rawKey string) ([]Token, error) {
	return tokenize(rawKey, false)
}

func tokenize(key string, trim bool) ([]Token, error) {
	toks := make([]Token, 0, 4)
	start, depth := 0, 0
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '[':
			if depth == 0 {
				toks = append(toks, newStep(ArrayStep, key[start:i], start, trim))
				start = i + 1
			}
			depth++
		case ']':
			switch depth {
			case 0:
				return nil, &PathError{Key: key, Pos: i, Err: fmt.Errorf("%w: unmatched ']'", ErrMalformedPath)}
			case 1:
				toks = append(toks, newKey(key[start:i], start, trim))
				start = i + 1
			}
			depth--
		case '.':
			if depth == 0 {
				toks = append(toks, newStep(ObjectStep, key[start:i], start, trim))
				start = i + 1
			}
		}
	}
	if depth > 0 {
		return nil, &PathError{Key: key, Pos: len(key), Err: fmt.Errorf("%w: unterminated '['", ErrMalformedPath)}
	}

	tail := key[start:]
	if trim {
		tail = strings.TrimSpace(tail)
	}
	if tail != "" {
		// a trailing label is always a field name, even when numeric
		return append(toks, Token{Kind: KeyStep, Label: tail, Index: -1, Pos: start}), nil
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != KeyStep {
		return nil, &PathError{Key: key, Pos: len(key), Err: fmt.Errorf("%w: missing terminal key", ErrMalformedPath)}
	}
	return toks, nil
}

func newStep(kind TokenKind, label string, pos int, trim bool) Token {
	if trim {
		label = strings.TrimSpace(label)
	}
	return Token{Kind: kind, Label: label, Index: -1, Pos: pos}
}

func newKey(label string, pos int, trim bool) Token {
	if trim {
		label = strings.TrimSpace(label)
	}
	return Token{Kind: KeyStep, Label: label, Index: parseIndex(label), Pos: pos}
}

// parseIndex returns label as a non-negative integer, or -1 when it is not
// made of ASCII digits only or overflows int.
func parseIndex(label string) int {
	if label == "" {
		return -1
	}
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return -1
		}
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return -1
	}
	return n
}
