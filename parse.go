package qstree

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
)

// Pair is a decoded key/value pair of a query string.
type Pair struct {
	Key   string
	Value string
}

// SplitQuery splits query into decoded pairs. A leading '?' is ignored,
// empty segments and empty keys are dropped, and a segment without '=' gets
// an empty value. Keys and values are percent-decoded with '+' as space; a
// malformed escape leaves the text as written. An empty seps means
// DefaultSeparators.
func SplitQuery(query, seps string) []Pair {
	if seps == "" {
		seps = DefaultSeparators
	}
	query = strings.TrimPrefix(query, "?")

	var pairs []Pair
	isSep := func(r rune) bool { return strings.ContainsRune(seps, r) }
	for seg := range strings.FieldsFuncSeq(query, isSep) {
		k, v, _ := strings.Cut(seg, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		pairs = append(pairs, Pair{Key: k, Value: unescape(v)})
	}
	return pairs
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// Parser turns query strings into trees. It holds only configuration and is
// safe for concurrent use; every call builds its own tree.
type Parser struct {
	cfg config
}

// NewParser returns a parser configured by opts.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{cfg: defaultConfig()}
	if err := apply(&p.cfg, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// With returns a copy of p with opts applied on top of its configuration.
func (p *Parser) With(opts ...Option) (*Parser, error) {
	cp := &Parser{cfg: p.cfg}
	if err := apply(&cp.cfg, opts...); err != nil {
		return nil, err
	}
	return cp, nil
}

// Parse is shorthand for NewParser(opts...) followed by Parse(query).
func Parse(query string, opts ...Option) (*Object, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(query)
}

// Parse splits query into pairs and builds the tree.
func (p *Parser) Parse(query string) (*Object, error) {
	return p.Build(SplitQuery(query, p.cfg.separators))
}

// ParseValues builds the tree from already decoded form values, such as
// http.Request.Form. Values under one key keep their order.
func (p *Parser) ParseValues(vals url.Values) (*Object, error) {
	pairs := make([]Pair, 0, len(vals))
	for k, vs := range vals {
		for _, v := range vs {
			pairs = append(pairs, Pair{Key: k, Value: v})
		}
	}
	return p.Build(pairs)
}

// Build applies pairs to a fresh tree. Pairs are stable-sorted by key
// first, byte-wise, so the input order does not matter except between equal
// keys, where the later pair wins. Sorting is lexicographic: dog[10] comes
// before dog[2].
//
// Build returns either the complete tree or an error, never a partial tree.
func (p *Parser) Build(pairs []Pair) (*Object, error) {
	sorted := slices.Clone(pairs)
	if p.cfg.trimSpace {
		for i := range sorted {
			sorted[i].Key = strings.TrimSpace(sorted[i].Key)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Pair) int { return strings.Compare(a.Key, b.Key) })

	b := &builder{cfg: &p.cfg, root: NewObject()}
	for _, pair := range sorted {
		if pair.Key == "" {
			continue
		}
		// fast path
		if !strings.ContainsAny(pair.Key, "[.") {
			b.root.Set(pair.Key, Scalar(pair.Value))
			continue
		}
		if err := b.apply(pair); err != nil {
			p.cfg.logger.LogAttrs(context.Background(), slog.LevelDebug, "qstree: parse aborted",
				slog.String("key", pair.Key),
				slog.Any("err", err),
			)
			return nil, err
		}
	}
	return b.root, nil
}
