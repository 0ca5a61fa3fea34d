package qstree

import (
	"fmt"
	"log/slog"
)

// DefaultSeparators splits pairs on '&' only, matching form-urlencoded
// decoding.
const DefaultSeparators = "&"

type config struct {
	maxDepth   int // <0 means unbounded
	maxIndex   int // <0 means unbounded
	strict     bool
	trimSpace  bool
	separators string
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		maxDepth:   -1,
		maxIndex:   -1,
		separators: DefaultSeparators,
		logger:     slog.New(slog.DiscardHandler),
	}
}

// Option configures a Parser. Options are plain values so packages can share
// presets without touching global state:
//
//	p, err := qstree.NewParser(qstree.Untrusted(), qstree.WithStrict())
type Option func(c *config) error

// Group combines several options into one, applied in order.
//
//	qstree.Group(qstree.WithMaxDepth(4), qstree.WithMaxIndex(99))
func Group(opts ...Option) Option {
	return func(c *config) error { return apply(c, opts...) }
}

// apply stops at the first failing option and returns its error.
func apply(c *config, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithMaxDepth rejects keys that place a value more than n containers below
// the root. a=1 has depth 0 and a[0][0][0]=x has depth 3.
func WithMaxDepth(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("%w: max depth %d is negative", ErrInvalidOption, n)
		}
		c.maxDepth = n
		return nil
	}
}

// WithMaxIndex rejects list indices above n, including the position a push
// would fill.
func WithMaxIndex(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("%w: max index %d is negative", ErrInvalidOption, n)
		}
		c.maxIndex = n
		return nil
	}
}

// WithStrict turns shape conflicts into ErrShapeConflict instead of letting
// the first writer's shape win.
func WithStrict() Option {
	return func(c *config) error {
		c.strict = true
		return nil
	}
}

// WithTrimSpace trims ASCII whitespace around raw keys and around every
// bracket or dot label, so " dog[ 1 ]" addresses dog[1]. Values are never
// trimmed.
func WithTrimSpace() Option {
	return func(c *config) error {
		c.trimSpace = true
		return nil
	}
}

// WithSeparators sets the characters that split a query into pairs.
func WithSeparators(seps string) Option {
	return func(c *config) error {
		if seps == "" {
			return fmt.Errorf("%w: empty separator set", ErrInvalidOption)
		}
		c.separators = seps
		return nil
	}
}

// WithLogger sets the logger that receives shape conflicts and aborted
// parses at debug level. A nil logger restores the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		c.logger = l
		return nil
	}
}
