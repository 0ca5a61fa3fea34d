package qstree

// Limits applied by Untrusted.
const (
	DefaultMaxDepth = 32
	DefaultMaxIndex = 1000
)

// Untrusted returns the option bundle recommended for parsing requests from
// unknown clients. It caps nesting and list growth; a key like dog[999999]
// would otherwise allocate a list of that length.
func Untrusted() Option {
	return Group(WithMaxDepth(DefaultMaxDepth), WithMaxIndex(DefaultMaxIndex))
}

// Lenient clears limits and strict mode, restoring the default behavior.
// Use it to derive an unbounded parser from a restricted one:
//
//	internal, err := public.With(qstree.Lenient())
func Lenient() Option {
	return func(c *config) error {
		c.maxDepth = -1
		c.maxIndex = -1
		c.strict = false
		return nil
	}
}
