package pytoken

import "pysema/internal/source"

// Token is a single lexed unit with its location and literal text.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Indent carries the column depth for Indent/Dedent tokens; unused
	// otherwise.
	Indent int
}
