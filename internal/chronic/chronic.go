// Package chronic resolves English time expressions such as "next friday at
// 5pm" or "3 years ago" into spans relative to a reference instant.
//
// Parsing runs in stages. The text is normalized (lowercased, numbers
// spelled as digits, colloquialisms rewritten), split into tokens and
// scanned: each token is tagged with every role it could play. Untagged
// tokens are dropped and the remaining sequence is matched against an
// ordered grammar. The first matching rule resolves the tokens through
// repeaters, which do the calendar arithmetic.
//
// Text that no rule accepts is not an error: Parse returns a nil span.
// Errors report misconfigured options or a repeater used in a way it does
// not support.
//
// Parse has no shared mutable state and is safe for concurrent use.
package chronic

import (
	"time"

	"github.com/basecamp/when/internal/span"
)

// Result describes how an input was interpreted.
type Result struct {
	Input      string
	Normalized string
	Tokens     []*Token

	// Group and Handler name the grammar rule that matched, if any.
	Group   string
	Handler string

	// Span is nil when nothing matched.
	Span *span.Span
}

// Parse resolves text relative to opts.Now. With opts.Guess the result is
// the zero-width span at the representative instant of the match.
func Parse(text string, opts Options) (*span.Span, error) {
	res, err := Analyze(text, opts)
	if err != nil || res.Span == nil {
		return nil, err
	}
	if opts.Guess {
		s := span.Instant(span.Guess(*res.Span))
		return &s, nil
	}
	return res.Span, nil
}

// Analyze runs every stage and reports the intermediate results. It does
// not apply Guess.
func Analyze(text string, opts Options) (*Result, error) {
	start := time.Now()
	hooks := opts.hooks()

	if err := opts.Validate(); err != nil {
		hooks.OnResult(text, nil, err, time.Since(start))
		return nil, err
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	res := &Result{Input: text, Normalized: Normalize(text)}
	hooks.OnNormalized(text, res.Normalized)

	tokens := Tokenize(res.Normalized)
	Scan(tokens, opts)
	res.Tokens = tagged(tokens)
	hooks.OnTokens(res.Tokens)

	s, err := resolve(res, opts)
	res.Span = s
	hooks.OnResult(text, s, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func resolve(res *Result, opts Options) (*span.Span, error) {
	r := &resolver{now: opts.Now, opts: opts}
	for _, group := range groupOrder {
		for _, h := range definitions[group] {
			if !h.match(res.Tokens) {
				continue
			}
			res.Group, res.Handler = group, h.name
			opts.hooks().OnMatch(group, h.name)
			return h.resolve(r, groupTokens(group, res.Tokens))
		}
	}
	return nil, nil
}
