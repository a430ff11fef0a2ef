package chronic

import (
	"strings"
)

// Token is one word of normalized input and the tags scanners attached to it.
type Token struct {
	Word string
	tags []Tag
}

// Tokenize splits normalized text on whitespace.
func Tokenize(text string) []*Token {
	words := strings.Fields(text)
	tokens := make([]*Token, len(words))
	for i, w := range words {
		tokens[i] = &Token{Word: w}
	}
	return tokens
}

// Tag attaches t unless an equal tag is already present.
func (t *Token) Tag(tag Tag) {
	for _, existing := range t.tags {
		if existing == tag {
			return
		}
	}
	t.tags = append(t.tags, tag)
}

// Untag removes every tag of kind k.
func (t *Token) Untag(k Kind) {
	kept := t.tags[:0]
	for _, tag := range t.tags {
		if !tag.Is(k) {
			kept = append(kept, tag)
		}
	}
	t.tags = kept
}

// Tagged reports whether any scanner recognized the token.
func (t *Token) Tagged() bool {
	return len(t.tags) > 0
}

// Has reports whether the token carries a tag of kind k.
func (t *Token) Has(k Kind) bool {
	for _, tag := range t.tags {
		if tag.Is(k) {
			return true
		}
	}
	return false
}

// Tags returns a copy of the token's tags in attachment order.
func (t *Token) Tags() []Tag {
	return append([]Tag(nil), t.tags...)
}

func (t *Token) String() string {
	if len(t.tags) == 0 {
		return t.Word
	}
	names := make([]string, len(t.tags))
	for i, tag := range t.tags {
		names[i] = tag.String()
	}
	return t.Word + "[" + strings.Join(names, ", ") + "]"
}

// tagOf returns the first tag of type T on tok.
func tagOf[T Tag](tok *Token) (T, bool) {
	for _, tag := range tok.tags {
		if v, ok := tag.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// scalarOf returns the value of the first scalar of the given kind.
func scalarOf(tok *Token, kind ScalarKind) (int, bool) {
	for _, tag := range tok.tags {
		if s, ok := tag.(Scalar); ok && s.Kind == kind {
			return s.Value, true
		}
	}
	return 0, false
}

// ordinalOf returns the ordinal value, preferring a day ordinal when asked.
func ordinalOf(tok *Token, day bool) (int, bool) {
	for _, tag := range tok.tags {
		if o, ok := tag.(Ordinal); ok && (!day || o.Day) {
			return o.Value, true
		}
	}
	return 0, false
}

func tagged(tokens []*Token) []*Token {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.Tagged() {
			out = append(out, tok)
		}
	}
	return out
}

// without returns the tokens that carry none of the given kinds.
func without(tokens []*Token, kinds ...Kind) []*Token {
	out := make([]*Token, 0, len(tokens))
next:
	for _, tok := range tokens {
		for _, k := range kinds {
			if tok.Has(k) {
				continue next
			}
		}
		out = append(out, tok)
	}
	return out
}
