package text

import "strings"

// Kind tells the variants of Token apart.
type Kind int

const (
	Literal Kind = iota
	LineBreak
	FillMarker
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case LineBreak:
		return "line-break"
	case FillMarker:
		return "fill"
	default:
		return "unknown"
	}
}

// Token is one unit of escaped text. Char is only meaningful for Literal.
type Token struct {
	Kind Kind
	Char rune
}

func (t Token) String() string {
	if t.Kind == Literal {
		return string(t.Char)
	}
	return "<" + t.Kind.String() + ">"
}

// Scan splits s into tokens. `\n` is a line break, `\h` a fill marker,
// `\\` a literal backslash and `\X` the literal X for any other X. A
// trailing lone backslash is kept as a literal.
func Scan(s string) []Token {
	tokens := make([]Token, 0, len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			switch r {
			case 'n':
				tokens = append(tokens, Token{Kind: LineBreak})
			case 'h':
				tokens = append(tokens, Token{Kind: FillMarker})
			default:
				tokens = append(tokens, Token{Kind: Literal, Char: r})
			}
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		tokens = append(tokens, Token{Kind: Literal, Char: r})
	}
	if escaped {
		tokens = append(tokens, Token{Kind: Literal, Char: '\\'})
	}
	return tokens
}

// Lines splits tokens at line breaks. The result always has at least one
// (possibly empty) line.
func Lines(tokens []Token) [][]Token {
	lines := [][]Token{nil}
	for _, t := range tokens {
		if t.Kind == LineBreak {
			lines = append(lines, nil)
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], t)
	}
	return lines
}

// CountFills returns the number of fill markers in tokens.
func CountFills(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t.Kind == FillMarker {
			n++
		}
	}
	return n
}

// Plain returns the literal characters of tokens, line breaks as '\n' and
// fill markers dropped.
func Plain(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.Kind {
		case Literal:
			b.WriteRune(t.Char)
		case LineBreak:
			b.WriteByte('\n')
		}
	}
	return b.String()
}
