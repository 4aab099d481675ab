// Package tokens models Rust source as a tree of lexical tokens, the shape a
// procedural macro receives: identifiers, literals, punctuation and delimited
// groups holding nested streams.
package tokens

import "strings"

// Kind classifies a token tree node.
type Kind int

const (
	Ident Kind = iota
	Literal
	Punct
	Group
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Literal:
		return "literal"
	case Punct:
		return "punct"
	case Group:
		return "group"
	}
	return "unknown"
}

// Delimiter is the bracket pair enclosing a group.
type Delimiter int

const (
	NoDelim Delimiter = iota
	Parenthesis
	Brace
	Bracket
)

func (d Delimiter) String() string {
	switch d {
	case Parenthesis:
		return "()"
	case Brace:
		return "{}"
	case Bracket:
		return "[]"
	}
	return "none"
}

func (d Delimiter) open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	}
	return ""
}

func (d Delimiter) close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	}
	return ""
}

// Token is a single node of a token tree.
//
// Pos and End are byte offsets into the text the token was lexed from. Tokens
// built with the New* constructors carry no offsets.
type Token struct {
	Kind Kind
	// Text is the lexical form of an Ident, Literal or Punct.
	Text string
	// Joint marks a Punct that is immediately followed by another
	// punctuation character, as in the two halves of `->` or `::`.
	Joint  bool
	Delim  Delimiter
	Stream Stream
	Pos    int
	End    int
}

func NewIdent(name string) Token { return Token{Kind: Ident, Text: name} }

func NewLiteral(text string) Token { return Token{Kind: Literal, Text: text} }

func NewPunct(ch byte, joint bool) Token {
	return Token{Kind: Punct, Text: string(ch), Joint: joint}
}

func NewGroup(d Delimiter, s Stream) Token {
	return Token{Kind: Group, Delim: d, Stream: s}
}

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool { return t.Kind == Ident && t.Text == name }

// IsPunct reports whether t is the punctuation character ch.
func (t Token) IsPunct(ch string) bool { return t.Kind == Punct && t.Text == ch }

// IsGroup reports whether t is a group delimited by d.
func (t Token) IsGroup(d Delimiter) bool { return t.Kind == Group && t.Delim == d }

func (t Token) sourced() bool { return t.End > 0 }

func (t Token) String() string {
	var b strings.Builder
	renderToken(&b, "", t)
	return b.String()
}

// Stream is an ordered sequence of tokens.
type Stream []Token

// String renders s with canonical spacing: one space between tokens, none
// after a joint punct.
func (s Stream) String() string { return Render("", s) }

// Render writes s back to text. Between two tokens that were lexed next to
// each other from src, the original whitespace and comments are kept;
// everywhere else the canonical spacing of String is used.
func Render(src string, s Stream) string {
	var b strings.Builder
	renderStream(&b, src, s)
	return b.String()
}

func renderStream(b *strings.Builder, src string, s Stream) {
	var prev Token
	for i := 0; i < len(s); {
		t, n := s[i], 1
		if w := docWidth(src, s[i:]); w > 0 {
			t, n = s[i+w-1], w
		}
		if i > 0 {
			b.WriteString(gap(src, prev, t))
		}
		if n > 1 {
			b.WriteString(src[t.Pos:t.End])
		} else {
			renderToken(b, src, t)
		}
		prev = t
		i += n
	}
}

func renderToken(b *strings.Builder, src string, t Token) {
	if t.Kind != Group {
		b.WriteString(t.Text)
		return
	}
	b.WriteString(t.Delim.open())
	if len(t.Stream) == 0 {
		if ws, ok := between(src, t.Pos+1, t.End-1); ok && t.sourced() {
			b.WriteString(ws)
		}
		b.WriteString(t.Delim.close())
		return
	}
	first, last := t.Stream[0], t.Stream[len(t.Stream)-1]
	if w := docWidth(src, t.Stream); w > 0 {
		first = t.Stream[w-1]
	}
	if ws, ok := between(src, t.Pos+1, first.Pos); ok && t.sourced() && first.sourced() {
		b.WriteString(ws)
	} else if t.Delim == Brace {
		b.WriteByte(' ')
	}
	renderStream(b, src, t.Stream)
	switch ws, ok := between(src, last.End, t.End-1); {
	case ok && t.sourced() && last.sourced():
		b.WriteString(ws)
	case isLineDoc(src, last):
		b.WriteByte('\n')
	case t.Delim == Brace:
		b.WriteByte(' ')
	}
	b.WriteString(t.Delim.close())
}

// gap returns the text written between prev and next. Source neighbours keep
// the text between them; a source token that ended its line keeps the line
// break and the indentation that followed it.
func gap(src string, prev, next Token) string {
	if prev.sourced() && next.sourced() {
		if ws, ok := between(src, prev.End, next.Pos); ok {
			return ws
		}
	}
	if prev.sourced() && prev.End <= len(src) {
		rest := src[prev.End:]
		ws := rest[:len(rest)-len(strings.TrimLeft(rest, " \t\r\n"))]
		if strings.Contains(ws, "\n") {
			return ws
		}
		if isLineDoc(src, prev) {
			return "\n"
		}
	}
	if prev.Kind == Punct && prev.Joint {
		return ""
	}
	return " "
}

// docWidth returns the number of tokens of the doc comment attribute at the
// start of s, or 0 when s does not start with one. A doc comment is only
// recognized when its text is available in src.
func docWidth(src string, s Stream) int {
	if len(s) < 2 || !s[0].IsPunct("#") || s[0].sourced() {
		return 0
	}
	w := 1
	if s[0].Joint {
		if !s[1].IsPunct("!") {
			return 0
		}
		w = 2
	}
	if len(s) <= w || !isDocGroup(src, s[w]) {
		return 0
	}
	return w + 1
}

// isDocGroup reports whether t is the attribute group lexed from a doc
// comment in src.
func isDocGroup(src string, t Token) bool {
	return t.IsGroup(Bracket) && t.sourced() && t.End <= len(src) && src[t.Pos] == '/'
}

func isLineDoc(src string, t Token) bool {
	return isDocGroup(src, t) && strings.HasPrefix(src[t.Pos:], "//")
}

// between returns src[from:to] when that range exists and holds only
// whitespace and non-doc comments.
func between(src string, from, to int) (string, bool) {
	if from < 0 || from > to || to > len(src) {
		return "", false
	}
	lx := &lexer{src: src[:to], pos: from}
	docs, err := lx.trivia()
	if err != nil || len(docs) > 0 || lx.pos != to {
		return "", false
	}
	return src[from:to], true
}
