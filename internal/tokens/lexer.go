package tokens

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports text that cannot be split into a well-formed token tree.
type SyntaxError struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

const punctChars = "=<>!~+-*/%^&|@.,;:#$?'"

func isPunct(c byte) bool { return strings.IndexByte(punctChars, c) >= 0 }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentRune(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

type lexer struct {
	src string
	pos int
}

// Parse splits src into a token tree. Comments are dropped except doc
// comments, which become `#[doc = "..."]` attributes. Delimiters must
// balance.
func Parse(src string) (Stream, error) {
	lx := &lexer{src: src}
	return lx.stream(NoDelim, 0)
}

func (lx *lexer) errorf(off int, format string, args ...any) error {
	if off > len(lx.src) {
		off = len(lx.src)
	}
	line := 1 + strings.Count(lx.src[:off], "\n")
	col := off - strings.LastIndexByte(lx.src[:off], '\n')
	return &SyntaxError{Offset: off, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// stream lexes tokens until the closing delimiter of d, or the end of input
// when d is NoDelim. open is the offset of the opening delimiter.
func (lx *lexer) stream(d Delimiter, open int) (Stream, error) {
	var out Stream
	for {
		docs, err := lx.trivia()
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
		if lx.pos >= len(lx.src) {
			if d != NoDelim {
				return nil, lx.errorf(open, "unclosed delimiter %q", d.open())
			}
			return out, nil
		}
		switch c := lx.src[lx.pos]; c {
		case '(', '[', '{':
			start := lx.pos
			lx.pos++
			inner := delimiterOf(c)
			s, err := lx.stream(inner, start)
			if err != nil {
				return nil, err
			}
			out = append(out, Token{Kind: Group, Delim: inner, Stream: s, Pos: start, End: lx.pos})
		case ')', ']', '}':
			if d == NoDelim || d.close() != string(c) {
				return nil, lx.errorf(lx.pos, "unexpected closing delimiter %q", string(c))
			}
			lx.pos++
			return out, nil
		default:
			tok, err := lx.token()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		}
	}
}

func delimiterOf(c byte) Delimiter {
	switch c {
	case '(':
		return Parenthesis
	case '{':
		return Brace
	}
	return Bracket
}

// trivia skips whitespace and comments, returning attributes for any doc
// comments passed over.
func (lx *lexer) trivia() (Stream, error) {
	var docs Stream
	for lx.pos < len(lx.src) {
		rest := lx.src[lx.pos:]
		switch {
		case strings.HasPrefix(rest, "//"):
			start := lx.pos
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			text := rest[:end]
			lx.pos += end
			switch {
			case strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////"):
				docs = append(docs, docAttr(text[3:], false, start, lx.pos)...)
			case strings.HasPrefix(text, "//!"):
				docs = append(docs, docAttr(text[3:], true, start, lx.pos)...)
			}
		case strings.HasPrefix(rest, "/*"):
			start := lx.pos
			end, err := lx.blockComment()
			if err != nil {
				return nil, err
			}
			text := lx.src[start:end]
			lx.pos = end
			switch {
			case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/":
				docs = append(docs, docAttr(text[3:len(text)-2], false, start, end)...)
			case strings.HasPrefix(text, "/*!"):
				docs = append(docs, docAttr(text[3:len(text)-2], true, start, end)...)
			}
		default:
			r, size := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) {
				return docs, nil
			}
			lx.pos += size
		}
	}
	return docs, nil
}

// blockComment returns the offset just past the (possibly nested) block
// comment starting at lx.pos.
func (lx *lexer) blockComment() (int, error) {
	depth := 0
	for i := lx.pos; i+1 < len(lx.src); i++ {
		switch lx.src[i : i+2] {
		case "/*":
			depth++
			i++
		case "*/":
			depth--
			i++
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, lx.errorf(lx.pos, "unterminated block comment")
}

func docAttr(text string, inner bool, start, end int) Stream {
	attr := Stream{NewIdent("doc"), NewPunct('=', false), NewLiteral(quote(text))}
	out := Stream{{Kind: Punct, Text: "#", Joint: inner}}
	if inner {
		out = append(out, NewPunct('!', false))
	}
	return append(out, Token{Kind: Group, Delim: Bracket, Stream: attr, Pos: start, End: end})
}

// quote renders s as a Rust string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// token lexes one identifier, literal or punct at lx.pos.
func (lx *lexer) token() (Token, error) {
	start := lx.pos
	c := lx.src[start]
	switch {
	case c == '"':
		end, err := lx.quoted(start+1, '"')
		if err != nil {
			return Token{}, err
		}
		return lx.literal(start, end), nil
	case c == '\'':
		return lx.quoteOrLifetime(start, start)
	case isDigit(c):
		return lx.literal(start, lx.number(start)), nil
	case c == 'r' || c == 'b' || c == 'c':
		if tok, ok, err := lx.prefixed(start); ok || err != nil {
			return tok, err
		}
		return lx.ident(start)
	case isPunct(c):
		lx.pos++
		joint := lx.pos < len(lx.src) && isPunct(lx.src[lx.pos])
		return Token{Kind: Punct, Text: string(c), Joint: joint, Pos: start, End: lx.pos}, nil
	}
	return lx.ident(start)
}

func (lx *lexer) literal(start, end int) Token {
	lx.pos = end
	return Token{Kind: Literal, Text: lx.src[start:end], Pos: start, End: end}
}

func (lx *lexer) ident(start int) (Token, error) {
	r, size := utf8.DecodeRuneInString(lx.src[start:])
	if !isIdentStartRune(r) {
		return Token{}, lx.errorf(start, "unexpected character %q", r)
	}
	end := start + size
	for end < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[end:])
		if !isIdentRune(r) {
			break
		}
		end += size
	}
	lx.pos = end
	return Token{Kind: Ident, Text: lx.src[start:end], Pos: start, End: end}, nil
}

// prefixed handles raw identifiers and the r, b, br, c and cr literal
// prefixes. ok is false when start begins a plain identifier.
func (lx *lexer) prefixed(start int) (Token, bool, error) {
	rest := lx.src[start:]
	switch {
	case strings.HasPrefix(rest, "r#") && len(rest) > 2 && rest[2] != '"' && rest[2] != '#':
		tok, err := lx.ident(start + 2)
		if err != nil {
			return Token{}, true, err
		}
		tok.Text = lx.src[start:tok.End]
		tok.Pos = start
		return tok, true, nil
	case strings.HasPrefix(rest, "b'"):
		tok, err := lx.quoteOrLifetime(start, start+1)
		return tok, true, err
	case strings.HasPrefix(rest, `b"`), strings.HasPrefix(rest, `c"`):
		end, err := lx.quoted(start+2, '"')
		if err != nil {
			return Token{}, true, err
		}
		return lx.literal(start, end), true, nil
	}
	for _, p := range []string{"r", "br", "cr"} {
		if strings.HasPrefix(rest, p+`"`) || strings.HasPrefix(rest, p+"#") {
			end, err := lx.raw(start, start+len(p))
			if err != nil {
				return Token{}, true, err
			}
			return lx.literal(start, end), true, nil
		}
	}
	return Token{}, false, nil
}

// quoted scans an escaped literal body starting at from and returns the
// offset just past the closing quote q.
func (lx *lexer) quoted(from int, q byte) (int, error) {
	for i := from; i < len(lx.src); i++ {
		switch lx.src[i] {
		case '\\':
			i++
		case q:
			return i + 1, nil
		}
	}
	return 0, lx.errorf(from-1, "unterminated literal")
}

// raw scans a raw string whose hashes begin at from.
func (lx *lexer) raw(start, from int) (int, error) {
	i := from
	for i < len(lx.src) && lx.src[i] == '#' {
		i++
	}
	hashes := i - from
	if i >= len(lx.src) || lx.src[i] != '"' {
		return 0, lx.errorf(start, "malformed raw string literal")
	}
	closing := `"` + strings.Repeat("#", hashes)
	end := strings.Index(lx.src[i+1:], closing)
	if end < 0 {
		return 0, lx.errorf(start, "unterminated raw string literal")
	}
	return i + 1 + end + len(closing), nil
}

// quoteOrLifetime lexes a char literal or the leading quote of a lifetime.
// q is the offset of the quote, start the offset of the whole token.
func (lx *lexer) quoteOrLifetime(start, q int) (Token, error) {
	if q+1 >= len(lx.src) {
		return Token{}, lx.errorf(q, "unterminated character literal")
	}
	if lx.src[q+1] == '\\' {
		end, err := lx.quoted(q+1, '\'')
		if err != nil {
			return Token{}, err
		}
		return lx.literal(start, end), nil
	}
	r, size := utf8.DecodeRuneInString(lx.src[q+1:])
	if after := q + 1 + size; after < len(lx.src) && lx.src[after] == '\'' {
		return lx.literal(start, after+1), nil
	}
	if start == q && isIdentStartRune(r) {
		lx.pos = q + 1
		return Token{Kind: Punct, Text: "'", Joint: true, Pos: q, End: q + 1}, nil
	}
	return Token{}, lx.errorf(q, "unterminated character literal")
}

// number returns the offset past the numeric literal at start, including
// any type suffix.
func (lx *lexer) number(start int) int {
	hex := strings.HasPrefix(lx.src[start:], "0x")
	// suffix is set once a letter other than an exponent marker is consumed;
	// an exponent sign is only valid before that.
	suffix := hex
	i := start
	for i < len(lx.src) {
		c := lx.src[i]
		switch {
		case isDigit(c) || c == '_':
			i++
		case ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
			if c != 'e' && c != 'E' {
				suffix = true
			}
			i++
		case c == '.' && i+1 < len(lx.src) && isDigit(lx.src[i+1]):
			i++
		case (c == '+' || c == '-') && !suffix && (lx.src[i-1] == 'e' || lx.src[i-1] == 'E'):
			i++
		default:
			return i
		}
	}
	return i
}
