package rjs

import (
	"fmt"
	"strings"
)

// LexError reports a lexical failure at a source position.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("rjs: lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer turns RJS source into a token stream (spec §4.2.1, component C3).
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewLexer creates a Lexer over the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// Tokenize consumes the entire source and returns its token stream, ending
// with a TokEOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) skipTrivia() error {
	for !l.atEnd() {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			startLine, startCol := l.line, l.col
			l.advance()
			l.advance()
			closed := false
			for !l.atEnd() {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return &LexError{startLine, startCol, "unterminated block comment"}
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) next() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	if l.atEnd() {
		return Token{Kind: TokEOF, Line: l.line, Col: l.col}, nil
	}

	startLine, startCol := l.line, l.col
	r := l.peek()

	switch {
	case isIdentStart(r):
		s := l.readIdent()
		kind := TokIdent
		if isKeyword(s) {
			kind = TokKeyword
		}
		return Token{Kind: kind, Lexeme: s, Line: startLine, Col: startCol}, nil

	case isDigit(r):
		s := l.readNumber()
		return Token{Kind: TokNumber, Lexeme: s, Line: startLine, Col: startCol}, nil

	case r == '"':
		s, err := l.readString('"')
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokString, Lexeme: s, Line: startLine, Col: startCol}, nil

	case r == '`':
		tok, err := l.readTemplate()
		if err != nil {
			return Token{}, err
		}
		tok.Line, tok.Col = startLine, startCol
		return tok, nil

	default:
		return l.readPunctOrOperator(startLine, startCol)
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *Lexer) readIdent() string {
	start := l.pos
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}
	return string(l.src[start:l.pos])
}

// readString consumes a quoted string (the opening quote has not yet been
// consumed) and returns the unescaped contents.
func (l *Lexer) readString(quote rune) (string, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.atEnd() {
			return "", &LexError{startLine, startCol, "unterminated string literal"}
		}
		r := l.advance()
		if r == quote {
			return sb.String(), nil
		}
		if r == '\\' {
			if l.atEnd() {
				return "", &LexError{startLine, startCol, "unterminated string literal"}
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case '`':
				sb.WriteByte('`')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
}

// readTemplate consumes a backtick template string, splitting it into
// literal Parts interleaved with raw ${...} interpolation source (Exprs).
// Braces inside an interpolation are depth-counted, so nested {...} of any
// depth stays part of the expression (spec §4.2.1).
func (l *Lexer) readTemplate() (Token, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening backtick
	var parts []string
	var exprs []string
	var cur strings.Builder
	for {
		if l.atEnd() {
			return Token{}, &LexError{startLine, startCol, "unterminated template string"}
		}
		r := l.advance()
		if r == '`' {
			parts = append(parts, cur.String())
			return Token{Kind: TokTemplateString, Parts: parts, Exprs: exprs}, nil
		}
		if r == '\\' {
			if l.atEnd() {
				return Token{}, &LexError{startLine, startCol, "unterminated template string"}
			}
			esc := l.advance()
			switch esc {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			case '`':
				cur.WriteByte('`')
			case '\\':
				cur.WriteByte('\\')
			default:
				cur.WriteRune(esc)
			}
			continue
		}
		if r == '$' && l.peek() == '{' {
			l.advance() // consume '{'
			depth := 1
			var exprSrc strings.Builder
			for depth > 0 {
				if l.atEnd() {
					return Token{}, &LexError{startLine, startCol, "unterminated template interpolation"}
				}
				c := l.advance()
				if c == '{' {
					depth++
				} else if c == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				exprSrc.WriteRune(c)
			}
			parts = append(parts, cur.String())
			cur.Reset()
			exprs = append(exprs, exprSrc.String())
			continue
		}
		cur.WriteRune(r)
	}
}

// multi-char operators/punctuation, longest first.
var multiOps = []string{"==", "!=", "<=", ">=", "&&", "||"}

func (l *Lexer) readPunctOrOperator(line, col int) (Token, error) {
	r := l.peek()
	for _, op := range multiOps {
		if matchesAt(l.src, l.pos, op) {
			for range op {
				l.advance()
			}
			return Token{Kind: TokOperator, Lexeme: op, Line: line, Col: col}, nil
		}
	}
	switch r {
	case '{', '}', '[', ']', '(', ')', ',', ';', ':', '.':
		l.advance()
		return Token{Kind: TokPunct, Lexeme: string(r), Line: line, Col: col}, nil
	case '+', '-', '*', '/', '%', '=', '<', '>', '!':
		l.advance()
		return Token{Kind: TokOperator, Lexeme: string(r), Line: line, Col: col}, nil
	default:
		return Token{}, &LexError{line, col, fmt.Sprintf("unexpected character %q", r)}
	}
}

func matchesAt(src []rune, pos int, s string) bool {
	rs := []rune(s)
	if pos+len(rs) > len(src) {
		return false
	}
	for i, r := range rs {
		if src[pos+i] != r {
			return false
		}
	}
	return true
}
