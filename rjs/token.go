package rjs

// TokenKind classifies a lexical token (spec §4.2.1).
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokNumber
	TokString
	TokTemplateString
	TokKeyword
	TokPunct
	TokOperator
)

// Token is a single lexeme with its source position (1-based line/col).
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Col    int

	// Parts/Exprs hold the decomposed pieces of a template string: Parts[i]
	// is literal text, Exprs[i] is the raw source of the i-th ${...}
	// interpolation (re-lexed/parsed independently by the parser). len(Parts)
	// == len(Exprs)+1.
	Parts []string
	Exprs []string
}

var keywords = map[string]bool{
	"let": true, "func": true, "return": true, "if": true, "else": true,
	"for": true, "while": true, "switch": true, "case": true, "default": true,
	"break": true, "continue": true, "true": true, "false": true, "undefined": true,
}

func isKeyword(s string) bool { return keywords[s] }
