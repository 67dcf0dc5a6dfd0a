package scenario

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.\d+|\d+|\.\d+)(?:px)?`},
		{Name: "Star", Pattern: `\*`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.:\-]*`},
	})

	widthParser = participle.MustBuild[widthExpr](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace"),
	)

	stepParser = participle.MustBuild[stepExpr](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace"),
	)
)

// widthExpr is a width literal: a keyword, a pixel count, or a star factor.
type widthExpr struct {
	Pos     lexer.Position `parser:""`
	Keyword *string        `parser:"  @Ident"`
	Number  *string        `parser:"| @Number"`
	Star    bool           `parser:"  @Star?"`
	Bare    bool           `parser:"| @Star"`
}

// stepExpr is one line of a step script: an operation and its arguments.
type stepExpr struct {
	Pos  lexer.Position `parser:""`
	Op   string         `parser:"@Ident"`
	Args []*argExpr     `parser:"@@*"`
}

// argExpr keeps a star width such as "2*" together as one argument.
type argExpr struct {
	Text string `parser:"  @Ident | @Number @Star? | @Star"`
}
