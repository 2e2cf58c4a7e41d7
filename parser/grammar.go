package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Rules are tried in order, so keywords win over identifiers and "->"
// wins over "-".
var coffeeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Keyword", Pattern: `(?:print|fun)\b`},
	{Name: "Lambda", Pattern: `λ`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Punct", Pattern: `[-+*/%();=]`},
})

var grammar = participle.MustBuild[program](
	participle.Lexer(coffeeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// code := statement (';' statement)*
type program struct {
	Statements []*statement `@@ ( ";" @@ )*`
}

// statement := print | assign | expression
type statement struct {
	Print  *printStmt  `  @@`
	Assign *assignStmt `| @@`
	Expr   *addition   `| @@`
}

type printStmt struct {
	Value *addition `"print" "(" @@ ")"`
}

type assignStmt struct {
	Name  string    `@Ident "="`
	Value *addition `@@`
}

// addition := multiplication (('+'|'-') multiplication)*
type addition struct {
	Head *multiplication `@@`
	Tail []*additive     `@@*`
}

type additive struct {
	Op      string          `@("+" | "-")`
	Operand *multiplication `@@`
}

// multiplication := primary (('*'|'/'|'%') primary)*
type multiplication struct {
	Head *primary          `@@`
	Tail []*multiplicative `@@*`
}

type multiplicative struct {
	Op      string   `@("*" | "/" | "%")`
	Operand *primary `@@`
}

// primary := number | '(' expression ')' | '-' primary | function | load
type primary struct {
	Pos lexer.Position

	Number   *string   `  @Int`
	Sub      *addition `| "(" @@ ")"`
	Negated  *primary  `| "-" @@`
	Function *function `| @@`
	Load     *string   `| @Ident`
}

// function := ('λ' | 'fun') Ident* '->' expression
type function struct {
	Pos lexer.Position

	Params []string  `("λ" | "fun") @Ident*`
	Body   *addition `"->" @@`
}
