package tagorl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Name", Pattern: `:?[A-Za-z_][\w.\-]*(:[A-Za-z_][\w.\-]*)?`},
	{Name: "Punct", Pattern: `[>(),?*+]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// lookahead must cover "name ( a ," so a failed set can fall back to the other forms.
var ruleParser = participle.MustBuild[ruleAST](
	participle.Lexer(ruleLexer),
	participle.UseLookahead(8),
)

type ruleAST struct {
	Set       *setAST       `  @@`
	Hierarchy *hierarchyAST `| @@`
	Triple    *tripleAST    `| @@`
}

// name(a, b, ...)
type setAST struct {
	Name     string   `@Name "("`
	Elements []string `@Name ( "," @Name )+ ")"`
}

// parent > a > b+ > (c, d)*
type hierarchyAST struct {
	Parent string      `@Name`
	Levels []*levelAST `( ">" @@ )+`
}

type levelAST struct {
	Pos lexer.Position

	Group    *groupAST   `  @@`
	Children []*childAST `| @@ ( "," @@ )*`
}

type groupAST struct {
	Children  []*childAST `"(" @@ ( "," @@ )* ")"`
	Qualifier string      `@( "?" | "*" | "+" )?`
}

type childAST struct {
	Name      string `@Name`
	Qualifier string `@( "?" | "*" | "+" )?`
}

// subject predicate object[, object...]
type tripleAST struct {
	Subject   string   `@Name`
	Predicate string   `@Name`
	Objects   []string `@Name ( "," @Name )*`
}
