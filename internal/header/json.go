package header

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"tagml/internal/source"
)

var jsonLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(\.\d+)?([eE][+-]?\d+)?`},
	{Name: "Keyword", Pattern: `\b(true|false|null)\b`},
	{Name: "Punct", Pattern: `[{}\[\]:,]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Пустой объект и список пар разделены альтернативой, а не "( ... )?":
// необязательная группа проглатывает ошибку внутри пары, и participle
// тогда винит первый ключ.
var jsonParser = participle.MustBuild[jsonObject](
	participle.Lexer(jsonLexer),
	participle.UseLookahead(1),
)

type jsonObject struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Pairs []*jsonPair `"{" ( "}" | @@ ( "," @@ )* "}" )`
}

type jsonPair struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Key   string     `@String ":"`
	Value *jsonValue `@@`
}

type jsonArray struct {
	Values []*jsonValue `"[" ( "]" | @@ ( "," @@ )* "]" )`
}

type jsonValue struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Object *jsonObject `  @@`
	Array  *jsonArray  `| @@`
	String *string     `| @String`
	Number *string     `| @Number`
	Bool   *string     `| @( "true" | "false" )`
	Null   bool        `| @"null"`
}

// Kind is the shape of a JSON node.
type Kind uint8

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	}
	return "null"
}

// Node is one JSON value of the header with its location in the file.
type Node struct {
	Kind    Kind
	Span    source.Span
	Text    string    // исходный текст значения
	Members []*Member // KindObject
	Items   []*Node   // KindArray
}

// Member is one key/value pair of a JSON object.
type Member struct {
	Key     string
	KeySpan source.Span
	Span    source.Span // от ключа до конца значения
	Value   *Node
}

// Content is the node text with surrounding double quotes removed.
func (n *Node) Content() string {
	return strings.Trim(n.Text, `"`)
}

// Get returns the member with the given key, or nil.
func (n *Node) Get(key string) *Member {
	for _, m := range n.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// SyntaxError is a malformed header body.
type SyntaxError struct {
	Span source.Span
	Msg  string
}

func (e *SyntaxError) Error() string { return e.Msg }

// parseObject parses text as a JSON object. base is the file offset of text.
func parseObject(file source.FileID, base uint32, text string) (*Node, error) {
	ast, err := jsonParser.ParseString("", text)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			off := base + offset(perr.Position())
			return nil, &SyntaxError{Span: source.Span{File: file, Start: off, End: off + 1}, Msg: perr.Message()}
		}
		return nil, &SyntaxError{Span: source.EmptyAt(file, base), Msg: err.Error()}
	}
	b := builder{file: file, base: base, text: text}
	return b.object(ast), nil
}

type builder struct {
	file source.FileID
	base uint32
	text string
}

func offset(p lexer.Position) uint32 {
	if p.Offset < 0 {
		return 0
	}
	return uint32(p.Offset) // #nosec G115 -- header text is far below 4GiB
}

func (b builder) span(start, end lexer.Position) source.Span {
	s, e := offset(start), offset(end)
	// EndPos указывает на следующий токен; хвостовые пробелы в диапазон не входят
	for e > s && int(e) <= len(b.text) && isSpace(b.text[e-1]) {
		e--
	}
	return source.Span{File: b.file, Start: s, End: e}.Shift(b.base)
}

func (b builder) raw(sp source.Span) string {
	return b.text[sp.Start-b.base : sp.End-b.base]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (b builder) object(o *jsonObject) *Node {
	sp := b.span(o.Pos, o.EndPos)
	n := &Node{Kind: KindObject, Span: sp, Text: b.raw(sp)}
	for _, p := range o.Pairs {
		keyStart := offset(p.Pos)
		keySpan := source.Span{File: b.file, Start: keyStart, End: keyStart + uint32(len(p.Key))}.Shift(b.base) // #nosec G115
		n.Members = append(n.Members, &Member{
			Key:     strings.Trim(p.Key, `"`),
			KeySpan: keySpan,
			Span:    b.span(p.Pos, p.EndPos),
			Value:   b.value(p.Value),
		})
	}
	return n
}

func (b builder) value(v *jsonValue) *Node {
	if v.Object != nil {
		return b.object(v.Object)
	}
	sp := b.span(v.Pos, v.EndPos)
	n := &Node{Span: sp, Text: b.raw(sp)}
	switch {
	case v.Array != nil:
		n.Kind = KindArray
		for _, item := range v.Array.Values {
			n.Items = append(n.Items, b.value(item))
		}
	case v.String != nil:
		n.Kind = KindString
	case v.Number != nil:
		n.Kind = KindNumber
	case v.Bool != nil:
		n.Kind = KindBool
	default:
		n.Kind = KindNull
	}
	return n
}
