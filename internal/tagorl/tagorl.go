// Package tagorl parses the rule strings found in the ontology "rules" array.
//
// Three rule shapes exist:
//
//	siblings(huey, dewey, louie)          set rule
//	book > chapter+ > (title, para*)      hierarchy rule
//	author writes title, summary          triple rule
//
// Parse checks the grammar and then checks that every element named by the
// rule is defined in the ontology. Failures come back as plain messages; the
// header parser attaches them to the JSON string that held the rule.
package tagorl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/pkg/errors"

	"tagml/internal/ontology"
)

// SyntaxError is a grammar failure inside a rule string.
type SyntaxError struct {
	Pos lexer.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	// колонка с нуля, как в сообщениях ANTLR
	col := e.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	line := e.Pos.Line
	if line == 0 {
		line = 1
	}
	return fmt.Sprintf("syntax error: line %d:%d %s", line, col, e.Msg)
}

// ParseSyntax parses text without looking at element definitions.
func ParseSyntax(text string) (ontology.Rule, error) {
	raw := strings.TrimSpace(text)
	ast, err := ruleParser.ParseString("", raw)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &SyntaxError{Pos: perr.Position(), Msg: perr.Message()}
		}
		return nil, &SyntaxError{Msg: err.Error()}
	}
	switch {
	case ast.Set != nil:
		return &ontology.SetRule{RawText: raw, Name: ast.Set.Name, Elements: ast.Set.Elements}, nil
	case ast.Triple != nil:
		return &ontology.TripleRule{
			RawText:   raw,
			Subject:   ast.Triple.Subject,
			Predicate: ast.Triple.Predicate,
			Objects:   ast.Triple.Objects,
		}, nil
	case ast.Hierarchy != nil:
		return buildHierarchy(raw, ast.Hierarchy)
	}
	return nil, &SyntaxError{Msg: "empty rule"}
}

func buildHierarchy(raw string, h *hierarchyAST) (ontology.Rule, error) {
	children := ontology.NewChildMap()
	parent := h.Parent
	last := len(h.Levels) - 1
	for i, level := range h.Levels {
		if i < last {
			// промежуточный уровень: ровно один элемент без группы
			if level.Group != nil || len(level.Children) != 1 {
				return nil, &SyntaxError{Pos: level.Pos, Msg: "only the last level of a hierarchy may list several elements"}
			}
			c := level.Children[0]
			children.Add(parent, qualified(c.Name, c.Qualifier, ""))
			parent = c.Name
			continue
		}
		if level.Group != nil {
			for _, c := range level.Group.Children {
				children.Add(parent, qualified(c.Name, c.Qualifier, level.Group.Qualifier))
			}
			continue
		}
		for _, c := range level.Children {
			children.Add(parent, qualified(c.Name, c.Qualifier, ""))
		}
	}
	return &ontology.HierarchyRule{RawText: raw, ChildMap: children}, nil
}

func qualified(name, own, group string) ontology.QualifiedElement {
	suffix := own
	if suffix == "" {
		suffix = group
	}
	return ontology.QualifiedElement{Element: name, Cardinality: ontology.CardinalityFromSuffix(suffix)}
}

// Parse parses text and checks its element names with defined.
// On failure the rule is nil and the messages describe every problem found.
func Parse(text string, defined func(string) bool) (ontology.Rule, []string) {
	rule, err := ParseSyntax(text)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if missing := Undefined(rule, defined); len(missing) > 0 {
		return nil, []string{UndefinedMessage(rule.Raw(), missing)}
	}
	return rule, nil
}

// UndefinedMessage renders the failure for a rule naming undefined elements.
func UndefinedMessage(raw string, missing []string) string {
	return fmt.Sprintf("Rule %q contains undefined element(s) %s.", raw, strings.Join(missing, ", "))
}

// ReferencedElements lists every element a rule names, in order of appearance.
// Set names and triple predicates are not elements.
func ReferencedElements(rule ontology.Rule) []string {
	seen := linkedhashset.New()
	switch r := rule.(type) {
	case *ontology.HierarchyRule:
		for _, p := range r.ChildMap.Parents() {
			seen.Add(p)
			for _, q := range r.ChildMap.Children(p) {
				seen.Add(q.Element)
			}
		}
	case *ontology.SetRule:
		for _, e := range r.Elements {
			seen.Add(e)
		}
	case *ontology.TripleRule:
		seen.Add(r.Subject)
		for _, o := range r.Objects {
			seen.Add(o)
		}
	}
	out := make([]string, 0, seen.Size())
	for _, v := range seen.Values() {
		out = append(out, v.(string))
	}
	return out
}

// Undefined returns the referenced elements for which defined reports false.
func Undefined(rule ontology.Rule, defined func(string) bool) []string {
	var out []string
	for _, name := range ReferencedElements(rule) {
		if defined == nil || !defined(name) {
			out = append(out, name)
		}
	}
	return out
}
