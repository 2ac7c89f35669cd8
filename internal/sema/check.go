// Package sema validates a TAGML document body against the ontology declared
// in its header and produces the markup token stream.
package sema

import (
	"tagml/internal/diag"
	"tagml/internal/header"
	"tagml/internal/lexer"
	"tagml/internal/markup"
	"tagml/internal/parser"
	"tagml/internal/source"
)

// Result stores what a validation pass produced.
type Result struct {
	Tokens []markup.Token
	Header *header.Header // nil when the document has no header
	// Stopped is set when a breaking error ended the walk early.
	Stopped bool
}

// Check lexes, parses and validates file. Every diagnostic, syntax ones
// included, goes to diags.
func Check(file *source.File, diags *diag.Collector, opts Options) Result {
	l := NewListener(file, diags, opts)
	lx := lexer.New(file, lexer.Options{Reporter: diags})
	res := parser.Parse(file, lx, l, parser.Options{Reporter: diags})
	return Result{
		Tokens:  l.Tokens(),
		Header:  l.Header(),
		Stopped: res.Stopped,
	}
}
