// Package ast holds the parse events of a TAGML document.
//
// The parser does not build a tree. It hands each event to a listener in
// document order; the nodes here are what those events carry.
package ast
