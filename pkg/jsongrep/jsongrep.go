// Package jsongrep matches regular-expression-like path queries against
// JSON documents.
//
// A query describes a set of root-to-node paths: field names, array
// indices, ranges, wildcards, disjunction, optionality, and Kleene
// closure. Matching returns every position in the document whose path
// from the root is accepted by the query, in document order.
//
// Basic usage:
//
//	doc, err := jsongrep.From(strings.NewReader(`{"foo":{"bar":"val"}}`))
//	matches, err := doc.Find("foo.bar")
//
// Pre-compiled queries for repeated use:
//
//	dfa, err := jsongrep.Compile("users[*].name")
//	// dfa is read-only and safe for concurrent use
//	matches := jsongrep.Find(dfa, doc.Root())
//
// Programmatic construction:
//
//	ast := jsongrep.NewBuilder().Field("users").ArrayWildcard().Field("name").Build()
//	dfa, err := jsongrep.CompileAST(ast)
package jsongrep

import (
	"io"

	"github.com/micahkepe/jsongrep/internal/jsonvalue"
	"github.com/micahkepe/jsongrep/internal/query"
)

type (
	// AST is a parsed query tree.
	AST = query.Query
	// DFA is a compiled, immutable query automaton.
	DFA = query.DFA
	// Match pairs a root-to-node path with the value found there.
	Match = query.Match
	// PathStep is one edge of a match's path: a field name or an array index.
	PathStep = query.PathStep
	// Value is the JSON model queries run against.
	Value = query.Value
	// Builder constructs an AST programmatically.
	Builder = query.Builder
	// ParseError describes a syntax error in a query string.
	ParseError = query.ParseError
	// CompileError is returned for an AST the automaton cannot express.
	CompileError = query.CompileError
)

const (
	// StepField tags a PathStep holding a field name.
	StepField = query.StepField
	// StepIndex tags a PathStep holding an array index.
	StepIndex = query.StepIndex
)

// Parse parses a query string into an AST. The empty string is the
// identity query, matching exactly the document root.
func Parse(text string) (*AST, error) { return query.Parse(text) }

// Compile parses and compiles a query string into a DFA.
func Compile(text string) (*DFA, error) {
	ast, err := query.Parse(text)
	if err != nil {
		return nil, err
	}
	return query.Compile(ast)
}

// CompileAST compiles an already-parsed (or programmatically built) AST.
// It fails only on a Regex node, which is parsed but not compilable.
func CompileAST(ast *AST) (*DFA, error) { return query.Compile(ast) }

// MustCompile is like Compile but panics on error, for queries known good
// at program start.
func MustCompile(text string) *DFA {
	dfa, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return dfa
}

// Find runs a compiled query against a JSON value, returning every match
// in document order. Returned matches borrow sub-trees of v; they remain
// valid as long as v does.
func Find(dfa *DFA, v Value) []Match { return query.Find(dfa, v) }

// FindString composes Parse, Compile, and Find for one-shot queries.
func FindString(text string, v Value) ([]Match, error) {
	return query.FindText(text, v)
}

// FixedString returns the AST equivalent of matching text as a literal
// field name anywhere in the document: (*|[*])*."text".
func FixedString(text string) *AST {
	anyStep := &AST{Tag: query.NodeDisjunction, Children: []*AST{
		{Tag: query.NodeFieldWildcard},
		{Tag: query.NodeArrayWildcard},
	}}
	return NewBuilder().
		Sequence(&AST{Tag: query.NodeKleeneStar, Child: anyStep}).
		Field(text).
		Build()
}

// NewBuilder starts a programmatic AST builder at the identity query.
func NewBuilder() *Builder { return query.NewBuilder() }

// From decodes one JSON document from r, preserving object key order.
func From(r io.Reader) (*Document, error) {
	root, err := jsonvalue.Decode(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Document is a decoded, immutable JSON document ready for matching.
type Document struct {
	root *jsonvalue.Value
}

// Root returns the document's root value.
func (d *Document) Root() Value { return d.root }

// Find parses, compiles, and runs text against the document.
func (d *Document) Find(text string) ([]Match, error) {
	return query.FindText(text, d.root)
}

// FindDFA runs a pre-compiled query against the document.
func (d *Document) FindDFA(dfa *DFA) []Match {
	return query.Find(dfa, d.root)
}

// Count returns the number of matches for text.
func (d *Document) Count(text string) (int, error) {
	matches, err := d.Find(text)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// Depth returns the document's tree depth, root counted as 1.
func (d *Document) Depth() int { return jsonvalue.Depth(d.root) }
