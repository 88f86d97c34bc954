// Package query implements the path query language: parsing a textual query
// into an AST, compiling the AST into a deterministic automaton over a
// query-derived alphabet, and matching that automaton against a JSON value.
package query

import "fmt"

// LabelTag identifies the shape of a TransitionLabel.
type LabelTag uint8

const (
	// LabelField matches an exact field name.
	LabelField LabelTag = iota
	// LabelFieldWildcard matches any field name. Never appears in a
	// compiled DFA's alphabet; lowered to Field/Other during determinization.
	LabelFieldWildcard
	// LabelRange matches an array index in [Lo, Hi).
	LabelRange
	// LabelRangeFrom matches an array index in [Lo, +inf). Never appears in
	// a compiled DFA's alphabet; lowered to Range segments during
	// determinization.
	LabelRangeFrom
	// LabelOther is the catch-all symbol for field names not otherwise
	// named in the query alphabet. Always alphabet index 0.
	LabelOther
)

// Unbounded stands in for "+infinity" as the exclusive upper bound of an
// open-ended range. It is never surfaced in the AST's textual form.
const Unbounded = int(^uint(0) >> 1)

// TransitionLabel is one edge label of the automaton: a field name, the
// field wildcard, an integer range, an open range, or the Other catch-all.
type TransitionLabel struct {
	Tag   LabelTag
	Field string
	Lo    int
	Hi    int
}

// FieldLabel builds a Field(name) label.
func FieldLabel(name string) TransitionLabel { return TransitionLabel{Tag: LabelField, Field: name} }

// FieldWildcardLabel builds a FieldWildcard label.
func FieldWildcardLabel() TransitionLabel { return TransitionLabel{Tag: LabelFieldWildcard} }

// RangeLabel builds a Range(lo, hi) label, hi exclusive.
func RangeLabel(lo, hi int) TransitionLabel { return TransitionLabel{Tag: LabelRange, Lo: lo, Hi: hi} }

// RangeFromLabel builds a RangeFrom(lo) label, meaning [lo, +inf).
func RangeFromLabel(lo int) TransitionLabel { return TransitionLabel{Tag: LabelRangeFrom, Lo: lo} }

// OtherLabel builds the Other catch-all label.
func OtherLabel() TransitionLabel { return TransitionLabel{Tag: LabelOther} }

func (l TransitionLabel) String() string {
	switch l.Tag {
	case LabelField:
		return fmt.Sprintf("Field(%q)", l.Field)
	case LabelFieldWildcard:
		return "FieldWildcard"
	case LabelRange:
		if l.Hi == Unbounded {
			return fmt.Sprintf("Range(%d,inf)", l.Lo)
		}
		return fmt.Sprintf("Range(%d,%d)", l.Lo, l.Hi)
	case LabelRangeFrom:
		return fmt.Sprintf("RangeFrom(%d)", l.Lo)
	case LabelOther:
		return "Other"
	default:
		return "Invalid"
	}
}

// StepTag identifies whether a PathStep is a field or an index.
type StepTag uint8

const (
	StepField StepTag = iota
	StepIndex
)

// PathStep is one edge of a path from the root: either a field name or an
// array index. Path steps are appended during a DFS descent and popped on
// backtrack, so callers that retain a path must copy it.
type PathStep struct {
	Tag   StepTag
	Field string
	Index int
}

func (s PathStep) String() string {
	if s.Tag == StepField {
		return s.Field
	}
	return fmt.Sprintf("%d", s.Index)
}

// Kind tags the variant of a JSON value as seen by the matcher.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is the host JSON model the matcher runs against. A host
// provides one implementation, built once per document and treated as
// immutable for the lifetime of any Find call. ObjectEach must iterate in
// the document's original key order.
type Value interface {
	Kind() Kind
	ArrayLen() int
	ArrayAt(i int) Value
	ObjectEach(fn func(key string, v Value))

	// MarshalJSON lets a host print a matched sub-tree without the matcher
	// package knowing the concrete value representation.
	MarshalJSON() ([]byte, error)
}

// Match is a single result: the path from the root and the value found
// there. Path is a snapshot; it is never aliased with the matcher's working
// stack.
type Match struct {
	Path  []PathStep
	Value Value
}
