package query

import (
	"strconv"
	"strings"
)

// NodeTag identifies the variant of a Query AST node.
type NodeTag uint8

const (
	NodeField NodeTag = iota
	NodeIndex
	NodeRange
	NodeRangeFrom
	NodeFieldWildcard
	NodeArrayWildcard
	NodeRegex
	NodeOptional
	NodeKleeneStar
	NodeDisjunction
	NodeSequence
)

// Query is the query AST. Only the fields relevant to Tag are meaningful;
// Lo/Hi are nil when the corresponding bound is absent (Range) or always
// present (RangeFrom uses only Lo).
type Query struct {
	Tag      NodeTag
	Field    string   // NodeField
	Index    int      // NodeIndex
	Lo, Hi   *int     // NodeRange (either may be nil), NodeRangeFrom (Lo only)
	Pattern  string   // NodeRegex
	Child    *Query   // NodeOptional, NodeKleeneStar
	Children []*Query // NodeDisjunction, NodeSequence
}

func intPtr(v int) *int { return &v }

// Equal reports structural equality, used for the parse round-trip property.
func (q *Query) Equal(o *Query) bool {
	if q == nil || o == nil {
		return q == o
	}
	if q.Tag != o.Tag {
		return false
	}
	switch q.Tag {
	case NodeField:
		return q.Field == o.Field
	case NodeIndex:
		return q.Index == o.Index
	case NodeRange:
		return intPtrEqual(q.Lo, o.Lo) && intPtrEqual(q.Hi, o.Hi)
	case NodeRangeFrom:
		return intPtrEqual(q.Lo, o.Lo)
	case NodeFieldWildcard, NodeArrayWildcard:
		return true
	case NodeRegex:
		return q.Pattern == o.Pattern
	case NodeOptional, NodeKleeneStar:
		return q.Child.Equal(o.Child)
	case NodeDisjunction, NodeSequence:
		if len(q.Children) != len(o.Children) {
			return false
		}
		for i := range q.Children {
			if !q.Children[i].Equal(o.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// String renders the canonical textual form. parse(q.String()) is
// semantically equivalent to q for every AST the parser can produce.
func (q *Query) String() string {
	var sb strings.Builder
	q.write(&sb)
	return sb.String()
}

func (q *Query) write(sb *strings.Builder) {
	switch q.Tag {
	case NodeField:
		sb.WriteString(formatField(q.Field))
	case NodeIndex:
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(q.Index))
		sb.WriteByte(']')
	case NodeRange:
		sb.WriteByte('[')
		if q.Lo != nil {
			sb.WriteString(strconv.Itoa(*q.Lo))
		}
		sb.WriteByte(':')
		if q.Hi != nil {
			sb.WriteString(strconv.Itoa(*q.Hi))
		}
		sb.WriteByte(']')
	case NodeRangeFrom:
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(*q.Lo))
		sb.WriteString(":]")
	case NodeFieldWildcard:
		sb.WriteByte('*')
	case NodeArrayWildcard:
		sb.WriteString("[*]")
	case NodeRegex:
		sb.WriteByte('/')
		sb.WriteString(strings.ReplaceAll(q.Pattern, "/", "\\/"))
		sb.WriteByte('/')
	case NodeOptional:
		writeWrapped(sb, q.Child)
		sb.WriteByte('?')
	case NodeKleeneStar:
		writeWrapped(sb, q.Child)
		sb.WriteByte('*')
	case NodeDisjunction:
		for i, c := range q.Children {
			if i > 0 {
				sb.WriteByte('|')
			}
			c.write(sb)
		}
	case NodeSequence:
		writeSequence(sb, q.Children)
	}
}

// writeWrapped renders a child of Optional/KleeneStar, parenthesizing it
// when it is a disjunction or a multi-element sequence so the modifier
// binds to the whole child rather than its last alternative.
func writeWrapped(sb *strings.Builder, child *Query) {
	needsParens := child.Tag == NodeDisjunction || (child.Tag == NodeSequence && len(child.Children) != 1)
	if needsParens {
		sb.WriteByte('(')
		child.write(sb)
		sb.WriteByte(')')
		return
	}
	child.write(sb)
}

func writeSequence(sb *strings.Builder, children []*Query) {
	var prev *Query
	for i, c := range children {
		if i > 0 && !elideSeparator(prev, c) {
			sb.WriteByte('.')
		}
		if c.Tag == NodeDisjunction {
			sb.WriteByte('(')
			c.write(sb)
			sb.WriteByte(')')
		} else {
			c.write(sb)
		}
		prev = c
	}
}

// elideSeparator reports whether the "." between prev and cur should be
// dropped, which happens exactly when prev is a bare Field and cur is (up
// to a trailing modifier) a bracketed array accessor, so that "foo[0]"
// prints instead of "foo.[0]". A modified prev must keep its separator:
// "foo?[0]" does not re-parse, the step grammar consumes accessors before
// the modifier.
func elideSeparator(prev, cur *Query) bool {
	if prev.Tag != NodeField {
		return false
	}
	c := cur
	for c.Tag == NodeOptional || c.Tag == NodeKleeneStar {
		c = c.Child
	}
	switch c.Tag {
	case NodeIndex, NodeRange, NodeRangeFrom, NodeArrayWildcard:
		return true
	default:
		return false
	}
}

const reservedFieldChars = ".|*?[]()/\" \t\n\r\\"

func formatField(name string) string {
	if name != "" && !strings.ContainsAny(name, reservedFieldChars) {
		return name
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range name {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
