package query

// Builder is the programmatic AST construction API described in the
// library's external interface: append-style operations extend the
// current sequence, Optional/KleeneStar wrap the last appended atom (or
// the whole query, if it is not a sequence), and Disjunction/Sequence
// replace the current query outright.
type Builder struct {
	cur *Query
}

// NewBuilder starts a builder at the identity query (an empty sequence).
func NewBuilder() *Builder {
	return &Builder{cur: &Query{Tag: NodeSequence}}
}

func (b *Builder) append(atom *Query) *Builder {
	if b.cur.Tag == NodeSequence {
		b.cur.Children = append(b.cur.Children, atom)
		return b
	}
	b.cur = &Query{Tag: NodeSequence, Children: []*Query{b.cur, atom}}
	return b
}

// Field appends a Field(name) atom.
func (b *Builder) Field(name string) *Builder { return b.append(&Query{Tag: NodeField, Field: name}) }

// Index appends an Index(i) atom.
func (b *Builder) Index(i int) *Builder { return b.append(&Query{Tag: NodeIndex, Index: i}) }

// Range appends a Range/RangeFrom/ArrayWildcard atom depending on which
// bounds are present: both nil is ArrayWildcard, lo nil is Range(0, *hi),
// hi nil is RangeFrom(*lo), both present is Range(*lo, *hi).
func (b *Builder) Range(lo, hi *int) *Builder {
	switch {
	case lo == nil && hi == nil:
		return b.append(&Query{Tag: NodeArrayWildcard})
	case lo == nil:
		return b.append(&Query{Tag: NodeRange, Hi: hi})
	case hi == nil:
		return b.append(&Query{Tag: NodeRangeFrom, Lo: lo})
	default:
		return b.append(&Query{Tag: NodeRange, Lo: lo, Hi: hi})
	}
}

// FieldWildcard appends a FieldWildcard atom.
func (b *Builder) FieldWildcard() *Builder { return b.append(&Query{Tag: NodeFieldWildcard}) }

// ArrayWildcard appends an ArrayWildcard atom.
func (b *Builder) ArrayWildcard() *Builder { return b.append(&Query{Tag: NodeArrayWildcard}) }

// Regex appends a reserved Regex(pattern) atom. compile() rejects it.
func (b *Builder) Regex(pattern string) *Builder {
	return b.append(&Query{Tag: NodeRegex, Pattern: pattern})
}

// Optional wraps the last appended atom (or the whole current query, if it
// is not a sequence) in Optional.
func (b *Builder) Optional() *Builder {
	b.wrapLast(NodeOptional)
	return b
}

// KleeneStar wraps the last appended atom (or the whole current query, if
// it is not a sequence) in KleeneStar.
func (b *Builder) KleeneStar() *Builder {
	b.wrapLast(NodeKleeneStar)
	return b
}

func (b *Builder) wrapLast(tag NodeTag) {
	if b.cur.Tag == NodeSequence && len(b.cur.Children) > 0 {
		last := len(b.cur.Children) - 1
		b.cur.Children[last] = &Query{Tag: tag, Child: b.cur.Children[last]}
		return
	}
	b.cur = &Query{Tag: tag, Child: b.cur}
}

// Disjunction replaces the current query with a union of alternatives.
func (b *Builder) Disjunction(alts ...*Query) *Builder {
	b.cur = &Query{Tag: NodeDisjunction, Children: alts}
	return b
}

// Sequence replaces the current query with a concatenation of atoms.
func (b *Builder) Sequence(atoms ...*Query) *Builder {
	b.cur = &Query{Tag: NodeSequence, Children: atoms}
	return b
}

// Build returns the constructed AST.
func (b *Builder) Build() *Query { return b.cur }
