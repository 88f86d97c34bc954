package query

// nfa is the epsilon-free automaton built by Glushkov's position
// construction. States are the NFA positions 1..P plus the
// distinguished start state 0: state 0 has no label of its own and carries
// its outgoing edges in startEdges (First(whole)); every other state p
// carries the label of position p and its outgoing edges in follow[p].
type nfa struct {
	p          int               // highest position, i.e. number of real (non-start) states
	labels     []TransitionLabel // labels[1..p]; labels[0] is unused
	follow     []*bitset         // follow[1..p]
	startEdges *bitset           // First(whole): positions reachable from state 0
	accept     *bitset           // size p+1; includes 0 iff Nullable(whole)
}

// edgesFrom calls fn once per outgoing edge of state p (0 for the start
// state, or an NFA position in 1..p).
func (n *nfa) edgesFrom(state int, fn func(label TransitionLabel, to int)) {
	if state == 0 {
		n.startEdges.forEach(func(to int) { fn(n.labels[to], to) })
		return
	}
	n.follow[state].forEach(func(to int) { fn(n.labels[to], to) })
}

// BuildNFA assigns Glushkov positions to every atom of ast in
// left-to-right order and computes Nullable/First/Last/
// Follow by structural recursion, emitting the resulting epsilon-free NFA.
func BuildNFA(ast *Query) *nfa {
	p := countPositions(ast)
	n := &nfa{
		p:      p,
		labels: make([]TransitionLabel, p+1),
		follow: make([]*bitset, p+1),
	}
	for i := 1; i <= p; i++ {
		n.follow[i] = newBitset(p + 1)
	}

	next := 1
	nullable, first, last := glushkovWalk(ast, n, &next)

	n.startEdges = first
	n.accept = last.clone()
	if nullable {
		n.accept.set(0)
	}
	return n
}

// countPositions counts the Glushkov positions ast will consume: one per
// atom (Field, Index, Range, RangeFrom, ArrayWildcard, FieldWildcard,
// Regex), summed across Sequence/Disjunction children, and unchanged
// through Optional/KleeneStar.
func countPositions(q *Query) int {
	switch q.Tag {
	case NodeOptional, NodeKleeneStar:
		return countPositions(q.Child)
	case NodeDisjunction, NodeSequence:
		total := 0
		for _, c := range q.Children {
			total += countPositions(c)
		}
		return total
	default:
		return 1
	}
}

// atomLabel returns the TransitionLabel a leaf AST node contributes to
// the NFA. ArrayWildcard lowers to Range(0, Unbounded).
func atomLabel(q *Query) TransitionLabel {
	switch q.Tag {
	case NodeField:
		return FieldLabel(q.Field)
	case NodeIndex:
		return RangeLabel(q.Index, q.Index+1)
	case NodeRange:
		lo := 0
		if q.Lo != nil {
			lo = *q.Lo
		}
		hi := Unbounded
		if q.Hi != nil {
			hi = *q.Hi
		}
		return RangeLabel(lo, hi)
	case NodeRangeFrom:
		return RangeFromLabel(*q.Lo)
	case NodeFieldWildcard:
		return FieldWildcardLabel()
	case NodeArrayWildcard:
		return RangeLabel(0, Unbounded)
	default:
		panic("query: atomLabel called on a non-leaf node")
	}
}

// glushkovWalk computes (nullable, first, last) for q, assigning positions
// to its leaves via next and filling in n.labels/n.follow as a side effect.
// Sequence is folded pairwise left to right; because concatenation is
// associative this reproduces the transitive "skip past nullable children"
// Follow rule for n-ary sequences without needing a separate case for it.
func glushkovWalk(q *Query, n *nfa, next *int) (nullable bool, first, last *bitset) {
	switch q.Tag {
	case NodeField, NodeIndex, NodeRange, NodeRangeFrom, NodeFieldWildcard, NodeArrayWildcard:
		pos := *next
		*next++
		n.labels[pos] = atomLabel(q)
		first = newBitset(n.p + 1)
		first.set(pos)
		last = newBitset(n.p + 1)
		last.set(pos)
		return false, first, last

	case NodeRegex:
		// Reserved: compile() rejects Regex during alphabet construction
		// before the NFA is ever built, but it still consumes a position
		// so that numbering stays in step with countPositions, which
		// counts a Regex as one atom.
		pos := *next
		*next++
		first = newBitset(n.p + 1)
		first.set(pos)
		last = newBitset(n.p + 1)
		last.set(pos)
		return false, first, last

	case NodeOptional:
		_, f, l := glushkovWalk(q.Child, n, next)
		return true, f, l

	case NodeKleeneStar:
		_, f, l := glushkovWalk(q.Child, n, next)
		l.forEach(func(pos int) { n.follow[pos].union(f) })
		return true, f, l

	case NodeDisjunction:
		first = newBitset(n.p + 1)
		last = newBitset(n.p + 1)
		nullable = false
		for _, c := range q.Children {
			cn, cf, cl := glushkovWalk(c, n, next)
			if cn {
				nullable = true
			}
			first.union(cf)
			last.union(cl)
		}
		return nullable, first, last

	case NodeSequence:
		if len(q.Children) == 0 {
			return true, newBitset(n.p + 1), newBitset(n.p + 1)
		}
		nullable, first, last = glushkovWalk(q.Children[0], n, next)
		for _, c := range q.Children[1:] {
			cn, cf, cl := glushkovWalk(c, n, next)
			last.forEach(func(pos int) { n.follow[pos].union(cf) })

			newFirst := first.clone()
			if nullable {
				newFirst.union(cf)
			}
			newLast := cl.clone()
			if cn {
				newLast.union(last)
			}
			first, last = newFirst, newLast
			nullable = nullable && cn
		}
		return nullable, first, last

	default:
		panic("query: glushkovWalk on unknown node tag")
	}
}
