package query

import (
	"sort"

	"github.com/micahkepe/jsongrep/internal/set"
)

// Alphabet is the finite, per-query set of DFA transition labels:
// index 0 is always Other, followed by every distinct Field the query
// names, followed by the disjoint Range segments obtained by splitting
// every raw range/index the query names at each endpoint.
type Alphabet struct {
	// Symbols holds the compiled alphabet in symbol-index order.
	Symbols []TransitionLabel

	fieldID map[string]int
	ranges  []rangeSegment // sorted by lo, pairwise disjoint
}

// rangeSegment pairs a disjoint half-open interval with its alphabet index.
type rangeSegment struct {
	lo, hi int
	symbol int
}

// rawRange is a raw, possibly-overlapping interval contributed by an Index,
// Range, RangeFrom, or ArrayWildcard node, prior to disjointification.
type rawRange struct {
	lo, hi int
}

// FieldSymbol looks up name in the alphabet's field map, returning the
// Other index (0) on miss.
func (a *Alphabet) FieldSymbol(name string) int {
	if id, ok := a.fieldID[name]; ok {
		return id
	}
	return 0
}

// IndexSymbol binary-searches the disjoint range segments for the one
// containing index i. The second return is false when i falls outside
// every interval the query ever mentioned, meaning no transition should be
// attempted for that array index.
func (a *Alphabet) IndexSymbol(i int) (int, bool) {
	lo, hi := 0, len(a.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		seg := a.ranges[mid]
		switch {
		case i < seg.lo:
			hi = mid
		case i >= seg.hi:
			lo = mid + 1
		default:
			return seg.symbol, true
		}
	}
	return 0, false
}

// BuildAlphabet scans ast in two passes: collecting field names and
// raw integer ranges, then splitting the ranges into a disjoint refinement.
// It fails only when ast contains a Regex node, which compile-time alphabet
// construction does not support.
func BuildAlphabet(ast *Query) (*Alphabet, error) {
	fields := set.New[string]()
	var raw []rawRange

	var walk func(q *Query) error
	walk = func(q *Query) error {
		switch q.Tag {
		case NodeField:
			fields.Add(q.Field)
		case NodeIndex:
			raw = append(raw, rawRange{lo: q.Index, hi: q.Index + 1})
		case NodeRange:
			lo := 0
			if q.Lo != nil {
				lo = *q.Lo
			}
			hi := Unbounded
			if q.Hi != nil {
				hi = *q.Hi
			}
			raw = append(raw, rawRange{lo: lo, hi: hi})
		case NodeRangeFrom:
			raw = append(raw, rawRange{lo: *q.Lo, hi: Unbounded})
		case NodeArrayWildcard:
			raw = append(raw, rawRange{lo: 0, hi: Unbounded})
		case NodeFieldWildcard:
			// Not added to the alphabet: it is a shorthand resolved
			// against Field/Other symbols during determinization.
		case NodeRegex:
			return &CompileError{Message: "regex field matching is not compiled: " + q.Pattern}
		case NodeOptional, NodeKleeneStar:
			return walk(q.Child)
		case NodeDisjunction, NodeSequence:
			for _, c := range q.Children {
				if err := walk(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(ast); err != nil {
		return nil, err
	}

	a := &Alphabet{
		Symbols: []TransitionLabel{OtherLabel()},
		fieldID: make(map[string]int),
	}
	for _, name := range fields.Values() {
		a.fieldID[name] = len(a.Symbols)
		a.Symbols = append(a.Symbols, FieldLabel(name))
	}
	a.ranges = disjointify(raw)
	for i := range a.ranges {
		a.ranges[i].symbol = len(a.Symbols)
		a.Symbols = append(a.Symbols, RangeLabel(a.ranges[i].lo, a.ranges[i].hi))
	}
	return a, nil
}

// disjointify collects every endpoint named by raw, sorts and dedupes them,
// and emits the consecutive half-open intervals between them. Each raw
// interval is therefore an exact union of consecutive refined segments,
// which is what lets subset construction treat the DFA alphabet as truly
// disjoint.
func disjointify(raw []rawRange) []rangeSegment {
	if len(raw) == 0 {
		return nil
	}
	pointSet := make(map[int]struct{}, len(raw)*2)
	for _, r := range raw {
		pointSet[r.lo] = struct{}{}
		pointSet[r.hi] = struct{}{}
	}
	points := make([]int, 0, len(pointSet))
	for p := range pointSet {
		points = append(points, p)
	}
	sort.Ints(points)

	segs := make([]rangeSegment, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		segs = append(segs, rangeSegment{lo: points[i], hi: points[i+1]})
	}
	return segs
}
