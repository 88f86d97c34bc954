package query

import "github.com/micahkepe/jsongrep/internal/queue"

// DeadState marks the absence of a transition: the matcher cannot extend
// the current path on that symbol and backtracks instead.
const DeadState = -1

// DFA is the compiled, read-only automaton produced by Compile. It
// holds no mutable state, so a single DFA is safe to share across
// concurrently running matchers.
type DFA struct {
	Alphabet *Alphabet
	// Table[state][symbol] is the successor state, or DeadState.
	Table [][]int
	Accept []bool
	Start  int

	// NFAPositions is the Glushkov position count of the query this DFA
	// was compiled from, kept only for --verbose diagnostics.
	NFAPositions int
}

// Step looks up the successor of state on symbol.
func (d *DFA) Step(state, symbol int) int {
	return d.Table[state][symbol]
}

// FieldSymbol resolves a JSON object key to an alphabet symbol.
func (d *DFA) FieldSymbol(name string) int {
	return d.Alphabet.FieldSymbol(name)
}

// IndexSymbol resolves a JSON array index to an alphabet symbol. The
// second return is false when the index falls outside every range the
// query named, meaning the matcher should skip the edge entirely.
func (d *DFA) IndexSymbol(i int) (int, bool) {
	return d.Alphabet.IndexSymbol(i)
}

// Compile lowers ast into a DFA by building the query alphabet, the
// Glushkov NFA, and determinizing the two together. The only
// failure mode is an unsupported Regex node, surfaced as a *CompileError.
func Compile(ast *Query) (*DFA, error) {
	alphabet, err := BuildAlphabet(ast)
	if err != nil {
		return nil, err
	}
	n := BuildNFA(ast)
	return determinize(n, alphabet), nil
}

// covers implements the NFA-label/DFA-symbol coverage rules: the
// only place automaton labels meet compiled alphabet symbols.
func covers(label, symbol TransitionLabel) bool {
	switch label.Tag {
	case LabelField:
		return symbol.Tag == LabelField && symbol.Field == label.Field
	case LabelFieldWildcard:
		return symbol.Tag == LabelField || symbol.Tag == LabelOther
	case LabelOther:
		return symbol.Tag == LabelOther
	case LabelRange:
		return symbol.Tag == LabelRange && label.Lo <= symbol.Lo && symbol.Hi <= label.Hi
	case LabelRangeFrom:
		return symbol.Tag == LabelRange && label.Lo <= symbol.Lo
	default:
		return false
	}
}

// determinize runs subset construction: each DFA state is a set of
// NFA states, represented as a bitset and interned by its byte-encoded key
// so that two transitions reaching the same set collapse to one state. The
// worklist is a plain FIFO queue of already-interned state indices still
// awaiting their outgoing-edge pass.
func determinize(n *nfa, alphabet *Alphabet) *DFA {
	numSymbols := len(alphabet.Symbols)

	var states []*bitset
	index := make(map[string]int)
	pending := queue.New[int]()

	intern := func(s *bitset) int {
		key := s.key()
		if idx, ok := index[key]; ok {
			return idx
		}
		idx := len(states)
		states = append(states, s)
		index[key] = idx
		pending.Enqueue(idx)
		return idx
	}

	start := newBitset(n.p + 1)
	start.set(0)
	startIdx := intern(start)

	var table [][]int
	var accept []bool

	for {
		idx, ok := pending.Dequeue()
		if !ok {
			break
		}
		for len(table) <= idx {
			table = append(table, nil)
			accept = append(accept, false)
		}

		s := states[idx]
		accept[idx] = s.intersects(n.accept)

		row := make([]int, numSymbols)
		for sym := 0; sym < numSymbols; sym++ {
			target := newBitset(n.p + 1)
			s.forEach(func(p int) {
				n.edgesFrom(p, func(label TransitionLabel, to int) {
					if covers(label, alphabet.Symbols[sym]) {
						target.set(to)
					}
				})
			})
			if target.isEmpty() {
				row[sym] = DeadState
			} else {
				row[sym] = intern(target)
			}
		}
		table[idx] = row
	}

	return &DFA{
		Alphabet:     alphabet,
		Table:        table,
		Accept:       accept,
		Start:        startIdx,
		NFAPositions: n.p,
	}
}
