package query

// Find performs a depth-first walk of v, feeding dfa one symbol per edge
// and collecting every path whose terminal state accepts. Matches are
// emitted in document order: ascending index for arrays, and whatever
// order v.ObjectEach presents for objects (source key order, for a
// conforming host model).
func Find(dfa *DFA, v Value) []Match {
	var matches []Match
	var path []PathStep
	visit(dfa, dfa.Start, v, &path, &matches)
	return matches
}

// FindText composes Parse, Compile, and Find: the library's top-level
// convenience entry point.
func FindText(text string, v Value) ([]Match, error) {
	ast, err := Parse(text)
	if err != nil {
		return nil, err
	}
	dfa, err := Compile(ast)
	if err != nil {
		return nil, err
	}
	return Find(dfa, v), nil
}

func visit(dfa *DFA, state int, v Value, path *[]PathStep, matches *[]Match) {
	if dfa.Accept[state] {
		*matches = append(*matches, Match{Path: clonePath(*path), Value: v})
	}

	switch v.Kind() {
	case KindObject:
		v.ObjectEach(func(key string, child Value) {
			sym := dfa.FieldSymbol(key)
			next := dfa.Step(state, sym)
			if next == DeadState {
				return
			}
			*path = append(*path, PathStep{Tag: StepField, Field: key})
			visit(dfa, next, child, path, matches)
			*path = (*path)[:len(*path)-1]
		})

	case KindArray:
		n := v.ArrayLen()
		for i := 0; i < n; i++ {
			sym, ok := dfa.IndexSymbol(i)
			if !ok {
				continue
			}
			next := dfa.Step(state, sym)
			if next == DeadState {
				continue
			}
			*path = append(*path, PathStep{Tag: StepIndex, Index: i})
			visit(dfa, next, v.ArrayAt(i), path, matches)
			*path = (*path)[:len(*path)-1]
		}
	}
}

// clonePath snapshots the working path stack so a retained Match never
// aliases the matcher's in-progress buffer.
func clonePath(p []PathStep) []PathStep {
	if len(p) == 0 {
		return nil
	}
	out := make([]PathStep, len(p))
	copy(out, p)
	return out
}
