package query

import "testing"

func mustCompile(t *testing.T, src string) *DFA {
	t.Helper()
	dfa, err := Compile(mustParse(t, src))
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return dfa
}

func TestCompileEmptyQuery(t *testing.T) {
	dfa := mustCompile(t, "")
	if len(dfa.Table) != 1 {
		t.Fatalf("states = %d, want 1", len(dfa.Table))
	}
	if !dfa.Accept[dfa.Start] {
		t.Error("start state of the identity query must accept")
	}
	for sym, next := range dfa.Table[dfa.Start] {
		if next != DeadState {
			t.Errorf("Table[start][%d] = %d, want dead", sym, next)
		}
	}
}

func TestCompileSimpleSequence(t *testing.T) {
	dfa := mustCompile(t, "foo.bar")

	s := dfa.Start
	if dfa.Accept[s] {
		t.Error("start must not accept for foo.bar")
	}

	s = dfa.Step(s, dfa.FieldSymbol("foo"))
	if s == DeadState {
		t.Fatal("no transition on foo from start")
	}
	if dfa.Accept[s] {
		t.Error("state after foo must not accept")
	}

	s = dfa.Step(s, dfa.FieldSymbol("bar"))
	if s == DeadState {
		t.Fatal("no transition on bar after foo")
	}
	if !dfa.Accept[s] {
		t.Error("state after foo.bar must accept")
	}

	if next := dfa.Step(dfa.Start, dfa.FieldSymbol("bar")); next != DeadState {
		t.Errorf("Step(start, bar) = %d, want dead", next)
	}
	if next := dfa.Step(dfa.Start, dfa.FieldSymbol("unnamed")); next != DeadState {
		t.Errorf("Step(start, Other) = %d, want dead", next)
	}
}

func TestDFARowsAreTotalOverAlphabet(t *testing.T) {
	dfa := mustCompile(t, "a[1:3]|b?.*")
	numSymbols := len(dfa.Alphabet.Symbols)
	for state, row := range dfa.Table {
		if len(row) != numSymbols {
			t.Fatalf("state %d row has %d entries, want %d", state, len(row), numSymbols)
		}
		for sym, next := range row {
			if next != DeadState && (next < 0 || next >= len(dfa.Table)) {
				t.Errorf("Table[%d][%d] = %d out of range", state, sym, next)
			}
		}
	}
}

func TestFieldWildcardCoversNamedAndOther(t *testing.T) {
	// The query names "foo" elsewhere, so the alphabet has both a
	// Field(foo) symbol and Other; a wildcard step must cover both.
	dfa := mustCompile(t, "*.foo")

	viaNamed := dfa.Step(dfa.Start, dfa.FieldSymbol("foo"))
	viaOther := dfa.Step(dfa.Start, dfa.FieldSymbol("anything"))
	if viaNamed == DeadState || viaOther == DeadState {
		t.Fatal("wildcard must step on both a named field and Other")
	}

	if s := dfa.Step(viaOther, dfa.FieldSymbol("foo")); s == DeadState || !dfa.Accept[s] {
		t.Error("*.foo must accept after any field then foo")
	}
	if s := dfa.Step(viaOther, dfa.FieldSymbol("other")); s != DeadState {
		t.Error("*.foo must not accept a non-foo second step")
	}
}

func TestRangeCoverageAfterRefinement(t *testing.T) {
	// [0:10] and [5] overlap; after refinement the broad range must cover
	// every refined segment inside it.
	dfa := mustCompile(t, "[0:10]|[5]")

	for _, i := range []int{0, 4, 5, 9} {
		sym, ok := dfa.IndexSymbol(i)
		if !ok {
			t.Fatalf("IndexSymbol(%d) missed", i)
		}
		if s := dfa.Step(dfa.Start, sym); s == DeadState || !dfa.Accept[s] {
			t.Errorf("index %d should reach an accepting state", i)
		}
	}
	if _, ok := dfa.IndexSymbol(10); ok {
		t.Error("IndexSymbol(10) should miss outside [0,10)")
	}
}

func TestRangeFromCoverage(t *testing.T) {
	dfa := mustCompile(t, "[3:]|[1]")

	sym, ok := dfa.IndexSymbol(1)
	if !ok {
		t.Fatal("IndexSymbol(1) missed")
	}
	if s := dfa.Step(dfa.Start, sym); s == DeadState || !dfa.Accept[s] {
		t.Error("index 1 should match via [1]")
	}

	// Index 2 lies in the refined gap [2,3): a symbol exists, but no NFA
	// label covers it, so the transition is dead.
	if sym, ok := dfa.IndexSymbol(2); ok {
		if s := dfa.Step(dfa.Start, sym); s != DeadState {
			t.Error("index 2 matches neither [1] nor [3:]")
		}
	}

	sym, ok = dfa.IndexSymbol(100)
	if !ok {
		t.Fatal("IndexSymbol(100) missed under an open range")
	}
	if s := dfa.Step(dfa.Start, sym); s == DeadState || !dfa.Accept[s] {
		t.Error("index 100 should match via [3:]")
	}
}

func TestEverySymbolReachableSomewhere(t *testing.T) {
	dfa := mustCompile(t, "foo.bar|baz[0:2].*")
	used := make([]bool, len(dfa.Alphabet.Symbols))
	for _, row := range dfa.Table {
		for sym, next := range row {
			if next != DeadState {
				used[sym] = true
			}
		}
	}
	for sym, u := range used {
		if !u {
			t.Errorf("symbol %d (%v) fires in no state", sym, dfa.Alphabet.Symbols[sym])
		}
	}
}

func TestNullableQueryStartAccepts(t *testing.T) {
	for _, src := range []string{"c*", "c?", "", "(a|b)?"} {
		dfa := mustCompile(t, src)
		if !dfa.Accept[dfa.Start] {
			t.Errorf("start of %q must accept", src)
		}
	}
	for _, src := range []string{"c", "a|b"} {
		dfa := mustCompile(t, src)
		if dfa.Accept[dfa.Start] {
			t.Errorf("start of %q must not accept", src)
		}
	}
}

func TestSubsetConstructionMergesAlternatives(t *testing.T) {
	// Both alternatives begin with "a"; one "a" step must land in a
	// single merged DFA state that continues to either suffix.
	dfa := mustCompile(t, "a.b|a.c")
	s := dfa.Step(dfa.Start, dfa.FieldSymbol("a"))
	if s == DeadState {
		t.Fatal("no transition on a")
	}
	if b := dfa.Step(s, dfa.FieldSymbol("b")); b == DeadState || !dfa.Accept[b] {
		t.Error("a.b must accept")
	}
	if c := dfa.Step(s, dfa.FieldSymbol("c")); c == DeadState || !dfa.Accept[c] {
		t.Error("a.c must accept")
	}
}

func TestCompileSharableAcrossGoroutines(t *testing.T) {
	dfa := mustCompile(t, "a*.b")
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			s := dfa.Start
			for i := 0; i < 100; i++ {
				s = dfa.Step(s, dfa.FieldSymbol("a"))
			}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}
}
