package query

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, src string) *Query {
	t.Helper()
	ast, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return ast
}

func TestAlphabetSymbolZeroIsOther(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, "foo.bar|foo"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Symbols[0].Tag != LabelOther {
		t.Fatalf("Symbols[0] = %v, want Other", a.Symbols[0])
	}
	if got := a.FieldSymbol("never-mentioned"); got != 0 {
		t.Errorf("FieldSymbol(miss) = %d, want 0", got)
	}
}

func TestAlphabetFieldsInFirstAppearanceOrder(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, "zeta.alpha|zeta.mid"))
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []string{"zeta", "alpha", "mid"}
	for i, name := range wantOrder {
		sym := a.Symbols[i+1]
		if sym.Tag != LabelField || sym.Field != name {
			t.Errorf("Symbols[%d] = %v, want Field(%q)", i+1, sym, name)
		}
		if got := a.FieldSymbol(name); got != i+1 {
			t.Errorf("FieldSymbol(%q) = %d, want %d", name, got, i+1)
		}
	}
}

func TestAlphabetRangeDisjointification(t *testing.T) {
	// Overlapping raw ranges [1,4), [2,6), and [0,1) refine at every
	// endpoint into consecutive disjoint segments.
	a, err := BuildAlphabet(mustParse(t, "[1:4]|[2:6]|[0]"))
	if err != nil {
		t.Fatal(err)
	}

	type seg struct{ lo, hi int }
	want := []seg{{0, 1}, {1, 2}, {2, 4}, {4, 6}}
	if len(a.ranges) != len(want) {
		t.Fatalf("ranges = %v, want %d segments", a.ranges, len(want))
	}
	for i, w := range want {
		got := a.ranges[i]
		if got.lo != w.lo || got.hi != w.hi {
			t.Errorf("ranges[%d] = [%d,%d), want [%d,%d)", i, got.lo, got.hi, w.lo, w.hi)
		}
		if i > 0 && a.ranges[i-1].hi > got.lo {
			t.Errorf("ranges[%d] overlaps its predecessor", i)
		}
	}

	// Every mentioned index resolves; indices past the last endpoint miss.
	for i := 0; i < 6; i++ {
		if _, ok := a.IndexSymbol(i); !ok {
			t.Errorf("IndexSymbol(%d) missed inside the covered span", i)
		}
	}
	if _, ok := a.IndexSymbol(6); ok {
		t.Error("IndexSymbol(6) should miss, 6 is past every interval")
	}
	if _, ok := a.IndexSymbol(1 << 30); ok {
		t.Error("IndexSymbol far outside should miss")
	}
}

func TestAlphabetOpenRangeIsUnbounded(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, "items[2:]"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.IndexSymbol(1); ok {
		t.Error("IndexSymbol(1) should miss below an open range's lower bound")
	}
	sym, ok := a.IndexSymbol(1 << 40)
	if !ok {
		t.Fatal("open range should cover arbitrarily large indices")
	}
	if a.Symbols[sym].Tag != LabelRange {
		t.Errorf("Symbols[%d] = %v, want a Range", sym, a.Symbols[sym])
	}
}

func TestAlphabetArrayWildcardContributesFullRange(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, "[*]"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.IndexSymbol(0); !ok {
		t.Error("IndexSymbol(0) should hit under [*]")
	}
	if _, ok := a.IndexSymbol(12345); !ok {
		t.Error("IndexSymbol(12345) should hit under [*]")
	}
}

func TestAlphabetFieldWildcardAddsNoSymbol(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Symbols) != 1 {
		t.Fatalf("Symbols = %v, want only Other", a.Symbols)
	}
}

func TestAlphabetRejectsRegex(t *testing.T) {
	_, err := BuildAlphabet(mustParse(t, "/pat/"))
	if err == nil {
		t.Fatal("expected a compile error for a regex atom")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *CompileError", err)
	}
}

func TestAlphabetEmptyQuery(t *testing.T) {
	a, err := BuildAlphabet(mustParse(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Symbols) != 1 || len(a.ranges) != 0 {
		t.Fatalf("empty query alphabet = %v, want only Other", a.Symbols)
	}
}
