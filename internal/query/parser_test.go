package query

import "testing"

func TestParseEmptyIsIdentity(t *testing.T) {
	ast, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if ast.Tag != NodeSequence || len(ast.Children) != 0 {
		t.Fatalf("Parse(\"\") = %#v, want Sequence([])", ast)
	}
}

func TestParseDoubleStarIsKleeneOfFieldWildcard(t *testing.T) {
	ast, err := Parse("**")
	if err != nil {
		t.Fatal(err)
	}
	seq, ok := singleSequenceChild(ast)
	if !ok || seq.Tag != NodeKleeneStar || seq.Child.Tag != NodeFieldWildcard {
		t.Fatalf("Parse(\"**\") = %#v, want KleeneStar(FieldWildcard)", ast)
	}
}

func singleSequenceChild(q *Query) (*Query, bool) {
	if q.Tag != NodeSequence || len(q.Children) != 1 {
		return nil, false
	}
	return q.Children[0], true
}

func TestParseIndexAndRange(t *testing.T) {
	ast, err := Parse("foo[2]")
	if err != nil {
		t.Fatal(err)
	}
	if len(ast.Children) != 2 || ast.Children[1].Tag != NodeIndex || ast.Children[1].Index != 2 {
		t.Fatalf("Parse(\"foo[2]\") = %#v", ast)
	}

	ast, err = Parse("foo[1:4]")
	if err != nil {
		t.Fatal(err)
	}
	rng := ast.Children[1]
	if rng.Tag != NodeRange || rng.Lo == nil || *rng.Lo != 1 || rng.Hi == nil || *rng.Hi != 4 {
		t.Fatalf("Parse(\"foo[1:4]\") range = %#v", rng)
	}
}

func TestParseDisjunctionFlattensSingleAlternative(t *testing.T) {
	ast, err := Parse("foo")
	if err != nil {
		t.Fatal(err)
	}
	if ast.Tag == NodeDisjunction {
		t.Fatalf("single-alternative query should not produce Disjunction: %#v", ast)
	}
}

func TestParseQuotedFieldUnescapes(t *testing.T) {
	ast, err := Parse(`"a\"b\\c"`)
	if err != nil {
		t.Fatal(err)
	}
	f := ast.Children[0]
	if f.Tag != NodeField || f.Field != `a"b\c` {
		t.Fatalf("quoted field = %#v, want Field(a\"b\\c)", f)
	}
}

func TestParseRegexReserved(t *testing.T) {
	ast, err := Parse(`/a\/b/`)
	if err != nil {
		t.Fatal(err)
	}
	f := ast.Children[0]
	if f.Tag != NodeRegex || f.Pattern != "a/b" {
		t.Fatalf("regex = %#v, want Regex(a/b)", f)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`"unterminated`,
		`/unterminated`,
		`(foo`,
		`[`,
		`[1:2`,
		`foo*?`, // modifier only binds once; a second is a stray token
		`..`,
	}
	for _, src := range cases {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", src)
		}
	}
}

func TestParseSkipsWhitespaceBetweenTokens(t *testing.T) {
	spaced, err := Parse("foo | baz")
	if err != nil {
		t.Fatal(err)
	}
	tight, err := Parse("foo|baz")
	if err != nil {
		t.Fatal(err)
	}
	if !spaced.Equal(tight) {
		t.Errorf("Parse(\"foo | baz\") = %s, want same AST as \"foo|baz\"", spaced)
	}

	if _, err := Parse(" ( a | b ) . c "); err != nil {
		t.Errorf("spaced group failed to parse: %v", err)
	}
}

func TestParseRejectsSpacesInsideUnquotedField(t *testing.T) {
	if _, err := Parse("spaces not allowed"); err == nil {
		t.Fatal("unquoted fields must not span spaces")
	}
	ast, err := Parse(`"key space".foo`)
	if err != nil {
		t.Fatal(err)
	}
	if ast.Children[0].Field != "key space" {
		t.Errorf("quoted field = %q, want \"key space\"", ast.Children[0].Field)
	}
}

func TestParseModifierBindsToLastAccessor(t *testing.T) {
	ast, err := Parse("foo[0]?")
	if err != nil {
		t.Fatal(err)
	}
	if len(ast.Children) != 2 {
		t.Fatalf("Parse(\"foo[0]?\") = %#v, want 2 children", ast)
	}
	opt := ast.Children[1]
	if opt.Tag != NodeOptional || opt.Child.Tag != NodeIndex {
		t.Fatalf("modifier did not bind to the trailing accessor: %#v", opt)
	}
}
