package source

import "testing"

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	c := in.Intern("bar")
	if a != b {
		t.Fatalf("expected equal IDs for equal strings, got %d and %d", a, b)
	}
	if a == c {
		t.Fatalf("expected distinct IDs for distinct strings")
	}
	s, ok := in.Lookup(a)
	if !ok || s != "foo" {
		t.Fatalf("Lookup(%d) = %q, %v; want foo, true", a, s, ok)
	}
}

func TestInternerNoStringID(t *testing.T) {
	in := NewInterner()
	s, ok := in.Lookup(NoStringID)
	if !ok || s != "" {
		t.Fatalf("NoStringID should resolve to empty string, got %q, %v", s, ok)
	}
}

func TestFileSetLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.bt", []byte("ab\ncd\nef"))
	lc := fs.LineCol(id, 4) // 'c' at offset 3 is line 2 col 1; offset 4 is 'd'
	if lc.Line != 2 || lc.Column != 2 {
		t.Fatalf("LineCol(4) = %+v, want {2 2}", lc)
	}
	if fs.Text(Span{File: id, Start: 0, End: 2}) != "ab" {
		t.Fatalf("Text mismatch")
	}
}
