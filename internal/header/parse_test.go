package header

import (
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// tb is a tiny token-stream builder for tests so we don't depend on a real
// tokenizer (out of scope per spec.md §1).
type tb struct {
	toks []token.Token
	pos  uint32
}

func (b *tb) push(k token.Kind, text string) *tb {
	start := b.pos
	end := start + uint32(len(text))
	if len(text) == 0 {
		end = start + 1
	}
	b.toks = append(b.toks, token.Token{Kind: k, Text: text, Span: source.Span{File: 1, Start: start, End: end}})
	b.pos = end
	return b
}

func (b *tb) stream() *token.Stream {
	return &token.Stream{File: 1, Tokens: b.toks}
}

func TestParseFunctionHeaderAndStart(t *testing.T) {
	b := new(tb)
	b.push(token.KwFn, "fn").push(token.Ident, "add").
		push(token.LParen, "(").push(token.Ident, "a").push(token.Colon, ":").push(token.Ident, "int").
		push(token.Comma, ",").push(token.Ident, "b").push(token.Colon, ":").push(token.Ident, "int").
		push(token.RParen, ")").push(token.Arrow, "->").push(token.Ident, "int").
		push(token.LBrace, "{").push(token.KwReturn, "return").push(token.Ident, "a").push(token.RBrace, "}")

	bag := diag.NewBag()
	fh := Parse(b.stream(), "main.bt", true, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if len(fh.Headers) != 2 {
		t.Fatalf("expected function + Main headers, got %d: %+v", len(fh.Headers), fh.Headers)
	}
	fn := fh.Headers[0]
	if fn.Kind != KindFunction || fn.Name != "add" {
		t.Fatalf("unexpected first header: %+v", fn)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	main := fh.Main()
	if main == nil {
		t.Fatalf("expected Main header")
	}
}

func TestEmptyEntryFileProducesEmptyMain(t *testing.T) {
	b := new(tb)
	fh := Parse(b.stream(), "main.bt", true, diag.NopReporter{})
	main := fh.Main()
	if main == nil {
		t.Fatalf("expected an empty Main for an empty entry file")
	}
	if len(main.Body) != 0 {
		t.Fatalf("expected empty body, got %v", main.Body)
	}
}

func TestReservedMainNameRejected(t *testing.T) {
	b := new(tb)
	b.push(token.KwFn, "fn").push(token.Ident, "Main").
		push(token.LParen, "(").push(token.RParen, ")").
		push(token.LBrace, "{").push(token.RBrace, "}")
	bag := diag.NewBag()
	Parse(b.stream(), "main.bt", true, diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatalf("expected an error for declaring 'Main' explicitly")
	}
}

func TestImportCollected(t *testing.T) {
	b := new(tb)
	b.push(token.KwImport, "import").push(token.Ident, "std").push(token.Dot, ".").
		push(token.Ident, "io").push(token.Semicolon, ";")
	bag := diag.NewBag()
	fh := Parse(b.stream(), "main.bt", false, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if len(fh.Imports) != 1 || fh.Imports[0].ModulePath != "std.io" {
		t.Fatalf("unexpected imports: %+v", fh.Imports)
	}
}

func TestDuplicateDeclarationDetected(t *testing.T) {
	b := new(tb)
	b.push(token.KwStruct, "struct").push(token.Ident, "Point").push(token.LBrace, "{").push(token.RBrace, "}")
	b.push(token.KwStruct, "struct").push(token.Ident, "Point").push(token.LBrace, "{").push(token.RBrace, "}")
	bag := diag.NewBag()
	fh := Parse(b.stream(), "lib.bt", false, diag.BagReporter{Bag: bag})
	CheckDuplicates(fh, diag.BagReporter{Bag: bag})
	if !bag.HasErrors() {
		t.Fatalf("expected duplicate declaration error")
	}
}
