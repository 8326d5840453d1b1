package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

func fixture() (*diag.Bag, *source.FileSet, source.FileID) {
	fs := source.NewFileSet()
	id := fs.Add("widgets/box.sg", []byte("let x = 1\nlet y = x + undefined\n"))
	bag := diag.NewBag()
	bag.Add(diag.Diagnostic{
		Kind:     diag.KindRule,
		Severity: diag.SevError,
		Code:     diag.RuleUnresolvedSymbol,
		Message:  "unresolved symbol 'undefined'",
		Primary:  source.Span{File: id, Start: 20, End: 29},
	}.WithNote(source.Span{File: id, Start: 4, End: 5}, "did you mean 'x'?"))
	return bag, fs, id
}

func TestPrettyIncludesLocationAndCaret(t *testing.T) {
	bag, fs, _ := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{PathMode: PathModeBasename})
	out := buf.String()

	if !strings.Contains(out, "box.sg:2:") {
		t.Fatalf("output missing file:line: %q", out)
	}
	if !strings.Contains(out, "unresolved symbol 'undefined'") {
		t.Fatalf("output missing message: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("output missing caret underline: %q", out)
	}
	if !strings.Contains(out, "did you mean 'x'?") {
		t.Fatalf("output missing note: %q", out)
	}
}

func TestPrettyFullPathMode(t *testing.T) {
	bag, fs, _ := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{PathMode: PathModeFull})
	if !strings.Contains(buf.String(), "widgets/box.sg:") {
		t.Fatalf("expected full path, got %q", buf.String())
	}
}

func TestJSONRoundTrips(t *testing.T) {
	bag, fs, _ := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, Options{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var report ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.ErrorCount != 1 || report.WarnCount != 0 {
		t.Fatalf("counts = %+v", report)
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(report.Diagnostics))
	}
	got := report.Diagnostics[0]
	if got.Kind != "Rule" || got.Code != uint16(diag.RuleUnresolvedSymbol) {
		t.Fatalf("diagnostic = %+v", got)
	}
	if got.Location.File != "box.sg" || got.Location.StartLine != 2 {
		t.Fatalf("location = %+v", got.Location)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "did you mean 'x'?" {
		t.Fatalf("notes = %+v", got.Notes)
	}
}

func TestDisplayMessagePrefixesCompilerBug(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag()
	bag.CompilerBug("unreachable state in lowering")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{})
	if !strings.Contains(buf.String(), "COMPILER BUG: unreachable state in lowering") {
		t.Fatalf("expected prefixed compiler bug, got %q", buf.String())
	}
}

func TestVisualWidthHandlesWideRunes(t *testing.T) {
	if visualWidth("ab") != 2 {
		t.Fatalf("ascii width mismatch")
	}
	if w := visualWidth("中文"); w != 4 {
		t.Fatalf("wide rune width = %d, want 4", w)
	}
}
