package diagfmt

import (
	"fmt"
	"io"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

// Pretty renders every diagnostic in bag as a human-readable report:
//
//	path:line:col: severity CODE: message
//	    <source line>
//	    <caret underline>
//	  note: message (path:line:col)
//
// bag should already be sorted (diag.Bag.Sort) for stable output (§8
// idempotence).
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts Options) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts Options) {
	f := fs.Get(d.Primary.File)
	loc := fs.LineCol(d.Primary.File, d.Primary.Start)
	endLoc := fs.LineCol(d.Primary.File, d.Primary.End)

	fmt.Fprintf(w, "%s:%d:%d: %s %s%04d: %s\n",
		formatPath(f, opts.PathMode), loc.Line, loc.Column, d.Severity, d.Kind, uint16(d.Code), d.DisplayMessage())

	if line := fs.LineText(d.Primary.File, loc.Line); line != "" {
		endCol := endLoc.Column
		if endLoc.Line != loc.Line {
			endCol = visualWidth(line) + 1
		}
		fmt.Fprintf(w, "    %s\n", line)
		fmt.Fprintf(w, "    %s\n", caretLine(line, loc.Column, endCol))
	}

	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		nl := fs.LineCol(n.Span.File, n.Span.Start)
		fmt.Fprintf(w, "  note: %s (%s:%d:%d)\n", n.Msg, formatPath(nf, opts.PathMode), nl.Line, nl.Column)
	}
}
