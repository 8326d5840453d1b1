// Package diagfmt renders a diag.Bag to either a human-readable terminal
// report or a machine-readable JSON document. Both are ambient, outer-layer
// concerns the core itself doesn't need (§6: "the only persistent artifact
// is a diagnostics report formatted externally"), implemented here for the
// orchestrator/CLI layer.
//
// Grounded on the teacher's internal/diagfmt/pretty.go and json.go: same
// two-format split, same per-diagnostic location/notes shape. The teacher's
// pretty-printer additionally does ANSI coloring (github.com/fatih/color)
// and East Asian-width-aware column alignment (github.com/mattn/go-runewidth);
// this package keeps the width-awareness (grounded on the pack's own use of
// golang.org/x/text for unicode-aware text handling) but drops colorizing,
// since no third-party color library appears anywhere else in the pack.
package diagfmt

import (
	"path/filepath"

	"beanstalk/internal/source"
	"golang.org/x/text/width"
)

// PathMode controls how a diagnostic's file path is rendered.
type PathMode uint8

const (
	PathModeFull PathMode = iota
	PathModeBasename
)

// Options configures both renderers.
type Options struct {
	PathMode PathMode
	// Context is a count of extra source lines around the primary span.
	// Pretty does not read it: it prints only the line holding the primary
	// span, whatever Context is.
	Context int
}

func formatPath(f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	if mode == PathModeBasename {
		return filepath.Base(f.Path)
	}
	return f.Path
}

// visualWidth measures s the way a terminal would render it, doubling East
// Asian wide/fullwidth runes the way the teacher's runewidth-based wrapper
// did, using golang.org/x/text/width instead (§ambient stack: "use the
// pack's actual unicode-handling library, not a hand-rolled table").
func visualWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// caretLine builds a "   ^~~~" underline positioned under [startCol,endCol)
// of a source line, respecting visual (not byte) width so a line mixing
// ASCII and wide characters still underlines the right columns.
func caretLine(line string, startCol, endCol int) string {
	if endCol <= startCol {
		endCol = startCol + 1
	}
	runes := []rune(line)
	lead := 0
	for i, r := range runes {
		if i+1 >= startCol {
			break
		}
		lead += runeWidth(r)
	}
	span := 0
	for i := startCol - 1; i < endCol-1 && i < len(runes); i++ {
		span += runeWidth(runes[i])
	}
	if span <= 0 {
		span = 1
	}
	out := make([]byte, 0, lead+span)
	for i := 0; i < lead; i++ {
		out = append(out, ' ')
	}
	out = append(out, '^')
	for i := 1; i < span; i++ {
		out = append(out, '~')
	}
	return string(out)
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
