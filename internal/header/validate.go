package header

import (
	"fmt"

	"beanstalk/internal/diag"
)

// CheckDuplicates reports Syntax diagnostics for any two headers in the same
// file declaring the same name (§4.3: "duplicate declarations in the same
// scope"). Main/StartFunction are exempt since there is exactly one per file
// by construction.
func CheckDuplicates(fh FileHeaders, reporter diag.Reporter) {
	seen := make(map[string]Header, len(fh.Headers))
	for _, h := range fh.Headers {
		if h.Kind == KindMain || h.Kind == KindStartFunction {
			continue
		}
		if prior, ok := seen[h.Name]; ok {
			if reporter != nil {
				reporter.Report(diag.Syntax(diag.SynDuplicateDecl, h.Span,
					fmt.Sprintf("%q is already declared at %s", h.Name, prior.Span)).
					WithNote(prior.Span, "previous declaration here"))
			}
			continue
		}
		seen[h.Name] = h
	}
}

// CheckSingleMain reports a Syntax diagnostic if more than one file in a
// module is marked as the entry file (§3: "Exactly one Main per module").
func CheckSingleMain(entryCount int, firstOffender FileHeaders, reporter diag.Reporter) {
	if entryCount <= 1 {
		return
	}
	if reporter != nil {
		reporter.Report(diag.Syntax(diag.SynDuplicateMain, firstOffender.Headers[firstOffender.StartIndex].Span,
			"a module may declare at most one entry file (Main)"))
	}
}
