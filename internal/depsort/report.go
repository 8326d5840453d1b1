package depsort

import (
	"fmt"
	"strings"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

// ReportCycle emits a single File-kind diagnostic naming every file
// participating in the cycle along with an import chain, matching §8's
// boundary behavior: "produces exactly one File-kind diagnostic listing all
// cycle participants."
func ReportCycle(files []FileNode, spans []source.Span, topo Topo, reporter diag.Reporter) {
	if !topo.Cyclic || len(topo.Cycle) == 0 || reporter == nil {
		return
	}
	names := make([]string, 0, len(topo.Cycle)+1)
	for _, idx := range topo.Cycle {
		names = append(names, files[idx].Path)
	}
	// Close the chain by repeating the first participant, matching the
	// "A -> B -> A" phrasing from spec.md's worked example #4.
	chain := append(append([]string{}, names...), names[0])
	msg := fmt.Sprintf("import cycle detected: %s", strings.Join(chain, " -> "))

	primary := source.Span{}
	if len(spans) > topo.Cycle[0] {
		primary = spans[topo.Cycle[0]]
	}
	reporter.Report(diag.File(diag.FileImportCycle, primary, msg))
}
