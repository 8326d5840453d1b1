// Package corediag records the wall-clock timing of each driver pipeline
// stage (header parsing, dependency sort, AST build, HIR lowering, borrow
// checking) for the orchestrator to report alongside diagnostics.
//
// Grounded on the teacher's internal/observ/timer.go (Timer/Phase/Report
// shape) and internal/trace (Scope/Level vocabulary for what counts as a
// "phase" in this compiler). Both teacher packages are themselves
// dependency-free (time + fmt only), so this package stays on the standard
// library too: no third-party timing/tracing library appears anywhere in
// the retrieval pack for this concern, and adding one here would have no
// other consumer.
package corediag

import (
	"fmt"
	"time"
)

// Stage names the driver pipeline phases this package can time. Kept as a
// closed set (rather than a free-form string) so callers can't typo a stage
// name that then silently never matches anything downstream.
type Stage uint8

const (
	StageHeaderParse Stage = iota + 1
	StageDepSort
	StageASTBuild
	StageHIRLower
	StageBorrowCheck
)

// String returns the stage's report label.
func (s Stage) String() string {
	switch s {
	case StageHeaderParse:
		return "header_parse"
	case StageDepSort:
		return "dep_sort"
	case StageASTBuild:
		return "ast_build"
	case StageHIRLower:
		return "hir_lower"
	case StageBorrowCheck:
		return "borrow_check"
	default:
		return "unknown"
	}
}

// phase is one recorded Stage occurrence: a start time until Recorder.End
// closes it out with a duration and optional note.
type phase struct {
	stage Stage
	start time.Time
	dur   time.Duration
	note  string
}

// Recorder tracks the duration of each pipeline stage for one Build call.
// Not goroutine-safe: the driver's parallel stages (parseHeaders) time
// themselves as a single enclosing phase rather than per-file.
type Recorder struct {
	phases []phase
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{phases: make([]phase, 0, 8)}
}

// Begin starts timing stage and returns a token to pass to End.
func (r *Recorder) Begin(stage Stage) int {
	r.phases = append(r.phases, phase{stage: stage, start: time.Now()})
	return len(r.phases) - 1
}

// End closes out the phase started by Begin, attaching an optional note
// (e.g. "3 files", "cycle detected").
func (r *Recorder) End(token int, note string) {
	if token < 0 || token >= len(r.phases) {
		return
	}
	p := &r.phases[token]
	p.dur = time.Since(p.start)
	p.note = note
}

// Track runs fn while timing stage, returning fn's result. The note shown
// in the report is always empty; use Begin/End directly for notes.
func Track[T any](r *Recorder, stage Stage, fn func() T) T {
	tok := r.Begin(stage)
	result := fn()
	r.End(tok, "")
	return result
}

// StagePhase is one stage's duration, ready for JSON/text rendering.
type StagePhase struct {
	Stage      string  `json:"stage"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the full aggregated timing summary for one Build call.
type Report struct {
	TotalMS float64      `json:"total_ms"`
	Stages  []StagePhase `json:"stages"`
}

// Report aggregates every recorded phase into a Report.
func (r *Recorder) Report() Report {
	if len(r.phases) == 0 {
		return Report{}
	}
	out := Report{Stages: make([]StagePhase, len(r.phases))}
	var total time.Duration
	for i, p := range r.phases {
		total += p.dur
		out.Stages[i] = StagePhase{
			Stage:      p.stage.String(),
			DurationMS: millis(p.dur),
			Note:       p.note,
		}
	}
	out.TotalMS = millis(total)
	return out
}

// Summary renders the report as a human-readable multi-line string, in the
// same column layout as the teacher's Timer.Summary.
func (r *Recorder) Summary() string {
	report := r.Report()
	out := "stage timings:\n"
	for _, s := range report.Stages {
		out += fmt.Sprintf("  %-16s %8.2f ms", s.Stage, s.DurationMS)
		if s.Note != "" {
			out += "  // " + s.Note
		}
		out += "\n"
	}
	out += fmt.Sprintf("  %-16s %8.2f ms\n", "total", report.TotalMS)
	return out
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
