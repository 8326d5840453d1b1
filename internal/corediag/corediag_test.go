package corediag

import (
	"strings"
	"testing"
	"time"
)

func TestRecorderReportsEachStage(t *testing.T) {
	r := NewRecorder()
	tok := r.Begin(StageHeaderParse)
	time.Sleep(time.Millisecond)
	r.End(tok, "3 files")

	tok2 := r.Begin(StageBorrowCheck)
	r.End(tok2, "")

	report := r.Report()
	if len(report.Stages) != 2 {
		t.Fatalf("want 2 stages, got %d", len(report.Stages))
	}
	if report.Stages[0].Stage != "header_parse" || report.Stages[0].Note != "3 files" {
		t.Fatalf("stage0 = %+v", report.Stages[0])
	}
	if report.Stages[0].DurationMS <= 0 {
		t.Fatalf("expected positive duration, got %v", report.Stages[0].DurationMS)
	}
	if report.Stages[1].Stage != "borrow_check" {
		t.Fatalf("stage1 = %+v", report.Stages[1])
	}
	if report.TotalMS < report.Stages[0].DurationMS {
		t.Fatalf("total %v should be >= stage0 %v", report.TotalMS, report.Stages[0].DurationMS)
	}
}

func TestRecorderEndOutOfRangeIsNoop(t *testing.T) {
	r := NewRecorder()
	r.End(5, "ignored")
	if len(r.phases) != 0 {
		t.Fatalf("expected no phases recorded")
	}
}

func TestTrackReturnsFnResult(t *testing.T) {
	r := NewRecorder()
	got := Track(r, StageASTBuild, func() int { return 42 })
	if got != 42 {
		t.Fatalf("Track result = %d, want 42", got)
	}
	if len(r.phases) != 1 || r.phases[0].stage != StageASTBuild {
		t.Fatalf("phase not recorded: %+v", r.phases)
	}
}

func TestSummaryFormatting(t *testing.T) {
	r := NewRecorder()
	tok := r.Begin(StageDepSort)
	r.End(tok, "cycle detected")
	out := r.Summary()
	if !strings.Contains(out, "dep_sort") || !strings.Contains(out, "cycle detected") || !strings.Contains(out, "total") {
		t.Fatalf("summary = %q", out)
	}
}

func TestStageStringUnknown(t *testing.T) {
	var s Stage = 99
	if s.String() != "unknown" {
		t.Fatalf("String() = %q, want unknown", s.String())
	}
}
