package diagfmt

import (
	"encoding/json"
	"io"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
)

// LocationJSON is a diagnostic's source location, serialized for external
// tooling (IDEs, CI annotations).
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine int    `json:"start_line,omitempty"`
	StartCol  int    `json:"start_col,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	EndCol    int    `json:"end_col,omitempty"`
}

// NoteJSON is one Diagnostic.Notes entry.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is the wire shape of one diag.Diagnostic.
type DiagnosticJSON struct {
	Kind     string            `json:"kind"`
	Severity string            `json:"severity"`
	Code     uint16            `json:"code"`
	Message  string            `json:"message"`
	Location LocationJSON      `json:"location"`
	Notes    []NoteJSON        `json:"notes,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// ReportJSON is the top-level document written by JSON.
type ReportJSON struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	ErrorCount  int              `json:"error_count"`
	WarnCount   int              `json:"warning_count"`
}

func makeLocation(sp source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	f := fs.Get(sp.File)
	start := fs.LineCol(sp.File, sp.Start)
	end := fs.LineCol(sp.File, sp.End)
	return LocationJSON{
		File:      formatPath(f, mode),
		StartByte: sp.Start,
		EndByte:   sp.End,
		StartLine: start.Line,
		StartCol:  start.Column,
		EndLine:   end.Line,
		EndCol:    end.Column,
	}
}

// JSON renders bag as a ReportJSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts Options) error {
	report := ToJSON(bag, fs, opts)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ToJSON builds the in-memory ReportJSON document without writing it,
// for callers that want to embed it in a larger payload (e.g. an IDE
// protocol message).
func ToJSON(bag *diag.Bag, fs *source.FileSet, opts Options) ReportJSON {
	var report ReportJSON
	for _, d := range bag.Items() {
		item := DiagnosticJSON{
			Kind:     d.Kind.String(),
			Severity: d.Severity.String(),
			Code:     uint16(d.Code),
			Message:  d.DisplayMessage(),
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		for _, n := range d.Notes {
			item.Notes = append(item.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts.PathMode)})
		}
		if len(d.Meta) > 0 {
			item.Meta = map[string]string(d.Meta)
		}
		report.Diagnostics = append(report.Diagnostics, item)
		switch d.Severity {
		case diag.SevError:
			report.ErrorCount++
		case diag.SevWarning:
			report.WarnCount++
		}
	}
	return report
}
