// Package source holds the owned source-location primitives shared by every
// later stage: file identity, byte spans, and line/column resolution. The
// core never reads files itself (§5: "file reads happen in the
// orchestrator") — FileSet only stores content handed to it.
package source

// FileID identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file reference.
const NoFileID FileID = 0

// IsValid reports whether the file ID refers to a registered file.
func (id FileID) IsValid() bool { return id != NoFileID }

// LineCol is a 1-based line and column pair, used only for diagnostic
// rendering; every other part of the pipeline works in byte offsets.
type LineCol struct {
	Line   int
	Column int
}
