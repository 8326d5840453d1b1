package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// File is a single registered source file: its path (for diagnostics) and
// content, plus a precomputed line-start index for LineCol resolution.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	lineIdx []uint32 // byte offset of the start of each line
}

// FileSet owns every source file participating in one compilation unit.
// The core never reads from disk; the orchestrator hands in already-read
// content (§5).
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1), // index 0 reserved for NoFileID
		index: make(map[string]FileID),
	}
}

// Add registers file content under path and returns its FileID. Re-adding
// the same path replaces the previous content and returns a fresh FileID,
// matching the teacher's FileSet.Add semantics.
func (fs *FileSet) Add(path string, content []byte) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file count overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		lineIdx: buildLineIndex(content),
	})
	fs.index[path] = id
	return id
}

// Lookup resolves a previously-added path to its FileID.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[path]
	return id, ok
}

// Get returns the File record for id, or nil if id is invalid.
func (fs *FileSet) Get(id FileID) *File {
	if !id.IsValid() || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Text returns the raw source text spanned by sp, clamped to file bounds.
func (fs *FileSet) Text(sp Span) string {
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	start, end := sp.Start, sp.End
	if end > uint32(len(f.Content)) {
		end = uint32(len(f.Content))
	}
	if start > end {
		start = end
	}
	return string(f.Content[start:end])
}

// LineCol resolves a byte offset within file id to a 1-based line/column.
func (fs *FileSet) LineCol(id FileID, offset uint32) LineCol {
	f := fs.Get(id)
	if f == nil || len(f.lineIdx) == 0 {
		return LineCol{Line: 1, Column: 1}
	}
	// Find the last line start <= offset.
	i := sort.Search(len(f.lineIdx), func(i int) bool { return f.lineIdx[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return LineCol{Line: i + 1, Column: int(offset-f.lineIdx[i]) + 1}
}

// Len returns the number of registered files (NoFileID not counted).
func (fs *FileSet) Len() int { return len(fs.files) - 1 }

// LineText returns the content of a single 1-based line, without its
// trailing newline, for diagnostic source-context rendering. Returns "" for
// an invalid file or out-of-range line.
func (fs *FileSet) LineText(id FileID, line int) string {
	f := fs.Get(id)
	if f == nil || line < 1 || line > len(f.lineIdx) {
		return ""
	}
	start := f.lineIdx[line-1]
	end := uint32(len(f.Content))
	if line < len(f.lineIdx) {
		end = f.lineIdx[line]
	}
	text := f.Content[start:end]
	text = bytesTrimRightNewline(text)
	return string(text)
}

func bytesTrimRightNewline(b []byte) []byte {
	n := len(b)
	for n > 0 && (b[n-1] == '\n' || b[n-1] == '\r') {
		n--
	}
	return b[:n]
}

func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i+1))
		}
	}
	return idx
}
