package diag

import "sort"

// Bag accumulates diagnostics for a single stage or module, enabling the
// "batching of multiple errors+warnings per stage" channel described in
// §4.1's result-like return shape.
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty Bag.
func NewBag() *Bag { return &Bag{} }

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// CompilerBug is a convenience for internal-bug reporting from deep call sites
// that only have a message, mirroring how often the teacher's code paths
// reach for a single-line internal assertion failure.
func (b *Bag) CompilerBug(msg string) { b.Add(Compiler(msg)) }

// HasErrors reports whether any diagnostic is at SevError or above.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns the accumulated diagnostics; callers must not mutate the
// returned slice.
func (b *Bag) Items() []Diagnostic { return b.items }

// Len reports how many diagnostics are in the bag.
func (b *Bag) Len() int { return len(b.items) }

// Merge appends every diagnostic from other into b.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start offset, end offset, severity
// (descending), then code (ascending) for stable, deterministic output
// (§8 idempotence property).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
