package driver

import (
	"golang.org/x/sync/errgroup"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
)

// parseHeaders runs header.Parse over every file concurrently (§5: "per-file
// tokenization may run in parallel... before headers are merged" — header
// extraction is the same kind of per-file-independent work, since no file's
// header parse reads another file's tokens). Each file gets its own Bag so
// concurrent parses never touch shared diagnostic state; results are
// reassembled in input order afterward for deterministic output (§8).
//
// Grounded on the teacher's internal/driver/parallel_diagnose.go, which
// fans the same per-file-independent work out over an errgroup.
func parseHeaders(files []FileInput) ([]header.FileHeaders, *diag.Bag) {
	results := make([]header.FileHeaders, len(files))
	bags := make([]diag.Bag, len(files))

	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			bag := &bags[i]
			results[i] = header.Parse(f.Tokens, f.Path, f.IsEntry, diag.BagReporter{Bag: bag})
			return nil
		})
	}
	// header.Parse never returns an error value of its own (diagnostics are
	// reported, not returned); Wait only propagates programmer panics
	// through the errgroup's recover-free path, so its return is unused.
	_ = g.Wait()

	merged := diag.NewBag()
	for i := range bags {
		merged.Merge(&bags[i])
	}
	return results, merged
}
