// Package depsort implements the §4.4 dependency sorter: a topological order
// over header-level imports within one module, enabling single-pass AST
// construction. Adapted from the teacher's internal/project/dag package
// (Kahn's algorithm, deterministic batches, cycle reporting), oriented so
// that "if A imports B, then B precedes A" (§8 testable property) instead of
// the teacher's consumer-first module-hash ordering.
package depsort

import (
	"sort"

	"beanstalk/internal/header"
)

// FileNode is the minimal input the sorter needs per file: its identity and
// the import paths it declares.
type FileNode struct {
	Path    string
	Imports []header.Import
}

// Graph is the adjacency-list view over a fixed set of files, indexed by
// position in the input slice ("file index").
//
// Deps[from] = []to: file `from` imports file `to` (`to` must precede
// `from` in the emitted order). Dependents is the reverse adjacency used to
// drive Kahn's algorithm from zero-dependency files outward.
type Graph struct {
	Deps       [][]int // Deps[from] = sorted list of files `from` imports
	Dependents [][]int // Dependents[to] = files that import `to`
}

// BuildGraph resolves import paths against the set of known files and
// builds both adjacency directions. Imports to paths outside the module
// (e.g. a stdlib import) are ignored here — only intra-module ordering is
// this package's concern; external imports are resolved elsewhere.
func BuildGraph(files []FileNode) Graph {
	pathToIdx := make(map[string]int, len(files))
	for i, f := range files {
		pathToIdx[f.Path] = i
	}

	g := Graph{
		Deps:       make([][]int, len(files)),
		Dependents: make([][]int, len(files)),
	}
	for from, f := range files {
		seen := make(map[int]struct{}, len(f.Imports))
		for _, imp := range f.Imports {
			to, ok := pathToIdx[imp.ModulePath]
			if !ok || to == from {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Deps[from] = append(g.Deps[from], to)
			g.Dependents[to] = append(g.Dependents[to], from)
		}
		sort.Ints(g.Deps[from])
	}
	for i := range g.Dependents {
		sort.Ints(g.Dependents[i])
	}
	return g
}
