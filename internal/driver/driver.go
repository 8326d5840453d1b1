package driver

import (
	"fmt"

	"beanstalk/internal/ast"
	"beanstalk/internal/borrow"
	"beanstalk/internal/corediag"
	"beanstalk/internal/depsort"
	"beanstalk/internal/diag"
	"beanstalk/internal/header"
	"beanstalk/internal/hir"
	"beanstalk/internal/source"
)

// Build is the core's single entry point (§6, §4.8): it runs header
// parsing, dependency sorting, AST building, HIR lowering, and borrow
// checking in sequence, returning the best-effort Module it could build
// plus every diagnostic collected along the way.
//
// Per §7, a stage only runs if running it could produce a meaningful
// result: an import cycle makes dependency order undefined, so AST
// building (which requires that order) is skipped entirely when depsort
// reports one. Every other stage is tolerant of partial input by
// construction (ast.Builder.Build and hir.Lower both document returning
// their best-effort output even after reported errors), so Build lets them
// run regardless of upstream errors — matching §4.8's "the driver still
// returns everything proved so far" partial-analysis contract rather than
// the stricter reading of §7 that would abort the whole pipeline on the
// first error.
func Build(input ModuleInput) *Module {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	rec := corediag.NewRecorder()

	headerTok := rec.Begin(corediag.StageHeaderParse)
	fileHeaders, headerBag := parseHeaders(input.Files)
	rec.End(headerTok, fmt.Sprintf("%d files", len(input.Files)))
	bag.Merge(headerBag)

	nodes := make([]depsort.FileNode, len(input.Files))
	spans := make([]source.Span, len(input.Files))
	for i, f := range input.Files {
		nodes[i] = depsort.FileNode{Path: f.Path, Imports: fileHeaders[i].Imports}
		spans[i] = source.Span{File: fileHeaders[i].File}
	}
	depTok := rec.Begin(corediag.StageDepSort)
	graph := depsort.BuildGraph(nodes)
	topo := depsort.Sort(graph)
	rec.End(depTok, "")

	mod := &Module{}
	if topo.Cyclic {
		depsort.ReportCycle(nodes, spans, topo, reporter)
		bag.Sort()
		mod.Diagnostics = bag.Items()
		mod.Timings = rec.Report()
		return mod
	}

	ordered := make([]header.FileHeaders, len(topo.Order))
	for i, idx := range topo.Order {
		ordered[i] = fileHeaders[idx]
	}

	astTok := rec.Begin(corediag.StageASTBuild)
	b := ast.NewBuilder(reporter)
	for name, ok := range input.HostFunctions {
		b.HostFunctions[name] = ok
	}
	astMod := b.Build(ordered)
	rec.End(astTok, "")

	hirTok := rec.Begin(corediag.StageHIRLower)
	prog := hir.Lower(astMod, b.Places, reporter)
	rec.End(hirTok, "")

	borrowTok := rec.Begin(corediag.StageBorrowCheck)
	policy := derivePolicy(input.Mode, input.Config)
	facts := borrow.Check(prog, b.Places, policy, reporter)
	rec.End(borrowTok, "")

	regular, templates := partitionFunctions(astMod, prog)
	mod.HirFunctions = regular
	mod.TemplateFunctions = templates
	mod.Main = prog.Main
	mod.StructLayouts = astMod.Structs
	mod.ChoiceLayouts = astMod.Choices
	mod.Constants = append(append([]ast.ConstantDecl(nil), astMod.Constants...), astMod.TemplateConstants...)
	mod.BorrowFacts = facts

	bag.Sort()
	mod.Diagnostics = bag.Items()
	mod.Timings = rec.Report()
	return mod
}

// partitionFunctions splits prog.Functions back into ordinary and template
// functions. Package hir intentionally lowers every *ast.Function body the
// same way and doesn't carry ast.Function.IsTemplateFn through (§4.6 has no
// use for the distinction), so the driver recovers it here from the
// template-function name set in the Module the HIR was lowered from.
func partitionFunctions(mod *ast.Module, prog *hir.Program) (regular, templates []*hir.Function) {
	templateNames := make(map[string]bool, len(mod.TemplateFunctions))
	for _, fn := range mod.TemplateFunctions {
		templateNames[fn.Name] = true
	}
	for _, fn := range prog.Functions {
		if templateNames[fn.Name] {
			templates = append(templates, fn)
		} else {
			regular = append(regular, fn)
		}
	}
	return regular, templates
}

// derivePolicy resolves the borrow checker's soft/hard downgrade policy
// from the build mode and config (§4.7.7, SPEC_FULL Open Question 3): debug
// builds default to GC fallback available (matching a debug interpreter
// backend, per borrow.DefaultPolicy), release builds default to it being
// unavailable (no fallback to paper over a real aliasing risk in optimized
// output) unless the orchestrator's config says otherwise.
func derivePolicy(mode BuildMode, cfg Config) borrow.Policy {
	def := mode == ModeDebug
	return borrow.Policy{GCFallbackAvailable: cfg.Bool("gc_fallback", def)}
}
