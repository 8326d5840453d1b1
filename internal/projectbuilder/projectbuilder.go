// Package projectbuilder defines the §6 ProjectBuilder boundary: the single
// place external backends plug into the core driver's output. A project
// builder consumes already-analyzed driver.Module values; per §6 it "may
// not call back into parsing, header discovery, or semantic compilation",
// so every operation here is a pure function over its inputs.
//
// Grounded on the teacher's internal/buildpipeline/types.go: the
// Stage/Status/Event/ProgressSink/Backend/Timings vocabulary for what a
// downstream build pipeline tracks once compilation handed it HIR. That
// package's Backend (BackendVM/BackendLLVM) and Timings shapes are carried
// over directly as Backend and reused via corediag.Report for artifact
// timing, since corediag already owns that concern at the driver layer.
package projectbuilder

import (
	"beanstalk/internal/diag"
	"beanstalk/internal/driver"
)

// Backend selects the downstream compilation target, mirroring the
// teacher's buildpipeline.Backend constants.
type Backend string

const (
	BackendInterpreter Backend = "interpreter"
	BackendNative      Backend = "native"
)

// ProjectConfig is the project-level string map handed to both contract
// operations (§6: "unknown keys ignored", same convention as driver.Config).
type ProjectConfig map[string]string

// Flags are the build-invocation flags accompanying a ProjectConfig.
type Flags struct {
	Backend  Backend
	Optimize bool
}

// ProjectArtifacts is the successful result of BuildBackend: everything a
// backend produced, summarized rather than carrying backend-specific
// blobs the core has no vocabulary for.
type ProjectArtifacts struct {
	Backend       Backend
	ModuleCount   int
	FunctionCount int
	EntryPoints   []string
}

// ProjectBuilder is the §6 contract: a single pure operation turning
// analyzed modules into backend artifacts, plus a config-validation probe.
// Implementations must not call back into the driver, ast, or hir
// packages — they only read the already-built driver.Module values.
type ProjectBuilder interface {
	BuildBackend(modules []*driver.Module, config ProjectConfig, flags Flags) (ProjectArtifacts, []diag.Diagnostic)
	ValidateProjectConfig(config ProjectConfig) *diag.Diagnostic
}

// knownConfigKeys are the keys ValidateProjectConfig recognizes; anything
// else is ignored per §6, never rejected.
var knownConfigKeys = map[string]bool{
	"output_dir":    true,
	"link_mode":     true,
	"target_triple": true,
}

// recognizedLinkModes are the only accepted values for the "link_mode" key.
var recognizedLinkModes = map[string]bool{
	"static":  true,
	"dynamic": true,
}

// StubBuilder is a minimal ProjectBuilder: it aggregates module statistics
// without emitting real backend output. Standing in for the interpreter and
// native backends the teacher's BackendVM/BackendLLVM describe, since
// neither backend's actual code generation is in scope here (§6 only
// specifies the boundary, not what is beyond it).
type StubBuilder struct{}

// BuildBackend reports a diagnostics-only failure if any module has errors
// (a backend cannot safely consume a module with unresolved errors), and
// otherwise aggregates the module set into ProjectArtifacts.
func (StubBuilder) BuildBackend(modules []*driver.Module, config ProjectConfig, flags Flags) (ProjectArtifacts, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	for _, mod := range modules {
		if mod.HasErrors() {
			diags = append(diags, mod.Diagnostics...)
		}
	}
	if len(diags) > 0 {
		return ProjectArtifacts{}, diags
	}

	artifacts := ProjectArtifacts{Backend: flags.Backend, ModuleCount: len(modules)}
	for _, mod := range modules {
		artifacts.FunctionCount += len(mod.HirFunctions) + len(mod.TemplateFunctions)
		if mod.Main != nil {
			artifacts.EntryPoints = append(artifacts.EntryPoints, mod.Main.Name)
		}
	}
	return artifacts, nil
}

// ValidateProjectConfig checks recognized keys for well-formed values,
// ignoring everything it doesn't recognize (§6).
func (StubBuilder) ValidateProjectConfig(config ProjectConfig) *diag.Diagnostic {
	_ = knownConfigKeys // documents the recognized-key set; only link_mode has a value to validate today
	if mode, ok := config["link_mode"]; ok && !recognizedLinkModes[mode] {
		d := diag.Config(diag.ConfigInvalidValue, "link_mode must be \"static\" or \"dynamic\", got "+mode)
		return &d
	}
	return nil
}
