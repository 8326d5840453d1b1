package projectbuilder

import (
	"testing"

	"beanstalk/internal/diag"
	"beanstalk/internal/driver"
	"beanstalk/internal/hir"
	"beanstalk/internal/source"
)

func TestBuildBackendAggregatesModules(t *testing.T) {
	mods := []*driver.Module{
		{HirFunctions: []*hir.Function{{Name: "add"}}, Main: &hir.Function{Name: "Main"}},
		{HirFunctions: []*hir.Function{{Name: "sub"}}, TemplateFunctions: []*hir.Function{{Name: "id<int>"}}},
	}

	artifacts, diags := StubBuilder{}.BuildBackend(mods, ProjectConfig{}, Flags{Backend: BackendInterpreter})
	if diags != nil {
		t.Fatalf("expected no diagnostics, got %+v", diags)
	}
	if artifacts.ModuleCount != 2 {
		t.Fatalf("ModuleCount = %d, want 2", artifacts.ModuleCount)
	}
	if artifacts.FunctionCount != 3 {
		t.Fatalf("FunctionCount = %d, want 3", artifacts.FunctionCount)
	}
	if len(artifacts.EntryPoints) != 1 || artifacts.EntryPoints[0] != "Main" {
		t.Fatalf("EntryPoints = %+v", artifacts.EntryPoints)
	}
	if artifacts.Backend != BackendInterpreter {
		t.Fatalf("Backend = %q, want interpreter", artifacts.Backend)
	}
}

func TestBuildBackendRejectsModuleWithErrors(t *testing.T) {
	mods := []*driver.Module{
		{Diagnostics: []diag.Diagnostic{diag.Rule(diag.RuleUnresolvedSymbol, source.Span{}, "boom")}},
	}
	_, diags := StubBuilder{}.BuildBackend(mods, ProjectConfig{}, Flags{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic surfaced, got %d", len(diags))
	}
}

func TestValidateProjectConfigRejectsBadLinkMode(t *testing.T) {
	d := StubBuilder{}.ValidateProjectConfig(ProjectConfig{"link_mode": "sideways"})
	if d == nil {
		t.Fatalf("expected a diagnostic for an invalid link_mode")
	}
	if d.Kind != diag.KindConfig {
		t.Fatalf("Kind = %v, want KindConfig", d.Kind)
	}
}

func TestValidateProjectConfigIgnoresUnknownKeys(t *testing.T) {
	d := StubBuilder{}.ValidateProjectConfig(ProjectConfig{"unknown_future_flag": "whatever"})
	if d != nil {
		t.Fatalf("expected unknown keys to be ignored, got %+v", d)
	}
}
