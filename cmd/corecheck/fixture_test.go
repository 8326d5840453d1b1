package main

import (
	"testing"

	"beanstalk/internal/driver"
)

func TestFixtureToModuleInputDecodesTokens(t *testing.T) {
	fx := fixtureModule{
		Mode: "release",
		Files: []fixtureFile{
			{
				Path:    "main.bs",
				IsEntry: true,
				Tokens: []fixtureToken{
					{Kind: "fn", Text: "fn"},
					{Kind: "Ident", Text: "Main"},
					{Kind: "(", Text: "("},
					{Kind: ")", Text: ")"},
					{Kind: "{", Text: "{"},
					{Kind: "}", Text: "}"},
				},
			},
		},
	}

	input, fs, err := fixtureToModuleInput(fx)
	if err != nil {
		t.Fatalf("fixtureToModuleInput: %v", err)
	}
	if input.Mode != driver.ModeRelease {
		t.Fatalf("Mode = %v, want release", input.Mode)
	}
	if len(input.Files) != 1 || len(input.Files[0].Tokens.Tokens) != 6 {
		t.Fatalf("unexpected decoded files: %+v", input.Files)
	}
	if fs.Len() != 1 {
		t.Fatalf("expected 1 registered file, got %d", fs.Len())
	}
}

func TestFixtureToModuleInputRejectsUnknownKind(t *testing.T) {
	fx := fixtureModule{
		Files: []fixtureFile{{Path: "main.bs", Tokens: []fixtureToken{{Kind: "NotAThing", Text: "?"}}}},
	}
	if _, _, err := fixtureToModuleInput(fx); err == nil {
		t.Fatalf("expected an error for an unrecognized token kind")
	}
}
