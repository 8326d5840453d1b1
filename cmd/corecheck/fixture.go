package main

import (
	"encoding/json"
	"fmt"
	"os"

	"beanstalk/internal/driver"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// tokenKindByName maps a fixture file's human-readable token kind name to
// the token.Kind the header parser and AST builder expect. Kept here
// rather than on token.Kind.String() since that method collapses every
// punctuation/operator kind to "Punct" for diagnostic rendering, which
// isn't reversible.
var tokenKindByName = map[string]token.Kind{
	"Ident":      token.Ident,
	"IntLit":     token.IntLit,
	"FloatLit":   token.FloatLit,
	"StringLit":  token.StringLit,
	"BoolLit":    token.BoolLit,
	"CharLit":    token.CharLit,
	"fn":         token.KwFn,
	"struct":     token.KwStruct,
	"choice":     token.KwChoice,
	"const":      token.KwConst,
	"template":   token.KwTemplate,
	"import":     token.KwImport,
	"as":         token.KwAs,
	"let":        token.KwLet,
	"mut":        token.KwMut,
	"if":         token.KwIf,
	"else":       token.KwElse,
	"while":      token.KwWhile,
	"loop":       token.KwLoop,
	"break":      token.KwBreak,
	"continue":   token.KwContinue,
	"return":     token.KwReturn,
	"ref":        token.KwRef,
	"(":          token.LParen,
	")":          token.RParen,
	"{":          token.LBrace,
	"}":          token.RBrace,
	"[":          token.LBracket,
	"]":          token.RBracket,
	",":          token.Comma,
	":":          token.Colon,
	"::":         token.ColonColon,
	";":          token.Semicolon,
	".":          token.Dot,
	"->":         token.Arrow,
	"=":          token.Assign,
	"~=":         token.MutAssign,
	"~":          token.Tilde,
	"+":          token.Plus,
	"-":          token.Minus,
	"*":          token.Star,
	"/":          token.Slash,
	"%":          token.Percent,
	"==":         token.EqEq,
	"!=":         token.NotEq,
	"<":          token.Lt,
	"<=":         token.LtEq,
	">":          token.Gt,
	">=":         token.GtEq,
	"&&":         token.AndAnd,
	"||":         token.OrOr,
	"!":          token.Bang,
	"&":          token.Amp,
	"#":          token.Hash,
}

// fixtureToken is one token as written in a fixture JSON file.
type fixtureToken struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// fixtureFile is one source file's pre-tokenized contents.
type fixtureFile struct {
	Path    string         `json:"path"`
	IsEntry bool           `json:"is_entry"`
	Tokens  []fixtureToken `json:"tokens"`
}

// fixtureModule is the on-disk shape corecheck reads: since the tokenizer
// itself is out of scope for this core, a fixture supplies the already
// lexed token streams a real orchestrator would otherwise produce.
type fixtureModule struct {
	Files  []fixtureFile     `json:"files"`
	Config map[string]string `json:"config"`
	Mode   string            `json:"mode"`
}

func loadFixture(path string) (driver.ModuleInput, *source.FileSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return driver.ModuleInput{}, nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixtureModule
	if err := json.Unmarshal(raw, &fx); err != nil {
		return driver.ModuleInput{}, nil, fmt.Errorf("parse fixture: %w", err)
	}
	return fixtureToModuleInput(fx)
}

// fixtureToModuleInput also builds a FileSet registering each fixture
// file's path under the same sequential FileIDs the ModuleInput's token
// streams reference (FileSet.Add assigns them in Add order), so diagfmt can
// render a real file path even though the fixture carries no source text.
func fixtureToModuleInput(fx fixtureModule) (driver.ModuleInput, *source.FileSet, error) {
	input := driver.ModuleInput{
		Config: driver.Config(fx.Config),
		Mode:   driver.ModeDebug,
	}
	if fx.Mode == "release" {
		input.Mode = driver.ModeRelease
	}

	fs := source.NewFileSet()
	for i, f := range fx.Files {
		fid := fs.Add(f.Path, nil)
		if int(fid) != i+1 {
			return driver.ModuleInput{}, nil, fmt.Errorf("%s: unexpected file ID %d", f.Path, fid)
		}
		stream := &token.Stream{File: fid}
		for _, ft := range f.Tokens {
			kind, ok := tokenKindByName[ft.Kind]
			if !ok {
				return driver.ModuleInput{}, nil, fmt.Errorf("%s: unknown token kind %q", f.Path, ft.Kind)
			}
			stream.Tokens = append(stream.Tokens, token.Token{Kind: kind, Text: ft.Text, Span: source.Span{File: fid}})
		}
		input.Files = append(input.Files, driver.FileInput{Path: f.Path, Tokens: stream, IsEntry: f.IsEntry})
	}
	return input, fs, nil
}
