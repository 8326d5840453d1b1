package header

import (
	"strings"

	"beanstalk/internal/diag"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// Parse scans stream once, recognizing top-level declarations without
// entering their bodies (§4.3). fileName is used only to detect "#"-prefixed
// module roots; isEntry marks the file whose StartFunction becomes Main.
func Parse(stream *token.Stream, fileName string, isEntry bool, reporter diag.Reporter) FileHeaders {
	fh := FileHeaders{
		File:       stream.File,
		IsEntry:    isEntry,
		StartIndex: -1,
	}
	if strings.HasPrefix(fileName, "#") {
		fh.IsRoot = true
		fh.RootKind = classifyRootSuffix(fileName)
	}

	p := &parser{stream: stream, reporter: reporter}
	var startBody []token.Token
	var startSpan source.Span
	haveStart := false
	sawMain := false

	for !p.atEnd() {
		tok := p.peek()
		switch tok.Kind {
		case token.KwImport:
			imp, ok := p.parseImport()
			if ok {
				fh.Imports = append(fh.Imports, imp)
			}
		case token.KwFn:
			hdr, ok := p.parseFunction()
			if !ok {
				continue
			}
			if isEntry && hdr.Name == ReservedMainName {
				p.report(diag.SynReservedMainIdent, hdr.Span,
					"'Main' is reserved for the entry file's implicit start code and cannot be declared explicitly")
				continue
			}
			fh.Headers = append(fh.Headers, hdr)
		case token.KwTemplate:
			hdr, ok := p.parseTemplate()
			if ok {
				fh.Headers = append(fh.Headers, hdr)
			}
		case token.KwStruct:
			hdr, ok := p.parseStruct()
			if ok {
				fh.Headers = append(fh.Headers, hdr)
			}
		case token.KwChoice:
			hdr, ok := p.parseChoice()
			if ok {
				fh.Headers = append(fh.Headers, hdr)
			}
		case token.KwConst:
			hdr, ok := p.parseConst()
			if ok {
				fh.Headers = append(fh.Headers, hdr)
			}
		case token.EOF:
			p.advance()
		default:
			// Top-level code not matching a declared kind is aggregated
			// into a StartFunction body (§4.3).
			start := p.pos
			stmtSpan := p.skipStatement()
			if !haveStart {
				startSpan = stmtSpan
				haveStart = true
			} else {
				startSpan = startSpan.Cover(stmtSpan)
			}
			startBody = append(startBody, p.stream.Tokens[start:p.pos]...)
			_ = sawMain
		}
	}

	if haveStart {
		kind := KindStartFunction
		name := "<start>"
		if isEntry {
			kind = KindMain
			name = ReservedMainName
		}
		fh.StartIndex = len(fh.Headers)
		fh.Headers = append(fh.Headers, Header{
			Kind: kind,
			Name: name,
			Span: startSpan,
			File: stream.File,
			Body: startBody,
		})
	} else if isEntry {
		// §8 boundary: empty module (only entry file, empty body) still
		// compiles to a Main with an empty body and no diagnostics.
		fh.StartIndex = len(fh.Headers)
		fh.Headers = append(fh.Headers, Header{
			Kind: KindMain,
			Name: ReservedMainName,
			File: stream.File,
		})
	}

	return fh
}

func classifyRootSuffix(fileName string) ModuleRootKind {
	switch {
	case strings.HasSuffix(fileName, ".page"):
		return ModuleRootPage
	case strings.HasSuffix(fileName, ".layout"):
		return ModuleRootLayout
	case strings.HasSuffix(fileName, ".lib"):
		return ModuleRootLib
	default:
		return ModuleRootNone
	}
}
