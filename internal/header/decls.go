package header

import (
	"strings"

	"beanstalk/internal/diag"
	"beanstalk/internal/token"
)

// parseImport recognizes `import a.b.c;` or `import a.b.c as name;`. The
// module path is collected verbatim for later resolution by the dependency
// sorter (§4.3).
func (p *parser) parseImport() (Import, bool) {
	kw := p.advance() // 'import'
	var segs []string
	for {
		id, ok := p.expect(token.Ident, "module path segment")
		if !ok {
			return Import{}, false
		}
		segs = append(segs, id.Text)
		if p.peek().Kind == token.Dot {
			p.advance()
			continue
		}
		break
	}
	alias := ""
	if p.peek().Kind == token.KwAs {
		p.advance()
		id, ok := p.expect(token.Ident, "identifier after 'as'")
		if !ok {
			return Import{}, false
		}
		alias = id.Text
	}
	end := p.peek().Span
	if p.peek().Kind == token.Semicolon {
		end = p.advance().Span
	}
	return Import{
		ModulePath: strings.Join(segs, "."),
		Alias:      alias,
		Span:       kw.Span.Cover(end),
	}, true
}

// parseParams parses a parenthesized, comma-separated parameter list,
// keeping each parameter's type as an opaque token window.
func (p *parser) parseParams() ([]Param, bool) {
	_, ok := p.expect(token.LParen, "'('")
	if !ok {
		return nil, false
	}
	var params []Param
	for p.peek().Kind != token.RParen {
		if p.atEnd() {
			return params, false
		}
		nameTok, ok := p.expect(token.Ident, "parameter name")
		if !ok {
			return params, false
		}
		param := Param{Name: nameTok.Text, Span: nameTok.Span}
		if p.peek().Kind == token.Colon {
			p.advance()
			typeStart := p.pos
			p.skipTypeExpr()
			param.TypeTk = p.stream.Tokens[typeStart:p.pos]
		}
		params = append(params, param)
		if p.peek().Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, "')'"); !ok {
		return params, false
	}
	return params, true
}

// skipTypeExpr consumes a bracket/paren-balanced type expression up to (but
// not including) the next top-level ',' ')' '{' '=' or ';'.
func (p *parser) skipTypeExpr() {
	depth := 0
	for !p.atEnd() {
		t := p.peek()
		if depth == 0 {
			switch t.Kind {
			case token.Comma, token.RParen, token.LBrace, token.Assign, token.Semicolon:
				return
			}
		}
		switch t.Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *parser) parseFunction() (Header, bool) {
	kw := p.advance() // 'fn'
	name, ok := p.expect(token.Ident, "function name")
	if !ok {
		return Header{}, false
	}
	params, ok := p.parseParams()
	if !ok {
		return Header{}, false
	}
	var result []token.Token
	if p.peek().Kind == token.Arrow {
		p.advance()
		start := p.pos
		p.skipTypeExpr()
		result = p.stream.Tokens[start:p.pos]
	}
	bodySpan, body, ok := p.skipBalanced(token.LBrace, token.RBrace)
	if !ok {
		return Header{}, false
	}
	return Header{
		Kind:   KindFunction,
		Name:   name.Text,
		Span:   kw.Span.Cover(bodySpan),
		File:   p.stream.File,
		Params: params,
		Result: result,
		Body:   body,
	}, true
}

func (p *parser) parseTemplate() (Header, bool) {
	kw := p.advance() // 'template'
	name, ok := p.expect(token.Ident, "template name")
	if !ok {
		return Header{}, false
	}
	params, ok := p.parseParams()
	if !ok {
		return Header{}, false
	}
	bodySpan, body, ok := p.skipBalanced(token.LBrace, token.RBrace)
	if !ok {
		return Header{}, false
	}
	return Header{
		Kind:   KindTemplate,
		Name:   name.Text,
		Span:   kw.Span.Cover(bodySpan),
		File:   p.stream.File,
		Params: params,
		Body:   body,
	}, true
}

func (p *parser) parseStruct() (Header, bool) {
	kw := p.advance() // 'struct'
	name, ok := p.expect(token.Ident, "struct name")
	if !ok {
		return Header{}, false
	}
	bodySpan, fields, ok := p.skipBalanced(token.LBrace, token.RBrace)
	if !ok {
		return Header{}, false
	}
	return Header{
		Kind:   KindStruct,
		Name:   name.Text,
		Span:   kw.Span.Cover(bodySpan),
		File:   p.stream.File,
		Fields: fields,
	}, true
}

func (p *parser) parseChoice() (Header, bool) {
	kw := p.advance() // 'choice'
	name, ok := p.expect(token.Ident, "choice name")
	if !ok {
		return Header{}, false
	}
	bodySpan, variants, ok := p.skipBalanced(token.LBrace, token.RBrace)
	if !ok {
		return Header{}, false
	}
	return Header{
		Kind:   KindChoice,
		Name:   name.Text,
		Span:   kw.Span.Cover(bodySpan),
		File:   p.stream.File,
		Fields: variants,
	}, true
}

func (p *parser) parseConst() (Header, bool) {
	kw := p.advance() // 'const'
	name, ok := p.expect(token.Ident, "constant name")
	if !ok {
		return Header{}, false
	}
	var typeTk []token.Token
	if p.peek().Kind == token.Colon {
		p.advance()
		start := p.pos
		p.skipTypeExpr()
		typeTk = p.stream.Tokens[start:p.pos]
	}
	if _, ok := p.expect(token.Assign, "'='"); !ok {
		return Header{}, false
	}
	valStart := p.pos
	for !p.atEnd() && p.peek().Kind != token.Semicolon {
		p.advance()
	}
	body := p.stream.Tokens[valStart:p.pos]
	end := p.peek().Span
	if p.peek().Kind == token.Semicolon {
		end = p.advance().Span
	} else {
		p.report(diag.SynMalformedHeader, kw.Span, "expected ';' after constant initializer")
	}
	return Header{
		Kind:   KindConstant,
		Name:   name.Text,
		Span:   kw.Span.Cover(end),
		File:   p.stream.File,
		Result: typeTk,
		Body:   body,
	}, true
}
