package header

import (
	"beanstalk/internal/diag"
	"beanstalk/internal/source"
	"beanstalk/internal/token"
)

// parser is a minimal token-window scanner: it tracks top-level structure
// (matching delimiters) without building any expression tree. Bodies are
// captured as raw token slices (§4.3: "treats bodies as opaque token
// windows").
type parser struct {
	stream   *token.Stream
	pos      int
	reporter diag.Reporter
}

func (p *parser) atEnd() bool { return p.pos >= p.stream.Len() || p.peek().Kind == token.EOF }

func (p *parser) peek() token.Token { return p.stream.At(p.pos) }

func (p *parser) peekAt(offset int) token.Token { return p.stream.At(p.pos + offset) }

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < p.stream.Len() {
		p.pos++
	}
	return t
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	if p.reporter != nil {
		p.reporter.Report(diag.Syntax(code, sp, msg))
	}
}

// expect consumes a token of kind k, reporting a diagnostic and returning
// false if the current token doesn't match.
func (p *parser) expect(k token.Kind, what string) (token.Token, bool) {
	t := p.peek()
	if t.Kind != k {
		p.report(diag.SynMalformedHeader, t.Span, "expected "+what)
		return t, false
	}
	return p.advance(), true
}

// skipBalanced consumes tokens from the current position (which must be an
// opening delimiter open) through its matching closer, returning the full
// span and the token window strictly between the delimiters.
func (p *parser) skipBalanced(open, closer token.Kind) (source.Span, []token.Token, bool) {
	startTok, ok := p.expect(open, "'"+open.String()+"'")
	if !ok {
		return source.Span{}, nil, false
	}
	depth := 1
	bodyStart := p.pos
	for depth > 0 {
		if p.atEnd() {
			p.report(diag.SynUnterminatedTokens, startTok.Span, "unterminated block")
			return startTok.Span, p.stream.Tokens[bodyStart:p.pos], false
		}
		t := p.peek()
		switch t.Kind {
		case open:
			depth++
		case closer:
			depth--
		}
		p.advance()
	}
	body := p.stream.Tokens[bodyStart : p.pos-1]
	fullSpan := startTok.Span.Cover(p.stream.Tokens[p.pos-1].Span)
	return fullSpan, body, true
}

// skipStatement consumes tokens up to (and including) the next top-level
// ';' or a balanced '{...}' block, whichever comes first, returning the
// consumed span. It is used to aggregate unrecognized top-level code into
// the synthetic StartFunction body.
func (p *parser) skipStatement() source.Span {
	start := p.peek()
	span := start.Span
	depth := 0
	for !p.atEnd() {
		t := p.peek()
		switch t.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				span = span.Cover(t.Span)
				return span
			}
			depth--
		case token.Semicolon:
			if depth == 0 {
				span = span.Cover(t.Span)
				p.advance()
				return span
			}
		}
		span = span.Cover(t.Span)
		p.advance()
		if depth == 0 {
			switch t.Kind {
			case token.RBrace:
				return span
			}
		}
	}
	return span
}
