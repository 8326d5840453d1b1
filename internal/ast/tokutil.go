package ast

import "beanstalk/internal/token"

// splitTopLevelCommas splits toks on commas that appear at bracket/paren/
// brace depth 0, the same convention header.parseParams uses for parameter
// lists. A trailing comma yields no empty final group.
func splitTopLevelCommas(toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	depth := 0
	start := 0
	for i, t := range toks {
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.Comma:
			if depth == 0 {
				groups = append(groups, toks[start:i])
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		groups = append(groups, toks[start:])
	}
	return groups
}
