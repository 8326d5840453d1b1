package ast

import (
	"fmt"

	"beanstalk/internal/diag"
	"beanstalk/internal/header"
	"beanstalk/internal/token"
	"beanstalk/internal/types"
)

// resolveStructFields parses h.Fields as a comma-separated `name: Type`
// list and backfills both the StructDecl and the interned struct Type
// (§3: "struct fields may not themselves store references").
func (b *Builder) resolveStructFields(name string, h header.Header) {
	decl := b.structDecls[name]
	if decl == nil {
		return
	}
	groups := splitTopLevelCommas(h.Fields)
	fields := make([]StructField, 0, len(groups))
	tfields := make([]types.StructField, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if g[0].Kind != token.Ident {
			b.report(diag.Syntax(diag.SynMalformedHeader, g[0].Span, "expected field name"))
			continue
		}
		fieldName := g[0].Text
		if len(g) < 2 || g[1].Kind != token.Colon {
			b.report(diag.Syntax(diag.SynMalformedHeader, g[0].Span, fmt.Sprintf("expected ':' after field %q", fieldName)))
			continue
		}
		typ := b.resolveTypeExpr(g[2:])
		if t, ok := b.Types.Lookup(typ); ok && t.Kind == types.KindReference {
			b.report(diag.Rule(diag.RuleReferenceField, g[0].Span, fmt.Sprintf("struct field %q may not store a reference", fieldName)))
			continue
		}
		fields = append(fields, StructField{Name: fieldName, Type: typ, Span: g[0].Span})
		tfields = append(tfields, types.StructField{Name: fieldName, Type: typ})
	}
	decl.Fields = fields
	b.Types.SetFields(decl.Type, tfields)
}

// resolveChoiceFields parses h.Fields as a comma-separated variant list,
// each variant either a bare name or `Name(Type)`.
func (b *Builder) resolveChoiceFields(name string, h header.Header) {
	decl := b.choiceDecls[name]
	if decl == nil {
		return
	}
	groups := splitTopLevelCommas(h.Fields)
	variants := make([]ChoiceVariant, 0, len(groups))
	tvariants := make([]types.ChoiceVariant, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		if g[0].Kind != token.Ident {
			b.report(diag.Syntax(diag.SynMalformedHeader, g[0].Span, "expected variant name"))
			continue
		}
		variantName := g[0].Text
		var payload types.TypeID
		hasPayload := false
		if len(g) > 1 {
			if g[1].Kind != token.LParen || g[len(g)-1].Kind != token.RParen {
				b.report(diag.Syntax(diag.SynMalformedHeader, g[0].Span, fmt.Sprintf("malformed payload for variant %q", variantName)))
			} else {
				hasPayload = true
				payload = b.resolveTypeExpr(g[2 : len(g)-1])
			}
		}
		variants = append(variants, ChoiceVariant{Name: variantName, HasPayload: hasPayload, Payload: payload, Span: g[0].Span})
		tvariants = append(tvariants, types.ChoiceVariant{Name: variantName, HasPayload: hasPayload, Payload: payload})
	}
	decl.Variants = variants
	b.Types.SetVariants(decl.Type, tvariants)
}
