// Package parser turns REST declaration text into the typed model of the
// rest package. Parsing is recursive descent over an immutable token slice;
// alternative productions are tried with cheap cursor snapshots, never by
// re-lexing. The first grammar violation aborts the whole parse.
package parser

import (
	"strings"

	"github.com/restify-go/restify/rest"
)

type Option func(*Parser)

// WithFile sets the file name reported in positions.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

type Parser struct {
	file string
}

// ParseDeclaration lexes and parses one declaration.
func ParseDeclaration(src []byte, opts ...Option) ([]*rest.EndpointGroup, error) {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	tokens := Tokenize(src, p.file)
	return p.parse(NewCursor(tokens))
}

// ParseTokens parses an already-tokenized declaration stream.
func ParseTokens(tokens []Token, opts ...Option) ([]*rest.EndpointGroup, error) {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p.parse(NewCursor(tokens))
}

func (p *Parser) parse(cur *Cursor) ([]*rest.EndpointGroup, error) {
	groups, err := p.parseGroups(cur)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if cerr := rest.CheckGroup(g); cerr != nil {
			return nil, cerr
		}
	}
	return groups, nil
}

// parseGroups parses the comma-separated bracketed group list.
func (p *Parser) parseGroups(cur *Cursor) ([]*rest.EndpointGroup, *rest.Error) {
	var groups []*rest.EndpointGroup
	for !cur.Check(TokenEOF) {
		if len(groups) > 0 {
			if _, err := cur.Expect(TokenComma); err != nil {
				return nil, rest.Syntaxf(cur.Peek().Span.Start, "endpoint groups must be comma-delimited")
			}
			if cur.Check(TokenEOF) {
				return nil, rest.Syntaxf(cur.Peek().Span.Start, "trailing comma after endpoint group")
			}
		}
		attrs, err := p.parseRecordAttrs(cur)
		if err != nil {
			return nil, err
		}
		region, err := cur.Rebase(TokenLBracket)
		if err != nil {
			return nil, err
		}
		group, err := p.parseGroup(region)
		if err != nil {
			return nil, err
		}
		if !region.AtEnd() {
			tok := region.Peek()
			return nil, rest.Syntaxf(tok.Span.Start, "unexpected %q after endpoint group %q", tok.Literal, group.Name)
		}
		group.Attrs = attrs
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil, rest.Syntaxf(cur.Peek().Span.Start, "declaration requires at least one endpoint group")
	}
	return groups, nil
}

func (p *Parser) parseGroup(cur *Cursor) (*rest.EndpointGroup, *rest.Error) {
	group := &rest.EndpointGroup{}
	if cur.Check(TokenPub) {
		cur.Advance()
		group.Vis = rest.VisPublic
	}
	name, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	group.Name = name.Literal
	group.NamePos = name.Span.Start

	if _, err := cur.Expect(TokenColon); err != nil {
		return nil, err
	}
	body, err := cur.Rebase(TokenLBrace)
	if err != nil {
		return nil, err
	}
	for !body.AtEnd() {
		method, err := p.parseMethod(body)
		if err != nil {
			return nil, err
		}
		group.Methods = append(group.Methods, method)
	}
	if len(group.Methods) == 0 {
		return nil, rest.Syntaxf(body.Peek().Span.Start, "endpoint group %q declares no methods", group.Name)
	}
	return group, nil
}

func (p *Parser) parseMethod(cur *Cursor) (*rest.EndpointMethod, *rest.Error) {
	verb, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if !rest.Verbs[verb.Literal] {
		return nil, rest.Semanticf(verb.Span.Start, "invalid HTTP verb %q", verb.Literal)
	}
	uri, _, err := cur.ExpectString()
	if err != nil {
		return nil, err
	}
	if _, err := cur.Expect(TokenFatArrow); err != nil {
		return nil, err
	}
	body, err := cur.Rebase(TokenLBrace)
	if err != nil {
		return nil, err
	}

	method := &rest.EndpointMethod{
		Verb:    verb.Literal,
		VerbPos: verb.Span.Start,
		URI:     uri,
	}
	for !body.AtEnd() {
		dt, err := p.parseDataType(body)
		if err != nil {
			return nil, err
		}
		method.Types = append(method.Types, dt)
	}
	if len(method.Types) == 0 {
		return nil, rest.Syntaxf(body.Peek().Span.Start, "method %s %q declares no data types", method.Verb, method.URI)
	}
	return method, nil
}

func (p *Parser) parseDataType(cur *Cursor) (rest.DataType, *rest.Error) {
	attrs, err := p.parseRecordAttrs(cur)
	if err != nil {
		return nil, err
	}
	tok := cur.Peek()
	switch tok.Kind {
	case TokenStruct:
		cur.Advance()
		return p.parseRecord(cur, attrs)
	case TokenEnum:
		cur.Advance()
		return p.parseVariantSet(cur, attrs)
	}
	return nil, &rest.Error{
		Kind:     rest.SyntaxError,
		Pos:      tok.Span.Start,
		Msg:      "expected a data type declaration",
		Expected: []string{TokenStruct.String(), TokenEnum.String()},
		Got:      tok.Literal,
	}
}

func (p *Parser) parseRecord(cur *Cursor, attrs []rest.RecordAttr) (*rest.Record, *rest.Error) {
	name, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	rec := &rest.Record{
		Attrs:   attrs,
		Name:    name.Literal,
		NamePos: name.Span.Start,
	}

	// A role tag may follow the name: struct Custom<Response> { ... }.
	if cur.Check(TokenLT) {
		cur.Advance()
		roleTok, err := cur.Expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		role, ok := rest.RoleFromName(roleTok.Literal)
		if !ok {
			return nil, rest.Semanticf(roleTok.Span.Start, "invalid role %q", roleTok.Literal)
		}
		if _, err := cur.Expect(TokenGT); err != nil {
			return nil, err
		}
		rec.Role = role
	} else {
		// The bare name must itself be one of the recognized roles.
		role, ok := rest.RoleFromName(rec.Name)
		if !ok {
			return nil, rest.Semanticf(name.Span.Start, "record name %q is not a role; name it after one or add an explicit <Role> tag", rec.Name)
		}
		rec.Role = role
	}

	body, err := cur.Rebase(TokenLBrace)
	if err != nil {
		return nil, err
	}
	fields, ferr := p.parseFields(body)
	if ferr != nil {
		return nil, ferr
	}
	rec.Fields = fields
	return rec, nil
}

func (p *Parser) parseFields(cur *Cursor) ([]*rest.Field, *rest.Error) {
	var fields []*rest.Field
	for !cur.AtEnd() {
		field, err := p.parseField(cur)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (p *Parser) parseField(cur *Cursor) (*rest.Field, *rest.Error) {
	attrs, err := p.parseFieldAttrs(cur)
	if err != nil {
		return nil, err
	}
	name, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := cur.Expect(TokenColon); err != nil {
		return nil, err
	}
	field := &rest.Field{
		Attrs:   attrs,
		Name:    name.Literal,
		NamePos: name.Span.Start,
	}
	if cur.Check(TokenQuestion) {
		cur.Advance()
		field.Optional = true
	}
	typ, terr := p.parseTypeRef(cur)
	if terr != nil {
		return nil, terr
	}
	field.Type = typ
	if cur.Check(TokenComma) {
		cur.Advance()
	}
	return field, nil
}

// parseTypeRef consumes an opaque type reference: a possibly qualified
// identifier with optional angle-bracketed arguments. The core does not
// interpret the symbol; it is carried to the emitter verbatim.
func (p *Parser) parseTypeRef(cur *Cursor) (string, *rest.Error) {
	var b strings.Builder
	ident, err := cur.Expect(TokenIdent)
	if err != nil {
		return "", err
	}
	b.WriteString(ident.Literal)
	for cur.Check(TokenColonColon) {
		cur.Advance()
		b.WriteString("::")
		next, err := cur.Expect(TokenIdent)
		if err != nil {
			return "", err
		}
		b.WriteString(next.Literal)
	}
	if cur.Check(TokenLT) {
		cur.Advance()
		b.WriteString("<")
		arg, err := p.parseTypeRef(cur)
		if err != nil {
			return "", err
		}
		b.WriteString(arg)
		for cur.Check(TokenComma) {
			cur.Advance()
			b.WriteString(", ")
			arg, err := p.parseTypeRef(cur)
			if err != nil {
				return "", err
			}
			b.WriteString(arg)
		}
		if _, err := cur.Expect(TokenGT); err != nil {
			return "", err
		}
		b.WriteString(">")
	}
	return b.String(), nil
}

func (p *Parser) parseVariantSet(cur *Cursor, attrs []rest.RecordAttr) (*rest.VariantSet, *rest.Error) {
	name, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := cur.Expect(TokenColon); err != nil {
		return nil, err
	}
	body, err := cur.Rebase(TokenLBrace)
	if err != nil {
		return nil, err
	}

	set := &rest.VariantSet{
		Attrs:   attrs,
		Name:    name.Literal,
		NamePos: name.Span.Start,
	}
	for !body.AtEnd() {
		variant, err := p.parseVariant(body)
		if err != nil {
			return nil, err
		}
		set.Variants = append(set.Variants, variant)
	}
	if len(set.Variants) == 0 {
		return nil, rest.Syntaxf(body.Peek().Span.Start, "variant set %q declares no variants", set.Name)
	}
	return set, nil
}

// parseVariant decides among the three payload shapes by peeking at the
// token after the variant name: a comma ends a bare variant, a paren opens a
// tuple payload, a brace opens a field group.
func (p *Parser) parseVariant(cur *Cursor) (*rest.Variant, *rest.Error) {
	attrs, err := p.parseFieldAttrs(cur)
	if err != nil {
		return nil, err
	}
	name, err := cur.Expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	variant := &rest.Variant{
		Attrs:   attrs,
		Name:    name.Literal,
		NamePos: name.Span.Start,
	}

	tok := cur.Peek()
	switch tok.Kind {
	case TokenComma:
		cur.Advance()
		return variant, nil
	case TokenEOF:
		// Last variant may omit its trailing comma.
		return variant, nil
	case TokenLParen:
		payload, err := cur.Rebase(TokenLParen)
		if err != nil {
			return nil, err
		}
		if payload.Check(TokenQuestion) {
			payload.Advance()
			variant.TupleOptional = true
		}
		typ, terr := p.parseTypeRef(payload)
		if terr != nil {
			return nil, terr
		}
		if !payload.AtEnd() {
			extra := payload.Peek()
			return nil, rest.Syntaxf(extra.Span.Start, "unexpected %q in tuple payload of variant %q", extra.Literal, variant.Name)
		}
		variant.Payload = rest.PayloadTuple
		variant.TupleType = typ
	case TokenLBrace:
		body, err := cur.Rebase(TokenLBrace)
		if err != nil {
			return nil, err
		}
		fields, ferr := p.parseFields(body)
		if ferr != nil {
			return nil, ferr
		}
		variant.Payload = rest.PayloadStruct
		variant.Fields = fields
	default:
		return nil, &rest.Error{
			Kind:     rest.SyntaxError,
			Pos:      tok.Span.Start,
			Msg:      "malformed variant",
			Expected: []string{TokenComma.String(), TokenLParen.String(), TokenLBrace.String()},
			Got:      tok.Literal,
		}
	}

	if cur.Check(TokenComma) {
		cur.Advance()
	} else if !cur.AtEnd() {
		next := cur.Peek()
		return nil, rest.Syntaxf(next.Span.Start, "variants must be comma-delimited, found %q", next.Literal)
	}
	return variant, nil
}
