package parser

import (
	"github.com/restify-go/restify/rest"
)

// Attribute lists are parsed context-agnostically against one of the two
// closed vocabularies; placement legality is enforced by the attribute
// compiler.

// parseRecordAttrs consumes zero or more #[...] annotations in record
// context.
func (p *Parser) parseRecordAttrs(cur *Cursor) ([]rest.RecordAttr, *rest.Error) {
	var attrs []rest.RecordAttr
	for {
		body, pos, err := p.openAttribute(cur)
		if err != nil {
			return nil, err
		}
		if body == nil {
			return attrs, nil
		}
		attr, err := p.parseRecordAttr(body, pos)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, *attr)
	}
}

// parseFieldAttrs consumes zero or more #[...] annotations in field context.
func (p *Parser) parseFieldAttrs(cur *Cursor) ([]rest.FieldAttr, *rest.Error) {
	var attrs []rest.FieldAttr
	for {
		body, pos, err := p.openAttribute(cur)
		if err != nil {
			return nil, err
		}
		if body == nil {
			return attrs, nil
		}
		attr, err := p.parseFieldAttr(body, pos)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, *attr)
	}
}

// openAttribute returns a cursor over the bracketed attribute body, or nil
// when the next token is not the attribute-opening marker. The nil return is
// what lets callers run "zero or more attributes" loops.
func (p *Parser) openAttribute(cur *Cursor) (*Cursor, rest.Position, *rest.Error) {
	if !cur.Check(TokenHash) {
		return nil, rest.Position{}, nil
	}
	hash := cur.Advance()
	body, err := cur.Rebase(TokenLBracket)
	if err != nil {
		return nil, rest.Position{}, err
	}
	return body, hash.Span.Start, nil
}

func (p *Parser) parseRecordAttr(body *Cursor, pos rest.Position) (*rest.RecordAttr, *rest.Error) {
	name, err := body.ExpectIdent()
	if err != nil {
		return nil, err
	}

	var attr *rest.RecordAttr
	switch name.Literal {
	case "rename_all":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrRenameAll, Value: value}
	case "derive":
		idents, err2 := p.parseDeriveList(body)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrDerive, Derives: idents}
	case "builder":
		attr = &rest.RecordAttr{Kind: rest.AttrBuilder}
	case "async":
		attr = &rest.RecordAttr{Kind: rest.AttrAsync}
	case "remote":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrRemote, Value: value}
	case "getter":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrGetter, Value: value}
	case "validate":
		chain, err2 := p.parseValidateAttr(body)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrRecordValidate, Chain: chain}
	case "log":
		calls, err2 := p.parseLogAttr(body)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.RecordAttr{Kind: rest.AttrRecordLog, Logs: calls}
	default:
		return nil, rest.Syntaxf(name.Span.Start, "unknown attribute %q", name.Literal)
	}

	if err := p.requireExhausted(body, name.Literal); err != nil {
		return nil, err
	}
	attr.Pos = pos
	return attr, nil
}

func (p *Parser) parseFieldAttr(body *Cursor, pos rest.Position) (*rest.FieldAttr, *rest.Error) {
	name, err := body.ExpectIdent()
	if err != nil {
		return nil, err
	}

	var attr *rest.FieldAttr
	switch name.Literal {
	case "rename":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrRename, Value: value, HasValue: true}
	case "default":
		// Bare form fills with the zero value; the assigned form names a
		// fill function.
		attr = &rest.FieldAttr{Kind: rest.AttrDefault}
		if !body.AtEnd() {
			value, err2 := p.parseAssignedString(body, name.Literal)
			if err2 != nil {
				return nil, err2
			}
			attr.Value = value
			attr.HasValue = true
		}
	case "skip_if":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrSkipIf, Value: value, HasValue: true}
	case "flatten":
		attr = &rest.FieldAttr{Kind: rest.AttrFlatten}
	case "borrow":
		attr = &rest.FieldAttr{Kind: rest.AttrBorrow}
	case "bound":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrBound, Value: value, HasValue: true}
	case "serialize_with":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrSerializeWith, Value: value, HasValue: true}
	case "deserialize_with":
		value, err2 := p.parseAssignedString(body, name.Literal)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrDeserializeWith, Value: value, HasValue: true}
	case "validate":
		chain, err2 := p.parseValidateAttr(body)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrFieldValidate, Chain: chain}
	case "log":
		calls, err2 := p.parseLogAttr(body)
		if err2 != nil {
			return nil, err2
		}
		attr = &rest.FieldAttr{Kind: rest.AttrFieldLog, Logs: calls}
	default:
		return nil, rest.Syntaxf(name.Span.Start, "unknown attribute %q", name.Literal)
	}

	if err := p.requireExhausted(body, name.Literal); err != nil {
		return nil, err
	}
	attr.Pos = pos
	return attr, nil
}

// parseAssignedString parses the `= "value"` tail shared by most attributes.
func (p *Parser) parseAssignedString(body *Cursor, attrName string) (string, *rest.Error) {
	if _, err := body.Expect(TokenAssign); err != nil {
		return "", rest.Syntaxf(body.Peek().Span.Start, "attribute %q requires = followed by a string", attrName)
	}
	value, pos, err := body.ExpectString()
	if err != nil {
		return "", rest.Syntaxf(pos, "attribute %q requires a string value", attrName)
	}
	return value, nil
}

// parseDeriveList parses the parenthesized, comma-delimited identifier list
// of a derive attribute.
func (p *Parser) parseDeriveList(body *Cursor) ([]string, *rest.Error) {
	list, err := body.Rebase(TokenLParen)
	if err != nil {
		return nil, err
	}
	if list.AtEnd() {
		return nil, rest.Syntaxf(list.Peek().Span.Start, "derive requires at least one identifier")
	}
	var idents []string
	for {
		ident, err := list.ExpectIdent()
		if err != nil {
			return nil, err
		}
		idents = append(idents, ident.Literal)
		if list.AtEnd() {
			return idents, nil
		}
		if _, err := list.Expect(TokenComma); err != nil {
			return nil, err
		}
		if list.AtEnd() {
			return nil, rest.Syntaxf(list.Peek().Span.Start, "trailing comma in derive list")
		}
	}
}

// parseLogAttr parses log(level = "template", ...).
func (p *Parser) parseLogAttr(body *Cursor) ([]rest.LogCall, *rest.Error) {
	args, err := body.Rebase(TokenLParen)
	if err != nil {
		return nil, err
	}
	if args.AtEnd() {
		return nil, rest.Syntaxf(args.Peek().Span.Start, "log requires at least one level")
	}
	var calls []rest.LogCall
	for {
		ident, err := args.ExpectIdent()
		if err != nil {
			return nil, err
		}
		level, ok := rest.LogLevelFromName(ident.Literal)
		if !ok {
			return nil, rest.Syntaxf(ident.Span.Start, "unknown log level %q", ident.Literal)
		}
		if _, err := args.Expect(TokenAssign); err != nil {
			return nil, err
		}
		format, pos, serr := args.ExpectString()
		if serr != nil {
			return nil, serr
		}
		calls = append(calls, rest.LogCall{Level: level, Format: format, Pos: pos})
		if args.AtEnd() {
			return calls, nil
		}
		if _, err := args.Expect(TokenComma); err != nil {
			return nil, err
		}
		if args.AtEnd() {
			return nil, rest.Syntaxf(args.Peek().Span.Start, "trailing comma in log attribute")
		}
	}
}

// requireExhausted rejects leftover tokens after an attribute body parsed.
func (p *Parser) requireExhausted(body *Cursor, attrName string) *rest.Error {
	if body.AtEnd() {
		return nil
	}
	tok := body.Peek()
	return rest.Syntaxf(tok.Span.Start, "unexpected %q after attribute %q", tok.Literal, attrName)
}
