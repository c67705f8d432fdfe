package parser

import "github.com/restify-go/restify/rest"

// The validation chain sub-parser handles the nested grammar inside
// validate(...): a comma-delimited action sequence terminating at the
// parent's closing delimiter. An empty chain and a trailing comma are both
// syntax errors.

func (p *Parser) parseValidateAttr(body *Cursor) (*rest.ValidateChain, *rest.Error) {
	args, err := body.Rebase(TokenLParen)
	if err != nil {
		return nil, err
	}
	return p.parseValidateChain(args)
}

func (p *Parser) parseValidateChain(cur *Cursor) (*rest.ValidateChain, *rest.Error) {
	if cur.AtEnd() {
		return nil, rest.Syntaxf(cur.Peek().Span.Start, "validate requires at least one action")
	}
	chain := &rest.ValidateChain{}
	for {
		action, err := p.parseValidateAction(cur)
		if err != nil {
			return nil, err
		}
		chain.Actions = append(chain.Actions, *action)
		if cur.AtEnd() {
			return chain, nil
		}
		if _, err := cur.Expect(TokenComma); err != nil {
			return nil, err
		}
		if cur.AtEnd() {
			return nil, rest.Syntaxf(cur.Peek().Span.Start, "trailing comma in validate chain")
		}
	}
}

func (p *Parser) parseValidateAction(cur *Cursor) (*rest.ValidateAction, *rest.Error) {
	name, err := cur.ExpectIdent()
	if err != nil {
		return nil, err
	}
	pos := name.Span.Start

	switch name.Literal {
	case "required":
		return &rest.ValidateAction{Kind: rest.ActionRequired, Pos: pos}, nil
	case "email":
		return &rest.ValidateAction{Kind: rest.ActionEmail, Pos: pos}, nil
	case "range":
		return p.parseRangeAction(cur, pos)
	case "regex":
		pattern, err := p.parseAssignedString(cur, "regex")
		if err != nil {
			return nil, err
		}
		return &rest.ValidateAction{Kind: rest.ActionRegex, Pos: pos, Pattern: pattern}, nil
	case "custom":
		ref, err := p.parseAssignedString(cur, "custom")
		if err != nil {
			return nil, err
		}
		return &rest.ValidateAction{Kind: rest.ActionCustom, Pos: pos, Pattern: ref}, nil
	}
	return nil, rest.Syntaxf(pos, "unknown validate action %q", name.Literal)
}

// parseRangeAction parses range(min: <int>, max: <int>). min must precede
// max; either bound may be omitted alone; duplicates are rejected.
func (p *Parser) parseRangeAction(cur *Cursor, pos rest.Position) (*rest.ValidateAction, *rest.Error) {
	args, err := cur.Rebase(TokenLParen)
	if err != nil {
		return nil, err
	}

	action := &rest.ValidateAction{Kind: rest.ActionRange, Pos: pos}

	first, err := args.ExpectIdent()
	if err != nil {
		return nil, rest.Syntaxf(args.Peek().Span.Start, "range must start with a min or max bound")
	}
	switch first.Literal {
	case "min":
		value, _, verr := p.parseRangeBound(args)
		if verr != nil {
			return nil, verr
		}
		action.Min = &value
		if args.AtEnd() {
			return action, nil
		}
		if _, err := args.Expect(TokenComma); err != nil {
			return nil, err
		}
		second, err := args.ExpectIdent()
		if err != nil {
			return nil, err
		}
		if second.Literal == "min" {
			return nil, rest.Semanticf(second.Span.Start, "duplicate \"min\" bound in range")
		}
		if second.Literal != "max" {
			return nil, rest.Syntaxf(second.Span.Start, "unknown range bound %q", second.Literal)
		}
		max, _, verr := p.parseRangeBound(args)
		if verr != nil {
			return nil, verr
		}
		action.Max = &max
	case "max":
		value, _, verr := p.parseRangeBound(args)
		if verr != nil {
			return nil, verr
		}
		action.Max = &value
		if !args.AtEnd() {
			if _, err := args.Expect(TokenComma); err != nil {
				return nil, err
			}
			second, err := args.ExpectIdent()
			if err != nil {
				return nil, err
			}
			if second.Literal == "max" {
				return nil, rest.Semanticf(second.Span.Start, "duplicate \"max\" bound in range")
			}
			if second.Literal == "min" {
				return nil, rest.Semanticf(second.Span.Start, "\"min\" must precede \"max\" in range")
			}
			return nil, rest.Syntaxf(second.Span.Start, "unknown range bound %q", second.Literal)
		}
	default:
		return nil, rest.Syntaxf(first.Span.Start, "unknown range bound %q", first.Literal)
	}

	if !args.AtEnd() {
		tok := args.Peek()
		return nil, rest.Syntaxf(tok.Span.Start, "unexpected %q after range bounds", tok.Literal)
	}
	return action, nil
}

// parseRangeBound parses the `: <int>` tail of one bound. The colon form is
// strict: an = here is a syntax error.
func (p *Parser) parseRangeBound(cur *Cursor) (int64, rest.Position, *rest.Error) {
	if _, err := cur.Expect(TokenColon); err != nil {
		return 0, cur.Peek().Span.Start, err
	}
	return cur.ExpectInt()
}
