package jsparser

import (
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jslexer"
)

func (p *Parser) parseExpr() jsast.Expr {
	first := p.parseAssign()
	if p.tok().Kind != jslexer.TComma {
		return first
	}
	exprs := []jsast.Expr{first}
	for p.tok().Kind == jslexer.TComma {
		p.next()
		exprs = append(exprs, p.parseAssign())
	}
	return jsast.Expr{Loc: first.Loc, Data: jsast.ESequence{Exprs: exprs}}
}

// parseExprNoIn is used for a for-loop head's init clause, where a bare
// `in` must end the expression rather than be parsed as the `in`
// operator (so `for (x in y)` is not swallowed as a binary expression).
func (p *Parser) parseExprNoIn() jsast.Expr {
	p.noIn = true
	e := p.parseExpr()
	p.noIn = false
	return e
}

var assignOps = map[jslexer.T]jsast.Token{
	jslexer.TEquals:                      jsast.Assign,
	jslexer.TPlusEquals:                  jsast.AddAssign,
	jslexer.TMinusEquals:                 jsast.SubAssign,
	jslexer.TStarEquals:                  jsast.MulAssign,
	jslexer.TSlashEquals:                 jsast.DivAssign,
	jslexer.TPercentEquals:               jsast.ModAssign,
	jslexer.TStarStarEquals:              jsast.PowAssign,
	jslexer.TLessLessEquals:              jsast.ShlAssign,
	jslexer.TGreaterGreaterEquals:        jsast.ShrAssign,
	jslexer.TGreaterGreaterGreaterEquals: jsast.UShrAssign,
	jslexer.TAmpersandEquals:             jsast.BitAndAssign,
	jslexer.TBarEquals:                   jsast.BitOrAssign,
	jslexer.TCaretEquals:                 jsast.BitXorAssign,
	jslexer.TAmpersandAmpersandEquals:    jsast.LogicalAndAssign,
	jslexer.TBarBarEquals:                jsast.LogicalOrAssign,
	jslexer.TQuestionQuestionEquals:      jsast.NullishAssign,
}

func (p *Parser) parseAssign() jsast.Expr {
	if p.isKeyword("yield") {
		return p.parseYield()
	}
	if arrow, ok := p.tryParseArrow(); ok {
		return arrow
	}
	left := p.parseConditional()
	if op, ok := assignOps[p.tok().Kind]; ok {
		p.next()
		right := p.parseAssign()
		return jsast.Expr{Loc: left.Loc, Data: jsast.EAssign{Op: op, Target: left, Value: right}}
	}
	return left
}

func (p *Parser) parseYield() jsast.Expr {
	at := p.loc()
	p.next()
	delegate := false
	if p.tok().Kind == jslexer.TStar {
		delegate = true
		p.next()
	}
	var val *jsast.Expr
	if p.tok().Kind != jslexer.TSemicolon && p.tok().Kind != jslexer.TCloseParen &&
		p.tok().Kind != jslexer.TCloseBrace && p.tok().Kind != jslexer.TCloseBracket &&
		p.tok().Kind != jslexer.TComma && p.tok().Kind != jslexer.TEOF && !p.tok().HasNewlineBefore {
		e := p.parseAssign()
		val = &e
	}
	return jsast.Expr{Loc: at, Data: jsast.EYield{Value: val, Delegate: delegate}}
}

func (p *Parser) parseConditional() jsast.Expr {
	test := p.parseBinary(1)
	if p.tok().Kind != jslexer.TQuestion {
		return test
	}
	p.next()
	yes := p.parseAssign()
	p.expect(jslexer.TColon, "':'")
	no := p.parseAssign()
	return jsast.Expr{Loc: test.Loc, Data: jsast.EConditional{Test: test, Yes: yes, No: no}}
}

type binOp struct {
	tok   jsast.Token
	prec  int
	right bool
}

func (p *Parser) peekBinOp() (binOp, bool) {
	t := p.tok()
	switch t.Kind {
	case jslexer.TBarBar:
		return binOp{jsast.LogicalOr, 1, false}, true
	case jslexer.TQuestionQuestion:
		return binOp{jsast.Nullish, 1, false}, true
	case jslexer.TAmpersandAmpersand:
		return binOp{jsast.LogicalAnd, 2, false}, true
	case jslexer.TBar:
		return binOp{jsast.BitOr, 3, false}, true
	case jslexer.TCaret:
		return binOp{jsast.BitXor, 4, false}, true
	case jslexer.TAmpersand:
		return binOp{jsast.BitAnd, 5, false}, true
	case jslexer.TEqualsEquals:
		return binOp{jsast.EqEq, 6, false}, true
	case jslexer.TExclamationEquals:
		return binOp{jsast.NotEq, 6, false}, true
	case jslexer.TEqualsEqualsEquals:
		return binOp{jsast.EqEqEq, 6, false}, true
	case jslexer.TExclamationEqualsEquals:
		return binOp{jsast.NotEqEq, 6, false}, true
	case jslexer.TLessThan:
		return binOp{jsast.Lt, 7, false}, true
	case jslexer.TLessThanEquals:
		return binOp{jsast.Le, 7, false}, true
	case jslexer.TGreaterThan:
		return binOp{jsast.Gt, 7, false}, true
	case jslexer.TGreaterThanEquals:
		return binOp{jsast.Ge, 7, false}, true
	case jslexer.TLessLess:
		return binOp{jsast.Shl, 8, false}, true
	case jslexer.TGreaterGreater:
		return binOp{jsast.Shr, 8, false}, true
	case jslexer.TGreaterGreaterGreater:
		return binOp{jsast.UShr, 8, false}, true
	case jslexer.TPlus:
		return binOp{jsast.Add, 9, false}, true
	case jslexer.TMinus:
		return binOp{jsast.Sub, 9, false}, true
	case jslexer.TStar:
		return binOp{jsast.Mul, 10, false}, true
	case jslexer.TSlash:
		return binOp{jsast.Div, 10, false}, true
	case jslexer.TPercent:
		return binOp{jsast.Mod, 10, false}, true
	case jslexer.TStarStar:
		return binOp{jsast.Pow, 11, true}, true
	case jslexer.TKeyword:
		if t.Raw == "instanceof" {
			return binOp{jsast.InstanceOf, 7, false}, true
		}
		if t.Raw == "in" && !p.noIn {
			return binOp{jsast.In, 7, false}, true
		}
	}
	return binOp{}, false
}

func (p *Parser) parseBinary(minPrec int) jsast.Expr {
	left := p.parseUnary()
	for {
		op, ok := p.peekBinOp()
		if !ok || op.prec < minPrec {
			return left
		}
		p.next()
		nextMin := op.prec + 1
		if op.right {
			nextMin = op.prec
		}
		right := p.parseBinary(nextMin)
		left = jsast.Expr{Loc: left.Loc, Data: jsast.EBinary{Op: op.tok, Left: left, Right: right}}
	}
}

func (p *Parser) parseUnary() jsast.Expr {
	at := p.loc()
	switch p.tok().Kind {
	case jslexer.TExclamation:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Not, Value: p.parseUnary()}}
	case jslexer.TTilde:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.BitNot, Value: p.parseUnary()}}
	case jslexer.TPlus:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Pos, Value: p.parseUnary()}}
	case jslexer.TMinus:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Neg, Value: p.parseUnary()}}
	case jslexer.TPlusPlus:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUpdate{Op: jsast.Inc, Value: p.parseUnary(), Prefix: true}}
	case jslexer.TMinusMinus:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EUpdate{Op: jsast.Dec, Value: p.parseUnary(), Prefix: true}}
	case jslexer.TKeyword:
		switch p.tok().Raw {
		case "typeof":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Typeof, Value: p.parseUnary()}}
		case "void":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Void, Value: p.parseUnary()}}
		case "delete":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EUnary{Op: jsast.Delete, Value: p.parseUnary()}}
		case "await":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EAwait{Value: p.parseUnary()}}
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() jsast.Expr {
	e := p.parseCallMemberChain(p.parsePrimary())
	if (p.tok().Kind == jslexer.TPlusPlus || p.tok().Kind == jslexer.TMinusMinus) && !p.tok().HasNewlineBefore {
		op := jsast.Inc
		if p.tok().Kind == jslexer.TMinusMinus {
			op = jsast.Dec
		}
		p.next()
		return jsast.Expr{Loc: e.Loc, Data: jsast.EUpdate{Op: op, Value: e, Prefix: false}}
	}
	return e
}

// parseCallMemberChain consumes `.x`, `?.x`, `[x]`, `(...)`, and
// tagged-template suffixes following an already-parsed base expression.
func (p *Parser) parseCallMemberChain(base jsast.Expr) jsast.Expr {
	for {
		switch p.tok().Kind {
		case jslexer.TDot:
			p.next()
			isPrivate := p.tok().Kind == jslexer.TPrivateIdentifier
			name := p.tok().Raw
			p.next()
			base = jsast.Expr{Loc: base.Loc, Data: jsast.EMember{Object: base, Name: name, IsPrivate: isPrivate}}
		case jslexer.TPrivateIdentifier:
			name := p.tok().Raw
			p.next()
			base = jsast.Expr{Loc: base.Loc, Data: jsast.EMember{Object: base, Name: name, IsPrivate: true}}
		case jslexer.TQuestionDot:
			p.next()
			if p.tok().Kind == jslexer.TOpenParen {
				args := p.parseArgs()
				base = jsast.Expr{Loc: base.Loc, Data: jsast.ECall{Callee: base, Args: args, OptionalChain: true}}
			} else if p.tok().Kind == jslexer.TOpenBracket {
				p.next()
				idx := p.parseExpr()
				p.expect(jslexer.TCloseBracket, "']'")
				base = jsast.Expr{Loc: base.Loc, Data: jsast.EIndex{Object: base, Index: idx, OptionalChain: true}}
			} else {
				name := p.tok().Raw
				p.next()
				base = jsast.Expr{Loc: base.Loc, Data: jsast.EMember{Object: base, Name: name, OptionalChain: true}}
			}
		case jslexer.TOpenBracket:
			p.next()
			idx := p.parseExpr()
			p.expect(jslexer.TCloseBracket, "']'")
			base = jsast.Expr{Loc: base.Loc, Data: jsast.EIndex{Object: base, Index: idx}}
		case jslexer.TOpenParen:
			args := p.parseArgs()
			base = jsast.Expr{Loc: base.Loc, Data: jsast.ECall{Callee: base, Args: args}}
		case jslexer.TNoSubstitutionTemplateLiteral, jslexer.TTemplateHead:
			lit := p.parseTemplateLiteral()
			base = jsast.Expr{Loc: base.Loc, Data: jsast.ETaggedTemplate{Tag: base, Literal: lit.Data.(jsast.ETemplate)}}
		default:
			return base
		}
	}
}

func (p *Parser) parseArgs() []jsast.Expr {
	p.expect(jslexer.TOpenParen, "'('")
	var args []jsast.Expr
	for p.tok().Kind != jslexer.TCloseParen {
		if p.tok().Kind == jslexer.TDotDotDot {
			at := p.loc()
			p.next()
			args = append(args, jsast.Expr{Loc: at, Data: jsast.ESpread{Value: p.parseAssign()}})
		} else {
			args = append(args, p.parseAssign())
		}
		if p.tok().Kind == jslexer.TComma {
			p.next()
		} else {
			break
		}
	}
	p.expect(jslexer.TCloseParen, "')'")
	return args
}

func (p *Parser) parsePrimary() jsast.Expr {
	at := p.loc()
	t := p.tok()

	switch t.Kind {
	case jslexer.TNumericLiteral:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.ENumber{Value: parseNumericRaw(t.Raw), Raw: t.Raw}}
	case jslexer.TBigIntLiteral:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EBigInt{Raw: t.Raw}}
	case jslexer.TStringLiteral:
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EString{Value: t.StringValue}}
	case jslexer.TNoSubstitutionTemplateLiteral, jslexer.TTemplateHead:
		return p.parseTemplateLiteral()
	case jslexer.TOpenBracket:
		return p.parseArrayLiteral()
	case jslexer.TOpenBrace:
		return p.parseObjectLiteral()
	case jslexer.TOpenParen:
		return p.parseParenthesizedOrArrow()
	case jslexer.TSlash, jslexer.TSlashEquals:
		p.lexer.NextRegExp(int(t.Loc.Start))
		raw := p.tok().Raw
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.ERegExp{Raw: raw}}
	case jslexer.TLessThan:
		if p.moduleType == JSX || p.moduleType == TSX {
			return p.parseJSXPassthrough()
		}
	case jslexer.TKeyword:
		switch t.Raw {
		case "this":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EThis{}}
		case "super":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.ESuper{}}
		case "null":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.ENull{}}
		case "true":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EBoolean{Value: true}}
		case "false":
			p.next()
			return jsast.Expr{Loc: at, Data: jsast.EBoolean{Value: false}}
		case "undefined":
			return p.identOrKeywordExpr()
		case "function":
			return jsast.Expr{Loc: at, Data: jsast.EFunction{Fn: p.parseFunction(false, false)}}
		case "class":
			return jsast.Expr{Loc: at, Data: p.parseClass(false)}
		case "new":
			return p.parseNew(at)
		case "import":
			p.next()
			if p.tok().Kind == jslexer.TDot {
				p.next()
				prop := p.tok().Raw
				p.next()
				return jsast.Expr{Loc: at, Data: jsast.EMetaProperty{Meta: "import", Property: prop}}
			}
			args := p.parseArgs()
			return jsast.Expr{Loc: at, Data: jsast.ECall{Callee: jsast.Expr{Loc: at, Data: jsast.EIdentifier{Name: "import"}}, Args: args}}
		case "async":
			if p.peekIsFunctionAfterAsync() {
				p.next()
				return jsast.Expr{Loc: at, Data: jsast.EFunction{Fn: p.parseFunction(true, false)}}
			}
			return p.identOrKeywordExpr()
		}
	}
	if !p.isIdentLike() {
		p.errorHere("unexpected token")
	}
	return p.identOrKeywordExpr()
}

func (p *Parser) identOrKeywordExpr() jsast.Expr {
	at := p.loc()
	name := p.tok().Raw
	p.next()
	return p.identifierExpr(name, at)
}

func (p *Parser) parseNew(at jsast.Loc) jsast.Expr {
	p.next()
	if p.tok().Kind == jslexer.TDot {
		p.next()
		prop := p.tok().Raw
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EMetaProperty{Meta: "new", Property: prop}}
	}
	callee := p.parseCallMemberChainNoCall(p.parsePrimary())
	var args []jsast.Expr
	hasArgs := false
	if p.tok().Kind == jslexer.TOpenParen {
		hasArgs = true
		args = p.parseArgs()
	}
	e := jsast.Expr{Loc: at, Data: jsast.ENew{Callee: callee, Args: args, HasArgs: hasArgs}}
	return p.parseCallMemberChain(e)
}

// parseCallMemberChainNoCall consumes only `.x`/`[x]` suffixes (not
// `(...)`), since a `new` callee's own call parens belong to `new`
// itself: `new a.b.c(x)` calls `c`, not `a.b`.
func (p *Parser) parseCallMemberChainNoCall(base jsast.Expr) jsast.Expr {
	for {
		switch p.tok().Kind {
		case jslexer.TDot:
			p.next()
			isPrivate := p.tok().Kind == jslexer.TPrivateIdentifier
			name := p.tok().Raw
			p.next()
			base = jsast.Expr{Loc: base.Loc, Data: jsast.EMember{Object: base, Name: name, IsPrivate: isPrivate}}
		case jslexer.TOpenBracket:
			p.next()
			idx := p.parseExpr()
			p.expect(jslexer.TCloseBracket, "']'")
			base = jsast.Expr{Loc: base.Loc, Data: jsast.EIndex{Object: base, Index: idx}}
		default:
			return base
		}
	}
}

func (p *Parser) parseArrayLiteral() jsast.Expr {
	at := p.loc()
	p.next()
	var items []jsast.Expr
	trailingComma := false
	for p.tok().Kind != jslexer.TCloseBracket {
		if p.tok().Kind == jslexer.TComma {
			items = append(items, jsast.Expr{Loc: p.loc(), Data: jsast.EMissing{}})
			p.next()
			continue
		}
		if p.tok().Kind == jslexer.TDotDotDot {
			sAt := p.loc()
			p.next()
			items = append(items, jsast.Expr{Loc: sAt, Data: jsast.ESpread{Value: p.parseAssign()}})
		} else {
			items = append(items, p.parseAssign())
		}
		if p.tok().Kind == jslexer.TComma {
			p.next()
			trailingComma = true
		} else {
			trailingComma = false
			break
		}
	}
	p.expect(jslexer.TCloseBracket, "']'")
	return jsast.Expr{Loc: at, Data: jsast.EArray{Items: items, HasTrailingComma: trailingComma}}
}

func (p *Parser) parseObjectLiteral() jsast.Expr {
	at := p.loc()
	p.next()
	var props []jsast.Property
	for p.tok().Kind != jslexer.TCloseBrace {
		props = append(props, p.parseObjectProperty())
		if p.tok().Kind == jslexer.TComma {
			p.next()
		} else {
			break
		}
	}
	p.expect(jslexer.TCloseBrace, "'}'")
	return jsast.Expr{Loc: at, Data: jsast.EObject{Properties: props}}
}

func (p *Parser) parseObjectProperty() jsast.Property {
	if p.tok().Kind == jslexer.TDotDotDot {
		p.next()
		v := p.parseAssign()
		return jsast.Property{Kind: jsast.PropertySpread, Value: &v}
	}

	isAsync, isGenerator := false, false
	kind := jsast.PropertyInit
	if p.isKeyword("async") && !p.peekIsPropertyTerminator() {
		isAsync = true
		p.next()
	}
	if p.tok().Kind == jslexer.TStar {
		isGenerator = true
		p.next()
	}
	if (p.isKeyword("get") || p.isKeyword("set")) && !p.peekIsPropertyTerminator() {
		if p.tok().Raw == "get" {
			kind = jsast.PropertyGet
		} else {
			kind = jsast.PropertySet
		}
		p.next()
	}

	keyName, keyIsString, keyExpr := p.parsePropertyKey()

	if p.tok().Kind == jslexer.TOpenParen {
		fn := p.parseFunctionRest(isAsync, isGenerator, keyName)
		if kind == jsast.PropertyInit {
			kind = jsast.PropertyMethod
		}
		return jsast.Property{Kind: kind, KeyName: keyName, KeyIsString: keyIsString, KeyExpr: keyExpr, Fn: &fn}
	}
	if p.tok().Kind == jslexer.TColon {
		p.next()
		v := p.parseAssign()
		return jsast.Property{Kind: jsast.PropertyInit, KeyName: keyName, KeyIsString: keyIsString, KeyExpr: keyExpr, Value: &v}
	}
	// shorthand `{ x }` or `{ x = default }` (the latter only valid in a
	// destructuring-target position, but this engine does not validate that).
	at := p.loc()
	v := p.identifierExpr(keyName, at)
	if p.tok().Kind == jslexer.TEquals {
		p.next()
		def := p.parseAssign()
		v = jsast.Expr{Loc: at, Data: jsast.EAssign{Op: jsast.Assign, Target: v, Value: def}}
	}
	return jsast.Property{Kind: jsast.PropertyInit, KeyName: keyName, Value: &v, Shorthand: true}
}

// peekIsPropertyTerminator reports whether the current contextual
// keyword token (async/get/set) is actually being used as the property
// name itself, e.g. `{ get: 1 }` or `{ get() {} }`.
func (p *Parser) peekIsPropertyTerminator() bool {
	save := *p.lexer
	p.lexer.Next()
	k := p.tok().Kind
	isTerm := k == jslexer.TColon || k == jslexer.TOpenParen || k == jslexer.TComma || k == jslexer.TCloseBrace
	*p.lexer = save
	return isTerm
}

func (p *Parser) parseTemplateLiteral() jsast.Expr {
	at := p.loc()
	t := p.tok()
	if t.Kind == jslexer.TNoSubstitutionTemplateLiteral {
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.ETemplate{HeadRaw: t.Raw}}
	}
	headRaw := t.Raw
	p.next() // consumes TTemplateHead, positions lexer at start of embedded expr
	var parts []jsast.TemplatePart
	for {
		e := p.parseExpr()
		if p.tok().Kind != jslexer.TCloseBrace {
			p.errorHere("expected '}' in template literal")
		}
		p.lexer.NextTemplatePart()
		raw := p.tok().Raw
		kind := p.tok().Kind
		parts = append(parts, jsast.TemplatePart{Raw: raw, Expr: e})
		p.next()
		if kind == jslexer.TTemplateTail {
			break
		}
	}
	return jsast.Expr{Loc: at, Data: jsast.ETemplate{HeadRaw: headRaw, Parts: parts}}
}

// parseJSXPassthrough captures a JSX element's source text verbatim by
// bracket-depth-tracking `<...>` pairs, since this engine never rewrites
// markup (see jsast.EJSXElement).
func (p *Parser) parseJSXPassthrough() jsast.Expr {
	at := p.loc()
	start := p.lexer.Current().Loc.Start
	depth := 0
	for {
		switch p.tok().Kind {
		case jslexer.TLessThan:
			depth++
		case jslexer.TSlash:
			// closing-tag slash does not change depth tracking here; the
			// matching TGreaterThan below does.
		case jslexer.TGreaterThan:
			depth--
			if depth <= 0 {
				p.next()
				raw := p.source[start:p.lexer.Current().Loc.Start]
				return jsast.Expr{Loc: at, Data: jsast.EJSXElement{Raw: strings.TrimSpace(raw)}}
			}
		case jslexer.TEOF:
			raw := p.source[start:p.lexer.Current().Loc.Start]
			return jsast.Expr{Loc: at, Data: jsast.EJSXElement{Raw: strings.TrimSpace(raw)}}
		}
		p.next()
	}
}
