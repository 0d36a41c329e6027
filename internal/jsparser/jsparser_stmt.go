package jsparser

import (
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jslexer"
)

// parseStatementList parses statements until stop() reports true or EOF
// is reached, whichever comes first.
func (p *Parser) parseStatementList(stop func() bool) []jsast.Stmt {
	var out []jsast.Stmt
	for !stop() && p.tok().Kind != jslexer.TEOF {
		out = append(out, p.parseStatement())
	}
	return out
}

func (p *Parser) parseBlockBody() ([]jsast.Stmt, int32) {
	at := p.loc()
	p.expect(jslexer.TOpenBrace, "'{'")
	scope := p.pushScope(jsast.ScopeBlock)
	body := p.parseStatementList(func() bool { return p.tok().Kind == jslexer.TCloseBrace })
	p.popScope()
	p.expect(jslexer.TCloseBrace, "'}'")
	_ = at
	return body, scope
}

func (p *Parser) parseStatement() jsast.Stmt {
	at := p.loc()
	t := p.tok()

	switch {
	case t.Kind == jslexer.TSemicolon:
		p.next()
		return jsast.Stmt{Loc: at, Data: jsast.SEmpty{}}

	case t.Kind == jslexer.TOpenBrace:
		body, scope := p.parseBlockBody()
		return jsast.Stmt{Loc: at, Data: jsast.SBlock{Body: body, ScopeIndex: scope}}

	case t.Kind == jslexer.TStringLiteral && p.isDirectiveCandidate():
		raw := t.Raw
		p.next()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SDirective{Raw: raw}}

	case p.isKeyword("var"), p.isKeyword("let"), p.isKeyword("const"):
		decl := p.parseVarDecl()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: decl}

	case p.isKeyword("function"):
		return jsast.Stmt{Loc: at, Data: jsast.SFunctionDecl{Fn: p.parseFunction(false, true)}}

	case p.isKeyword("async") && p.peekIsFunctionAfterAsync():
		p.next()
		return jsast.Stmt{Loc: at, Data: jsast.SFunctionDecl{Fn: p.parseFunction(true, true)}}

	case p.isKeyword("class"):
		return jsast.Stmt{Loc: at, Data: jsast.SClassDecl{Class: p.parseClass(true)}}

	case p.isKeyword("if"):
		return p.parseIf(at)

	case p.isKeyword("switch"):
		return p.parseSwitch(at)

	case p.isKeyword("return"):
		p.next()
		var val *jsast.Expr
		if p.tok().Kind != jslexer.TSemicolon && p.tok().Kind != jslexer.TCloseBrace &&
			p.tok().Kind != jslexer.TEOF && !p.tok().HasNewlineBefore {
			e := p.parseExpr()
			val = &e
		}
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SReturn{Value: val}}

	case p.isKeyword("for"):
		return p.parseFor(at)

	case p.isKeyword("while"):
		p.next()
		p.expect(jslexer.TOpenParen, "'('")
		test := p.parseExpr()
		p.expect(jslexer.TCloseParen, "')'")
		body := p.parseStatement()
		return jsast.Stmt{Loc: at, Data: jsast.SWhile{Test: test, Body: body}}

	case p.isKeyword("do"):
		p.next()
		body := p.parseStatement()
		if !p.isKeyword("while") {
			p.errorHere("expected 'while'")
		} else {
			p.next()
		}
		p.expect(jslexer.TOpenParen, "'('")
		test := p.parseExpr()
		p.expect(jslexer.TCloseParen, "')'")
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SDoWhile{Body: body, Test: test}}

	case p.isKeyword("throw"):
		p.next()
		val := p.parseExpr()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SThrow{Value: val}}

	case p.isKeyword("try"):
		return p.parseTry(at)

	case p.isKeyword("break"):
		p.next()
		label := ""
		if p.tok().Kind == jslexer.TIdentifier && !p.tok().HasNewlineBefore {
			label = p.tok().Raw
			p.next()
		}
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SBreak{Label: label}}

	case p.isKeyword("continue"):
		p.next()
		label := ""
		if p.tok().Kind == jslexer.TIdentifier && !p.tok().HasNewlineBefore {
			label = p.tok().Raw
			p.next()
		}
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SContinue{Label: label}}

	case p.isKeyword("debugger"):
		p.next()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SEmpty{}}

	case p.isKeyword("import"):
		return p.parseImport(at)

	case p.isKeyword("export"):
		return p.parseExport(at)

	case p.isKeyword("interface"), p.isKeyword("type"), p.isKeyword("declare"),
		p.isKeyword("namespace"), p.isKeyword("enum"), p.isKeyword("abstract"):
		return p.parseRawTS(at)

	case p.isIdentLike():
		// Disambiguate a labeled statement (`label: stmt`) from an
		// expression statement starting with an identifier.
		if (t.Kind == jslexer.TIdentifier) && p.peekIsLabelColon() {
			label := t.Raw
			p.next()
			p.next() // ':'
			body := p.parseStatement()
			return jsast.Stmt{Loc: at, Data: jsast.SLabeled{Label: label, Body: body}}
		}
		fallthrough

	default:
		e := p.parseExpr()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SExpr{Value: e}}
	}
}

// isDirectiveCandidate is a coarse heuristic: a bare string-literal
// expression statement whose next token ends the statement.
func (p *Parser) isDirectiveCandidate() bool {
	save := *p.lexer
	p.lexer.Next()
	next := p.tok().Kind
	nextOnNewLine := p.tok().HasNewlineBefore
	*p.lexer = save
	return next == jslexer.TSemicolon || next == jslexer.TCloseBrace || next == jslexer.TEOF || nextOnNewLine
}

func (p *Parser) peekIsLabelColon() bool {
	save := *p.lexer
	p.lexer.Next()
	isColon := p.tok().Kind == jslexer.TColon
	*p.lexer = save
	return isColon
}

func (p *Parser) peekIsFunctionAfterAsync() bool {
	save := *p.lexer
	p.lexer.Next()
	isFn := p.tok().Kind == jslexer.TKeyword && p.tok().Raw == "function"
	*p.lexer = save
	return isFn
}

func (p *Parser) parseVarDecl() jsast.SVarDecl {
	kind := jsast.Var
	switch p.tok().Raw {
	case "let":
		kind = jsast.Let
	case "const":
		kind = jsast.Const
	}
	p.next()

	var decls []jsast.Decl
	for {
		binding := p.parseBindingTarget(symbolKindForVarKind(kind))
		var value *jsast.Expr
		if p.tok().Kind == jslexer.TEquals {
			p.next()
			e := p.parseAssign()
			value = &e
		}
		decls = append(decls, jsast.Decl{Binding: binding, Value: value})
		if p.tok().Kind != jslexer.TComma {
			break
		}
		p.next()
	}
	return jsast.SVarDecl{Kind: kind, Decls: decls}
}

func symbolKindForVarKind(k jsast.VarKind) jsast.SymbolKind {
	switch k {
	case jsast.Let:
		return jsast.SymbolLet
	case jsast.Const:
		return jsast.SymbolConst
	default:
		return jsast.SymbolVar
	}
}

// parseBindingTarget parses a destructuring/identifier binding target
// and declares every identifier it introduces with kind, targeting the
// function/program scope for SymbolVar and the current block scope for
// everything else (JS function-vs-block scoping).
func (p *Parser) parseBindingTarget(kind jsast.SymbolKind) jsast.Pattern {
	at := p.loc()
	switch p.tok().Kind {
	case jslexer.TOpenBracket:
		p.next()
		var items []jsast.ArrayPatternItem
		for p.tok().Kind != jslexer.TCloseBracket {
			if p.tok().Kind == jslexer.TComma {
				items = append(items, jsast.ArrayPatternItem{})
				p.next()
				continue
			}
			isRest := false
			if p.tok().Kind == jslexer.TDotDotDot {
				isRest = true
				p.next()
			}
			b := p.parseBindingTarget(kind)
			var def *jsast.Expr
			if p.tok().Kind == jslexer.TEquals {
				p.next()
				e := p.parseAssign()
				def = &e
			}
			items = append(items, jsast.ArrayPatternItem{Binding: &b, Default: def, IsRest: isRest})
			if p.tok().Kind == jslexer.TComma {
				p.next()
			} else {
				break
			}
		}
		p.expect(jslexer.TCloseBracket, "']'")
		return jsast.Pattern{Loc: at, Data: jsast.PArray{Items: items}}

	case jslexer.TOpenBrace:
		p.next()
		var props []jsast.ObjectPatternProperty
		var hasRest bool
		var restBinding *jsast.Pattern
		for p.tok().Kind != jslexer.TCloseBrace {
			if p.tok().Kind == jslexer.TDotDotDot {
				p.next()
				b := p.parseBindingTarget(kind)
				hasRest = true
				restBinding = &b
				break
			}
			keyName, keyIsString, keyExpr := p.parsePropertyKey()
			var value jsast.Pattern
			shorthand := false
			if p.tok().Kind == jslexer.TColon {
				p.next()
				value = p.parseBindingTarget(kind)
			} else {
				shorthand = true
				value = jsast.Pattern{Loc: at, Data: jsast.PIdentifier{Ref: p.declareFor(keyName, kind)}}
			}
			var def *jsast.Expr
			if p.tok().Kind == jslexer.TEquals {
				p.next()
				e := p.parseAssign()
				def = &e
			}
			props = append(props, jsast.ObjectPatternProperty{
				KeyName: keyName, KeyIsString: keyIsString, KeyExpr: keyExpr,
				Value: value, Default: def, Shorthand: shorthand,
			})
			if p.tok().Kind == jslexer.TComma {
				p.next()
			} else {
				break
			}
		}
		p.expect(jslexer.TCloseBrace, "'}'")
		return jsast.Pattern{Loc: at, Data: jsast.PObject{Properties: props, HasRest: hasRest, RestBinding: restBinding}}

	default:
		name := p.tok().Raw
		p.next()
		return jsast.Pattern{Loc: at, Data: jsast.PIdentifier{Ref: p.declareFor(name, kind)}}
	}
}

func (p *Parser) declareFor(name string, kind jsast.SymbolKind) jsast.Ref {
	if kind == jsast.SymbolVar || kind == jsast.SymbolFunction {
		return p.declareVarOrFunc(name, kind)
	}
	return p.declareBlockScoped(name, kind)
}

// parsePropertyKey parses an object/class member key: identifier,
// keyword-as-name, string literal, number literal, or `[expr]`.
func (p *Parser) parsePropertyKey() (name string, isString bool, computed *jsast.Expr) {
	t := p.tok()
	switch t.Kind {
	case jslexer.TOpenBracket:
		p.next()
		e := p.parseAssign()
		p.expect(jslexer.TCloseBracket, "']'")
		return "", false, &e
	case jslexer.TStringLiteral:
		p.next()
		return t.StringValue, true, nil
	case jslexer.TNumericLiteral:
		p.next()
		return t.Raw, false, nil
	default:
		p.next()
		return t.Raw, false, nil
	}
}

func (p *Parser) parseIf(at jsast.Loc) jsast.Stmt {
	p.next()
	p.expect(jslexer.TOpenParen, "'('")
	test := p.parseExpr()
	p.expect(jslexer.TCloseParen, "')'")
	yes := p.parseStatement()
	var no *jsast.Stmt
	if p.isKeyword("else") {
		p.next()
		n := p.parseStatement()
		no = &n
	}
	return jsast.Stmt{Loc: at, Data: jsast.SIf{Test: test, Yes: yes, No: no}}
}

func (p *Parser) parseSwitch(at jsast.Loc) jsast.Stmt {
	p.next()
	p.expect(jslexer.TOpenParen, "'('")
	test := p.parseExpr()
	p.expect(jslexer.TCloseParen, "')'")
	scope := p.pushScope(jsast.ScopeBlock)
	p.expect(jslexer.TOpenBrace, "'{'")
	var cases []jsast.SwitchCase
	for p.tok().Kind != jslexer.TCloseBrace && p.tok().Kind != jslexer.TEOF {
		var caseTest *jsast.Expr
		if p.isKeyword("default") {
			p.next()
		} else {
			p.next() // 'case'
			e := p.parseExpr()
			caseTest = &e
		}
		p.expect(jslexer.TColon, "':'")
		body := p.parseStatementList(func() bool {
			return p.isKeyword("case") || p.isKeyword("default") || p.tok().Kind == jslexer.TCloseBrace
		})
		cases = append(cases, jsast.SwitchCase{Test: caseTest, Body: body})
	}
	p.expect(jslexer.TCloseBrace, "'}'")
	p.popScope()
	return jsast.Stmt{Loc: at, Data: jsast.SSwitch{Test: test, Cases: cases, ScopeIndex: scope}}
}

func (p *Parser) parseFor(at jsast.Loc) jsast.Stmt {
	p.next()
	isAwait := false
	if p.isKeyword("await") {
		isAwait = true
		p.next()
	}
	p.expect(jslexer.TOpenParen, "'('")
	scope := p.pushScope(jsast.ScopeBlock)

	if p.tok().Kind == jslexer.TSemicolon {
		p.next()
		return p.finishPlainFor(at, nil, scope)
	}

	if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
		kindRaw := p.tok().Raw
		var vk jsast.VarKind
		switch kindRaw {
		case "let":
			vk = jsast.Let
		case "const":
			vk = jsast.Const
		default:
			vk = jsast.Var
		}
		p.next()
		sk := symbolKindForVarKind(vk)
		binding := p.parseBindingTarget(sk)
		if p.isKeyword("of") || p.isKeyword("in") {
			isOf := p.isKeyword("of")
			p.next()
			var object jsast.Expr
			if isOf {
				object = p.parseAssign()
			} else {
				object = p.parseExpr()
			}
			p.expect(jslexer.TCloseParen, "')'")
			body := p.parseStatement()
			p.popScope()
			return jsast.Stmt{Loc: at, Data: jsast.SForInOf{
				IsOf: isOf, IsAwait: isAwait, Kind: &vk, Binding: binding, Object: object, Body: body, ScopeIndex: scope,
			}}
		}
		var value *jsast.Expr
		if p.tok().Kind == jslexer.TEquals {
			p.next()
			e := p.parseAssign()
			value = &e
		}
		decls := []jsast.Decl{{Binding: binding, Value: value}}
		for p.tok().Kind == jslexer.TComma {
			p.next()
			b2 := p.parseBindingTarget(sk)
			var v2 *jsast.Expr
			if p.tok().Kind == jslexer.TEquals {
				p.next()
				e := p.parseAssign()
				v2 = &e
			}
			decls = append(decls, jsast.Decl{Binding: b2, Value: v2})
		}
		p.expect(jslexer.TSemicolon, "';'")
		return p.finishPlainFor(at, jsast.ForInitVarDecl{Decl: jsast.SVarDecl{Kind: vk, Decls: decls}}, scope)
	}

	first := p.parseExprNoIn()
	if p.isKeyword("of") || p.isKeyword("in") {
		isOf := p.isKeyword("of")
		p.next()
		var object jsast.Expr
		if isOf {
			object = p.parseAssign()
		} else {
			object = p.parseExpr()
		}
		p.expect(jslexer.TCloseParen, "')'")
		body := p.parseStatement()
		p.popScope()
		binding := exprToPattern(first)
		return jsast.Stmt{Loc: at, Data: jsast.SForInOf{
			IsOf: isOf, IsAwait: isAwait, Kind: nil, Binding: binding, Object: object, Body: body, ScopeIndex: scope,
		}}
	}
	p.expect(jslexer.TSemicolon, "';'")
	return p.finishPlainFor(at, jsast.ForInitExpr{Value: first}, scope)
}

func (p *Parser) finishPlainFor(at jsast.Loc, init jsast.ForInit, scope int32) jsast.Stmt {
	var test *jsast.Expr
	if p.tok().Kind != jslexer.TSemicolon {
		e := p.parseExpr()
		test = &e
	}
	p.expect(jslexer.TSemicolon, "';'")
	var update *jsast.Expr
	if p.tok().Kind != jslexer.TCloseParen {
		e := p.parseExpr()
		update = &e
	}
	p.expect(jslexer.TCloseParen, "')'")
	body := p.parseStatement()
	p.popScope()
	return jsast.Stmt{Loc: at, Data: jsast.SFor{Init: init, Test: test, Update: update, Body: body, ScopeIndex: scope}}
}

func (p *Parser) parseTry(at jsast.Loc) jsast.Stmt {
	p.next()
	body, _ := p.parseBlockBody()
	var catchParam *jsast.Pattern
	var catchBody []jsast.Stmt
	var catchScope int32 = -1
	if p.isKeyword("catch") {
		p.next()
		catchScope = p.pushScope(jsast.ScopeCatchBinding)
		if p.tok().Kind == jslexer.TOpenParen {
			p.next()
			b := p.parseBindingTarget(jsast.SymbolCatchBinding)
			catchParam = &b
			p.expect(jslexer.TCloseParen, "')'")
		}
		p.expect(jslexer.TOpenBrace, "'{'")
		catchBody = p.parseStatementList(func() bool { return p.tok().Kind == jslexer.TCloseBrace })
		p.expect(jslexer.TCloseBrace, "'}'")
		p.popScope()
	}
	var finallyBody []jsast.Stmt
	if p.isKeyword("finally") {
		p.next()
		finallyBody, _ = p.parseBlockBody()
	}
	return jsast.Stmt{Loc: at, Data: jsast.STry{
		Body: body, CatchParam: catchParam, CatchBody: catchBody, CatchScopeIndex: catchScope, FinallyBody: finallyBody,
	}}
}

func (p *Parser) parseImport(at jsast.Loc) jsast.Stmt {
	p.next()
	if p.tok().Kind == jslexer.TStringLiteral {
		src := p.tok().StringValue
		p.next()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SImport{Source: src}}
	}
	var specs []jsast.ImportSpecifier
	if p.tok().Kind == jslexer.TIdentifier || (p.tok().Kind == jslexer.TKeyword && p.tok().Raw != "from") {
		name := p.tok().Raw
		p.next()
		specs = append(specs, jsast.ImportSpecifier{Kind: jsast.ImportDefault, Local: p.declareVarOrFunc(name, jsast.SymbolImport)})
		if p.tok().Kind == jslexer.TComma {
			p.next()
		}
	}
	if p.tok().Kind == jslexer.TStar {
		p.next()
		if p.isKeyword("as") {
			p.next()
		}
		name := p.tok().Raw
		p.next()
		specs = append(specs, jsast.ImportSpecifier{Kind: jsast.ImportNamespace, Local: p.declareVarOrFunc(name, jsast.SymbolImport)})
	} else if p.tok().Kind == jslexer.TOpenBrace {
		p.next()
		for p.tok().Kind != jslexer.TCloseBrace {
			imported := p.tok().Raw
			p.next()
			local := imported
			if p.isKeyword("as") {
				p.next()
				local = p.tok().Raw
				p.next()
			}
			specs = append(specs, jsast.ImportSpecifier{
				Kind: jsast.ImportNamed, Imported: imported, Local: p.declareVarOrFunc(local, jsast.SymbolImport),
			})
			if p.tok().Kind == jslexer.TComma {
				p.next()
			} else {
				break
			}
		}
		p.expect(jslexer.TCloseBrace, "'}'")
	}
	if p.isKeyword("from") {
		p.next()
	}
	src := ""
	if p.tok().Kind == jslexer.TStringLiteral {
		src = p.tok().StringValue
		p.next()
	}
	p.consumeSemicolon()
	return jsast.Stmt{Loc: at, Data: jsast.SImport{Specifiers: specs, Source: src}}
}

func (p *Parser) parseExport(at jsast.Loc) jsast.Stmt {
	start := p.lexer.Current().Loc.Start
	p.next()
	if p.isKeyword("default") {
		p.next()
		if p.isKeyword("function") {
			return jsast.Stmt{Loc: at, Data: jsast.SExportDecl{IsDefault: true, Decl: jsast.Stmt{Loc: at, Data: jsast.SFunctionDecl{Fn: p.parseFunction(false, true)}}}}
		}
		if p.isKeyword("class") {
			return jsast.Stmt{Loc: at, Data: jsast.SExportDecl{IsDefault: true, Decl: jsast.Stmt{Loc: at, Data: jsast.SClassDecl{Class: p.parseClass(true)}}}}
		}
		e := p.parseAssign()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SExportDefaultExpr{Value: e}}
	}
	if p.isKeyword("var") || p.isKeyword("let") || p.isKeyword("const") {
		decl := p.parseVarDecl()
		p.consumeSemicolon()
		return jsast.Stmt{Loc: at, Data: jsast.SExportDecl{Decl: jsast.Stmt{Loc: at, Data: decl}}}
	}
	if p.isKeyword("function") {
		return jsast.Stmt{Loc: at, Data: jsast.SExportDecl{Decl: jsast.Stmt{Loc: at, Data: jsast.SFunctionDecl{Fn: p.parseFunction(false, true)}}}}
	}
	if p.isKeyword("class") {
		return jsast.Stmt{Loc: at, Data: jsast.SExportDecl{Decl: jsast.Stmt{Loc: at, Data: jsast.SClassDecl{Class: p.parseClass(true)}}}}
	}
	// `export { a, b as c }` / `export * from "m"` — passthrough, no new
	// bindings introduced by these forms that this engine needs to model.
	for p.tok().Kind != jslexer.TSemicolon && p.tok().Kind != jslexer.TEOF && !p.tok().HasNewlineBefore {
		p.next()
	}
	raw := p.source[start:p.lexer.Current().Loc.Start]
	p.consumeSemicolon()
	return jsast.Stmt{Loc: at, Data: jsast.SExportClause{Raw: strings.TrimSpace(raw)}}
}

// parseRawTS captures a TypeScript-only declaration verbatim up to its
// statement boundary, since none of this engine's passes have a rewrite
// rule for type-level syntax (spec.md §1 Non-goals: no type checking).
func (p *Parser) parseRawTS(at jsast.Loc) jsast.Stmt {
	start := p.lexer.Current().Loc.Start
	depth := 0
	for {
		switch p.tok().Kind {
		case jslexer.TOpenBrace:
			depth++
		case jslexer.TCloseBrace:
			depth--
			if depth <= 0 {
				p.next()
				raw := p.source[start:p.lexer.Current().Loc.Start]
				return jsast.Stmt{Loc: at, Data: jsast.SRawTS{Raw: strings.TrimSpace(raw)}}
			}
		case jslexer.TSemicolon:
			if depth == 0 {
				end := p.lexer.Current().Loc.Start
				p.next()
				return jsast.Stmt{Loc: at, Data: jsast.SRawTS{Raw: strings.TrimSpace(p.source[start:end])}}
			}
		case jslexer.TEOF:
			raw := p.source[start:p.lexer.Current().Loc.Start]
			return jsast.Stmt{Loc: at, Data: jsast.SRawTS{Raw: strings.TrimSpace(raw)}}
		}
		p.next()
	}
}
