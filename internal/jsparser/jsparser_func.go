package jsparser

import (
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jslexer"
	"github.com/localvoid/oveo/internal/logger"
)

// beginSpeculation snapshots parser state and returns the function that
// ends the speculation. With commit false it undoes the scope/symbol/
// lexer state created since and drops the diagnostics logged meanwhile;
// with commit true it keeps that state and passes those diagnostics on
// to the parser's log. Undoing only needs to truncate the AST's flat
// slices and the speculation's starting scope's Children list — every
// scope created mid-speculation is a descendant of that one scope, so
// truncating Scopes drops them all.
func (p *Parser) beginSpeculation() func(commit bool) {
	lexerSnapshot := *p.lexer
	scopeIdx := p.currentScope
	childrenLen := len(p.ast.Scopes[scopeIdx].Children)
	scopesLen := len(p.ast.Scopes)
	symbolsLen := len(p.ast.Symbols)
	savedCurrentScope := p.currentScope
	outerLog := p.log
	p.log = logger.NewLog()
	p.lexer.Log = p.log
	return func(commit bool) {
		specLog := p.log
		p.log = outerLog
		p.lexer.Log = outerLog
		if commit {
			for _, m := range specLog.Msgs() {
				if m.Kind == logger.Error {
					outerLog.AddError(m.Loc, m.Text)
				} else {
					outerLog.AddWarning(m.Loc, m.Text)
				}
			}
			return
		}
		*p.lexer = lexerSnapshot
		p.ast.Scopes = p.ast.Scopes[:scopesLen]
		p.ast.Symbols = p.ast.Symbols[:symbolsLen]
		p.ast.Scopes[scopeIdx].Children = p.ast.Scopes[scopeIdx].Children[:childrenLen]
		p.currentScope = savedCurrentScope
	}
}

// tryParseArrow attempts to parse an arrow function starting at the
// current token, speculatively: `(params) => body`, `(params): T =>
// body`, or the parenthesis-free single-param shorthand `x => body`.
// On failure every scope/symbol/lexer change it made is rolled back and
// the caller falls through to ordinary expression parsing.
func (p *Parser) tryParseArrow() (jsast.Expr, bool) {
	if p.tok().Kind != jslexer.TOpenParen && !p.isIdentLike() {
		return jsast.Expr{}, false
	}
	at := p.loc()
	rollback := p.beginSpeculation()

	isAsync := false
	if p.isKeyword("async") {
		clone := *p.lexer
		p.next()
		if p.tok().HasNewlineBefore || !(p.tok().Kind == jslexer.TOpenParen || p.isIdentLike()) {
			*p.lexer = clone
			rollback(false)
			return jsast.Expr{}, false
		}
		isAsync = true
	}

	argsScope := p.pushScope(jsast.ScopeFunctionArgs)
	var params []jsast.Param
	if p.tok().Kind == jslexer.TOpenParen {
		params = p.parseParams()
	} else {
		name := p.tok().Raw
		p.next()
		params = []jsast.Param{{Binding: jsast.Pattern{Loc: at, Data: jsast.PIdentifier{Ref: p.declare(name, jsast.SymbolOther, argsScope)}}}}
	}
	if p.tok().Kind == jslexer.TColon {
		p.maybeParseTypeAnnotation()
	}
	if p.tok().Kind != jslexer.TArrow {
		rollback(false)
		return jsast.Expr{}, false
	}
	p.next()

	bodyScope := p.pushScope(jsast.ScopeFunctionBody)
	var body []jsast.Stmt
	var exprBody *jsast.Expr
	if p.tok().Kind == jslexer.TOpenBrace {
		p.next()
		body = p.parseStatementList(func() bool { return p.tok().Kind == jslexer.TCloseBrace })
		p.expect(jslexer.TCloseBrace, "'}'")
	} else {
		e := p.parseAssign()
		exprBody = &e
	}
	p.popScope()
	p.popScope()
	rollback(true)

	return jsast.Expr{Loc: at, Data: jsast.EArrow{Fn: jsast.Function{
		Params: params, Body: body, ArrowExprBody: exprBody, IsAsync: isAsync, IsArrow: true,
		ArgsScopeIndex: argsScope, BodyScopeIndex: bodyScope,
	}}}, true
}

func (p *Parser) parseParenthesizedOrArrow() jsast.Expr {
	at := p.loc()
	p.next() // '('
	if p.tok().Kind == jslexer.TCloseParen {
		p.next()
		return jsast.Expr{Loc: at, Data: jsast.EParenthesized{Value: jsast.Expr{Loc: at, Data: jsast.EMissing{}}}}
	}
	e := p.parseExpr()
	p.expect(jslexer.TCloseParen, "')'")
	return jsast.Expr{Loc: at, Data: jsast.EParenthesized{Value: e}}
}

// parseFunction parses a `function` declaration or expression, having
// already seen the `function` keyword is about to be consumed.
func (p *Parser) parseFunction(isAsync, isDecl bool) jsast.Function {
	p.next() // 'function'
	isGenerator := false
	if p.tok().Kind == jslexer.TStar {
		isGenerator = true
		p.next()
	}
	name := ""
	if p.isIdentLike() && p.tok().Kind != jslexer.TOpenParen {
		name = p.tok().Raw
		if isDecl {
			p.declareVarOrFunc(name, jsast.SymbolFunction)
		}
		p.next()
	}
	argsScope := p.pushScope(jsast.ScopeFunctionArgs)
	if !isDecl && name != "" {
		p.declare(name, jsast.SymbolFunction, argsScope)
	}
	params := p.parseParams()
	returnType := p.maybeParseReturnType()
	bodyScope := p.pushScope(jsast.ScopeFunctionBody)
	p.expect(jslexer.TOpenBrace, "'{'")
	body := p.parseStatementList(func() bool { return p.tok().Kind == jslexer.TCloseBrace })
	p.expect(jslexer.TCloseBrace, "'}'")
	p.popScope()
	p.popScope()
	return jsast.Function{
		Name: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGenerator,
		ArgsScopeIndex: argsScope, BodyScopeIndex: bodyScope, ReturnTypeRaw: returnType,
	}
}

// parseFunctionRest parses a function's params and body, having already
// consumed (or never needed) its `function` keyword and name — for
// object-literal and class methods, where only `(` follows the key.
func (p *Parser) parseFunctionRest(isAsync, isGenerator bool, name string) jsast.Function {
	argsScope := p.pushScope(jsast.ScopeFunctionArgs)
	params := p.parseParams()
	returnType := p.maybeParseReturnType()
	bodyScope := p.pushScope(jsast.ScopeFunctionBody)
	p.expect(jslexer.TOpenBrace, "'{'")
	body := p.parseStatementList(func() bool { return p.tok().Kind == jslexer.TCloseBrace })
	p.expect(jslexer.TCloseBrace, "'}'")
	p.popScope()
	p.popScope()
	return jsast.Function{
		Name: name, Params: params, Body: body, IsAsync: isAsync, IsGenerator: isGenerator,
		ArgsScopeIndex: argsScope, BodyScopeIndex: bodyScope, ReturnTypeRaw: returnType,
	}
}

func (p *Parser) parseParams() []jsast.Param {
	p.expect(jslexer.TOpenParen, "'('")
	var params []jsast.Param
	for p.tok().Kind != jslexer.TCloseParen && p.tok().Kind != jslexer.TEOF {
		isRest := false
		if p.tok().Kind == jslexer.TDotDotDot {
			isRest = true
			p.next()
		}
		binding := p.parseBindingTarget(jsast.SymbolOther)
		typeRaw := p.maybeParseTypeAnnotation()
		var def *jsast.Expr
		if p.tok().Kind == jslexer.TEquals {
			p.next()
			e := p.parseAssign()
			def = &e
		}
		params = append(params, jsast.Param{Binding: binding, Default: def, IsRest: isRest, TypeRaw: typeRaw})
		if p.tok().Kind == jslexer.TComma {
			p.next()
		} else {
			break
		}
	}
	p.expect(jslexer.TCloseParen, "')'")
	return params
}

// maybeParseTypeAnnotation consumes a leading `:` and the raw type text
// that follows, stopping at the first top-level terminator. It tracks
// `(`/`[` nesting but not `{`/`}` depth, so an inline TS object-type
// annotation ends at its opening `{`.
func (p *Parser) maybeParseTypeAnnotation() string {
	if p.tok().Kind != jslexer.TColon {
		return ""
	}
	p.next()
	start := p.lexer.Current().Loc.Start
	depth := 0
	for {
		k := p.tok().Kind
		if k == jslexer.TEOF {
			break
		}
		if depth == 0 && (k == jslexer.TComma || k == jslexer.TCloseParen || k == jslexer.TEquals ||
			k == jslexer.TSemicolon || k == jslexer.TOpenBrace || k == jslexer.TCloseBracket || k == jslexer.TArrow) {
			break
		}
		if k == jslexer.TOpenParen || k == jslexer.TOpenBracket {
			depth++
		}
		if k == jslexer.TCloseParen {
			if depth == 0 {
				break
			}
			depth--
		}
		p.next()
	}
	end := p.lexer.Current().Loc.Start
	return strings.TrimSpace(p.source[start:end])
}

func (p *Parser) maybeParseReturnType() string {
	return p.maybeParseTypeAnnotation()
}

func (p *Parser) parseClass(isDecl bool) jsast.EClass {
	p.next() // 'class'
	name := ""
	if p.isIdentLike() && !p.isKeyword("extends") && !p.isKeyword("implements") && p.tok().Kind != jslexer.TOpenBrace {
		name = p.tok().Raw
		p.next()
	}
	if isDecl && name != "" {
		p.declareBlockScoped(name, jsast.SymbolClass)
	}
	var superClass *jsast.Expr
	if p.isKeyword("extends") {
		p.next()
		se := p.parseCallMemberChain(p.parsePrimary())
		superClass = &se
	}
	if p.isKeyword("implements") {
		for !p.tokenStartsClassBody() && p.tok().Kind != jslexer.TEOF {
			p.next()
		}
	}
	p.expect(jslexer.TOpenBrace, "'{'")
	var members []jsast.ClassMember
	for p.tok().Kind != jslexer.TCloseBrace && p.tok().Kind != jslexer.TEOF {
		if p.tok().Kind == jslexer.TSemicolon {
			p.next()
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.expect(jslexer.TCloseBrace, "'}'")
	return jsast.EClass{Name: name, SuperClass: superClass, Members: members}
}

func (p *Parser) tokenStartsClassBody() bool { return p.tok().Kind == jslexer.TOpenBrace }

func (p *Parser) parseClassMember() jsast.ClassMember {
	isStatic := false
	if p.isKeyword("static") && !p.peekIsPropertyTerminator() {
		isStatic = true
		p.next()
		if p.tok().Kind == jslexer.TOpenBrace {
			body, _ := p.parseBlockBody()
			return jsast.ClassMember{Kind: jsast.ClassStaticBlock, IsStatic: true, Body: body}
		}
	}
	// TS member modifiers that don't affect runtime semantics.
	for p.isKeyword("public") || p.isKeyword("private") || p.isKeyword("protected") ||
		p.isKeyword("readonly") || p.isKeyword("abstract") || p.isKeyword("override") {
		p.next()
	}

	isAsync, isGenerator := false, false
	kind := jsast.ClassMethod
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
			kind = jsast.ClassGet
		} else {
			kind = jsast.ClassSet
		}
		p.next()
	}

	isPrivate := p.tok().Kind == jslexer.TPrivateIdentifier
	keyName, _, keyExpr := p.parsePropertyKey()
	isComputed := keyExpr != nil

	if p.tok().Kind == jslexer.TQuestion {
		p.next() // TS optional member marker
	}

	if p.tok().Kind == jslexer.TOpenParen {
		fn := p.parseFunctionRest(isAsync, isGenerator, keyName)
		return jsast.ClassMember{
			Kind: kind, KeyName: keyName, KeyExpr: keyExpr, IsComputed: isComputed,
			IsPrivate: isPrivate, IsStatic: isStatic, Fn: &fn,
		}
	}

	p.maybeParseTypeAnnotation()
	var value *jsast.Expr
	if p.tok().Kind == jslexer.TEquals {
		p.next()
		v := p.parseAssign()
		value = &v
	}
	p.consumeSemicolon()
	return jsast.ClassMember{
		Kind: jsast.ClassField, KeyName: keyName, KeyExpr: keyExpr, IsComputed: isComputed,
		IsPrivate: isPrivate, IsStatic: isStatic, Value: value,
	}
}

// exprToPattern reinterprets an already-parsed expression as a binding
// pattern, for `for (existingBinding of iterable)` where the left side
// was parsed as an expression (it assigns to an existing reference, not
// a fresh declaration) before the parser knew it was a for-of head.
func exprToPattern(e jsast.Expr) jsast.Pattern {
	switch d := e.Data.(type) {
	case jsast.EIdentifier:
		return jsast.Pattern{Loc: e.Loc, Data: jsast.PIdentifier{Ref: d.Ref}}
	case jsast.EParenthesized:
		return exprToPattern(d.Value)
	case jsast.EArray:
		items := make([]jsast.ArrayPatternItem, 0, len(d.Items))
		for _, it := range d.Items {
			if _, ok := it.Data.(jsast.EMissing); ok {
				items = append(items, jsast.ArrayPatternItem{})
				continue
			}
			if sp, ok := it.Data.(jsast.ESpread); ok {
				b := exprToPattern(sp.Value)
				items = append(items, jsast.ArrayPatternItem{Binding: &b, IsRest: true})
				continue
			}
			if asn, ok := it.Data.(jsast.EAssign); ok && asn.Op == jsast.Assign {
				b := exprToPattern(asn.Target)
				def := asn.Value
				items = append(items, jsast.ArrayPatternItem{Binding: &b, Default: &def})
				continue
			}
			b := exprToPattern(it)
			items = append(items, jsast.ArrayPatternItem{Binding: &b})
		}
		return jsast.Pattern{Loc: e.Loc, Data: jsast.PArray{Items: items}}
	case jsast.EObject:
		var props []jsast.ObjectPatternProperty
		var hasRest bool
		var restBinding *jsast.Pattern
		for _, prop := range d.Properties {
			if prop.Kind == jsast.PropertySpread {
				b := exprToPattern(*prop.Value)
				hasRest = true
				restBinding = &b
				continue
			}
			val := *prop.Value
			var def *jsast.Expr
			if asn, ok := val.Data.(jsast.EAssign); ok && asn.Op == jsast.Assign {
				val = asn.Target
				d2 := asn.Value
				def = &d2
			}
			props = append(props, jsast.ObjectPatternProperty{
				KeyName: prop.KeyName, KeyIsString: prop.KeyIsString, KeyExpr: prop.KeyExpr,
				Value: exprToPattern(val), Default: def, Shorthand: prop.Shorthand,
			})
		}
		return jsast.Pattern{Loc: e.Loc, Data: jsast.PObject{Properties: props, HasRest: hasRest, RestBinding: restBinding}}
	default:
		// A member-expression for-of/in target (`for (obj.x of xs)`) has
		// no Pattern representation in this model; fall back to an
		// unresolved identifier slot so callers still get a valid tree.
		return jsast.Pattern{Loc: e.Loc, Data: jsast.PIdentifier{Ref: jsast.InvalidRef}}
	}
}
