// Package jsparser turns source text into a jsast.AST: a scope tree, a
// symbol table, and a statement list with every identifier reference
// already resolved to the symbol it refers to (or left unresolved,
// meaning "global"). This is the "Lexical/semantic frontend" component
// of spec.md §2, written fresh in the teacher's idiom (see DESIGN.md)
// rather than adapted line-for-line from esbuild's bundler-coupled
// internal/js_parser.
//
// Scope resolution is a single forward pass: a binding is visible to
// any reference that appears after it has been declared, including
// references nested in scopes declared later in the same statement
// list. References that textually precede the declaring statement in
// the same scope (legal for `var` and function-declaration hoisting)
// are not specially pre-scanned: such a reference resolves to an outer
// binding of the same name if there is one, and is otherwise left
// unresolved (global).
package jsparser

import (
	"strconv"
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jslexer"
	"github.com/localvoid/oveo/internal/logger"
)

type ModuleType uint8

const (
	JS ModuleType = iota
	JSX
	TS
	TSX
)

func ParseModuleType(s string) ModuleType {
	switch s {
	case "jsx":
		return JSX
	case "ts":
		return TS
	case "tsx":
		return TSX
	default:
		return JS
	}
}

type Parser struct {
	lexer      *jslexer.Lexer
	log        *logger.Log
	source     string
	moduleType ModuleType

	ast          *jsast.AST
	currentScope int32
	noIn         bool
}

// Parse parses source as moduleType, returning the resulting AST. Parse
// errors are reported through log; if log.HasErrors() afterward the
// caller should treat the result as unusable (spec.md §7 ParseError).
func Parse(source string, moduleType ModuleType, log *logger.Log) *jsast.AST {
	p := &Parser{
		source:     source,
		moduleType: moduleType,
		log:        log,
		ast:        &jsast.AST{SourceLen: int32(len(source))},
	}
	p.lexer = jslexer.NewLexer(source, log)
	p.currentScope = p.ast.NewScope(jsast.ScopeProgram, -1)
	p.ast.Scopes[p.currentScope].IsHoistScope = true

	p.ast.Body = p.parseStatementList(func() bool { return p.lexer.Current().Kind == jslexer.TEOF })
	if len(p.ast.Body) > 0 {
		if d, ok := p.ast.Body[0].Data.(jsast.SDirective); ok && strings.Contains(d.Raw, "use strict") {
			p.ast.HasDirectivePrologue = true
		}
	}
	return p.ast
}

func (p *Parser) tok() jslexer.Token { return p.lexer.Current() }

func (p *Parser) loc() jsast.Loc { return jsast.Loc{Start: p.tok().Loc.Start} }

func (p *Parser) errorHere(text string) {
	p.log.AddError(p.tok().Loc, text)
}

func (p *Parser) next() { p.lexer.Next() }

func (p *Parser) expect(k jslexer.T, what string) {
	if p.tok().Kind != k {
		p.errorHere("expected " + what)
		return
	}
	p.next()
}

func (p *Parser) isKeyword(name string) bool {
	t := p.tok()
	return t.Kind == jslexer.TKeyword && t.Raw == name
}

func (p *Parser) isIdentLike() bool {
	t := p.tok()
	return t.Kind == jslexer.TIdentifier || t.Kind == jslexer.TKeyword
}

// consumeSemicolon implements a pragmatic subset of Automatic Semicolon
// Insertion: an explicit `;` is consumed if present, otherwise a
// statement boundary is assumed at a newline, `}`, or EOF.
func (p *Parser) consumeSemicolon() {
	if p.tok().Kind == jslexer.TSemicolon {
		p.next()
		return
	}
	if p.tok().Kind == jslexer.TCloseBrace || p.tok().Kind == jslexer.TEOF || p.tok().HasNewlineBefore {
		return
	}
	p.errorHere("expected semicolon")
}

// ---- scope/symbol helpers ----

func (p *Parser) pushScope(kind jsast.ScopeKind) int32 {
	s := p.ast.NewScope(kind, p.currentScope)
	p.currentScope = s
	return s
}

func (p *Parser) popScope() {
	p.currentScope = p.ast.Scopes[p.currentScope].ParentIndex
}

// nearestVarScope returns the nearest enclosing function-body or
// program scope, the hoist target for `var` declarations and function
// declarations (JS function-scoping, not block-scoping).
func (p *Parser) nearestVarScope() int32 {
	for s := p.currentScope; ; s = p.ast.Scopes[s].ParentIndex {
		k := p.ast.Scopes[s].Kind
		if k == jsast.ScopeProgram || k == jsast.ScopeFunctionBody {
			return s
		}
		if s == 0 {
			return s
		}
	}
}

func (p *Parser) declare(name string, kind jsast.SymbolKind, scopeIndex int32) jsast.Ref {
	ref := p.ast.NewSymbol(kind, name, scopeIndex)
	p.ast.Scopes[scopeIndex].Members[name] = ref
	return ref
}

func (p *Parser) declareVarOrFunc(name string, kind jsast.SymbolKind) jsast.Ref {
	return p.declare(name, kind, p.nearestVarScope())
}

func (p *Parser) declareBlockScoped(name string, kind jsast.SymbolKind) jsast.Ref {
	return p.declare(name, kind, p.currentScope)
}

// resolve looks up name starting at the current scope and walking up
// to the program scope. An unresolved name means "global" — it is not
// an error at parse time (spec.md §4.1: globals are handled later by
// the globals pass, not the parser).
func (p *Parser) resolve(name string) jsast.Ref {
	for s := p.currentScope; ; s = p.ast.Scopes[s].ParentIndex {
		if ref, ok := p.ast.Scopes[s].Members[name]; ok {
			return ref
		}
		if s == 0 {
			return jsast.InvalidRef
		}
	}
}

func (p *Parser) identifierExpr(name string, at jsast.Loc) jsast.Expr {
	return jsast.Expr{Loc: at, Data: jsast.EIdentifier{Ref: p.resolve(name), Name: name}}
}

// ---- numeric/string literal decoding ----

func parseNumericRaw(raw string) float64 {
	clean := strings.ReplaceAll(raw, "_", "")
	if v, err := strconv.ParseFloat(clean, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return float64(v)
	}
	if v, err := strconv.ParseUint(clean, 0, 64); err == nil {
		return float64(v)
	}
	return 0
}
