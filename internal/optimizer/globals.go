package optimizer

import (
	"fmt"

	"github.com/localvoid/oveo/internal/jsast"
)

// GlobalsTable is the set of well-known global bindings one or more
// categories have enabled (original_source/crates/oveo/src/globals.rs's
// Globals::add). "window" and "globalThis" are always recognized,
// independent of which categories were requested, mirroring Globals::get.
type GlobalsTable struct {
	entries map[string]*globalEntry
	// Hoist and Singletons mirror Options.Globals' two independent
	// sub-flags (spec.md §6: "globals:{include, hoist, singletons}"):
	// Hoist gates the plain alias-to-const rewrite (including the static
	// member chaining below), Singletons gates the `new TextEncoder()`-
	// class shared-instance rewrite. Either may run without the other.
	Hoist      bool
	Singletons bool
}

// BuildGlobalsTable merges the named categories (e.g. "js", "web",
// "web:battery") into one lookup table. Unknown category names are
// silently ignored, matching the Rust match's `_ => {}` arm.
func BuildGlobalsTable(categories []string, hoist, singletons bool) *GlobalsTable {
	t := &GlobalsTable{
		entries: map[string]*globalEntry{
			"window":     {},
			"globalThis": {},
		},
		Hoist:      hoist,
		Singletons: singletons,
	}
	for _, c := range categories {
		for name, e := range globalCategories[c] {
			t.entries[name] = e
		}
	}
	return t
}

func (t *GlobalsTable) lookup(name string) (*globalEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Globals replaces every free (unresolved) reference to a recognized
// global with a reference to a single const alias hoisted once to
// program scope — globals are pure reads of ambient bindings, always
// safe to evaluate eagerly at module top, so no free-variable or
// conditional-boundary analysis is needed the way hoist()/dedupe() need.
// A static member access chained off an already-aliased global (e.g.
// `Array.isArray`) gets its own alias in turn, each level reusing the
// one before it (scenario S3). A global flagged as a singleton function
// (TextEncoder, TextDecoder) gets one shared instance hoisted instead of
// an alias to the constructor — every `new TextEncoder()` site becomes a
// reference to that one instance. Singleton treatment assumes a
// zero-argument constructor, true of every singleton this engine
// currently knows about; a singleton global ever needing per-call
// arguments would need this simplification revisited.
func Globals(ast *jsast.AST, table *GlobalsTable) {
	g := &globalsRewriter{
		ast:           ast,
		table:         table,
		aliasRefs:     map[string]jsast.Ref{},
		refEntry:      map[jsast.Ref]*globalEntry{},
		memberAliases: map[jsast.Ref]map[string]jsast.Ref{},
		singletonRefs: map[string]jsast.Ref{},
	}
	Walk(ast.Body, g)
	g.splice()
}

type globalsRewriter struct {
	BaseVisitor
	ast   *jsast.AST
	table *GlobalsTable

	aliasRefs     map[string]jsast.Ref               // global name -> top-level alias ref
	refEntry      map[jsast.Ref]*globalEntry         // alias ref -> entry it stands for, so a member access off it can chain
	memberAliases map[jsast.Ref]map[string]jsast.Ref // base ref -> member name -> its own alias ref
	singletonRefs map[string]jsast.Ref

	n     int // _GLOBAL_<n> counter, 1-based per scenario S3's naming
	s     int // _SINGLETON_<n> counter, 1-based per scenario S4's naming
	decls []jsast.Stmt
}

// ExitExpr runs post-order (Walk visits d.Object before e itself), so a
// member access's Object has already been rewritten to its alias
// identifier by the time this fires — required for chaining a static
// member alias off an already-produced global alias.
func (g *globalsRewriter) ExitExpr(e *jsast.Expr) {
	if g.table.Singletons {
		if n, ok := e.Data.(jsast.ENew); ok {
			if ident, ok := n.Callee.Data.(jsast.EIdentifier); ok && !ident.Ref.IsValid() {
				if entry, found := g.table.lookup(ident.Name); found && entry.Singleton {
					ref := g.singletonAlias(ident.Name)
					*e = jsast.Expr{Loc: e.Loc, Data: jsast.EIdentifier{Ref: ref, Name: g.ast.Sym(ref).OriginalName}}
					return
				}
			}
		}
	}
	if !g.table.Hoist {
		return
	}
	switch d := e.Data.(type) {
	case jsast.EIdentifier:
		if d.Ref.IsValid() {
			return
		}
		if entry, found := g.table.lookup(d.Name); found {
			ref := g.alias(d.Name, entry)
			*e = jsast.Expr{Loc: e.Loc, Data: jsast.EIdentifier{Ref: ref, Name: g.ast.Sym(ref).OriginalName}}
		}
	case jsast.EMember:
		if d.IsPrivate || d.OptionalChain {
			return
		}
		ident, ok := d.Object.Data.(jsast.EIdentifier)
		if !ok {
			return
		}
		entry, ok := g.refEntry[ident.Ref]
		if !ok {
			return
		}
		sub, ok := entry.Statics[d.Name]
		if !ok {
			return
		}
		ref := g.memberAlias(ident.Ref, d.Name, sub)
		*e = jsast.Expr{Loc: e.Loc, Data: jsast.EIdentifier{Ref: ref, Name: g.ast.Sym(ref).OriginalName}}
	}
}

func (g *globalsRewriter) nextGlobalName() string {
	g.n++
	return fmt.Sprintf("_GLOBAL_%d", g.n)
}

func (g *globalsRewriter) alias(name string, entry *globalEntry) jsast.Ref {
	if ref, ok := g.aliasRefs[name]; ok {
		return ref
	}
	genName := g.nextGlobalName()
	ref := g.ast.NewSymbol(jsast.SymbolHoistGenerated, genName, 0)
	g.ast.Sym(ref).OriginalName = genName
	g.aliasRefs[name] = ref
	g.refEntry[ref] = entry
	value := jsast.Expr{Data: jsast.EIdentifier{Ref: jsast.InvalidRef, Name: name}}
	binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: ref}}
	g.decls = append(g.decls, jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}})
	return ref
}

func (g *globalsRewriter) memberAlias(baseRef jsast.Ref, prop string, entry *globalEntry) jsast.Ref {
	byProp, ok := g.memberAliases[baseRef]
	if !ok {
		byProp = map[string]jsast.Ref{}
		g.memberAliases[baseRef] = byProp
	}
	if ref, ok := byProp[prop]; ok {
		return ref
	}
	genName := g.nextGlobalName()
	ref := g.ast.NewSymbol(jsast.SymbolHoistGenerated, genName, 0)
	g.ast.Sym(ref).OriginalName = genName
	byProp[prop] = ref
	g.refEntry[ref] = entry
	baseName := g.ast.Sym(baseRef).OriginalName
	value := jsast.Expr{Data: jsast.EMember{
		Object: jsast.Expr{Data: jsast.EIdentifier{Ref: baseRef, Name: baseName}},
		Name:   prop,
	}}
	binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: ref}}
	g.decls = append(g.decls, jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}})
	return ref
}

func (g *globalsRewriter) singletonAlias(name string) jsast.Ref {
	if ref, ok := g.singletonRefs[name]; ok {
		return ref
	}
	g.s++
	genName := fmt.Sprintf("_SINGLETON_%d", g.s)
	ref := g.ast.NewSymbol(jsast.SymbolHoistGenerated, genName, 0)
	g.ast.Sym(ref).OriginalName = genName
	g.singletonRefs[name] = ref
	value := jsast.Expr{Data: jsast.ENew{Callee: jsast.Expr{Data: jsast.EIdentifier{Ref: jsast.InvalidRef, Name: name}}, HasArgs: true}}
	binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: ref}}
	g.decls = append(g.decls, jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}})
	return ref
}

func (g *globalsRewriter) splice() {
	if len(g.decls) == 0 {
		return
	}
	at := 0
	if g.ast.HasDirectivePrologue {
		at = 1
	}
	g.ast.Body = append(g.ast.Body[:at], append(g.decls, g.ast.Body[at:]...)...)
}
