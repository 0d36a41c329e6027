package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// Dedupe implements the structural-fingerprint dedupe pass
// (original_source/crates/oveo/src/chunk/dedupe/mod.rs): every
// `dedupe(x)` call site is grouped with every other whose argument is a
// structurally identical expression (fingerprint.go), and each group of
// two or more is replaced by references to a single copy declared at
// the group's least-common-ancestor scope, snapped up to the nearest
// actual hoist scope the same way the hoist pass snaps its targets. A
// lone `dedupe(x)` with no structural match anywhere else just has its
// wrapper stripped.
// merge gates only the lift-to-shared-const step: every explicit
// dedupe() call and every hoist-materialized __oveo__ marker is always
// unwrapped to its bare argument regardless (spec.md §8 invariant 1 —
// disabling an optimization still strips the intrinsic wrapper down to
// its inner expression), but actual deduplication only happens when the
// chunk-phase dedupe option is enabled.
func Dedupe(ast *jsast.AST, bindings IntrinsicBindings, merge bool) {
	d := &deduper{ast: ast, bindings: bindings, funcByBody: map[int32]*jsast.Function{}, mergeEnabled: merge}
	d.walkStmts(ast.Body, 0)
	d.merge()
}

type dedupeSite struct {
	expr  *jsast.Expr
	scope int32
}

type deduper struct {
	ast          *jsast.AST
	bindings     IntrinsicBindings
	funcByBody   map[int32]*jsast.Function
	buckets      map[uint64][]dedupeSite
	mergeEnabled bool
}

func (d *deduper) record(e *jsast.Expr, scope int32) {
	if d.buckets == nil {
		d.buckets = map[uint64][]dedupeSite{}
	}
	h := fingerprint(*e)
	d.buckets[h] = append(d.buckets[h], dedupeSite{expr: e, scope: scope})
}

func (d *deduper) walkStmts(body []jsast.Stmt, scope int32) {
	for i := range body {
		d.walkStmt(&body[i], scope)
	}
}

func (d *deduper) walkStmt(s *jsast.Stmt, scope int32) {
	switch v := s.Data.(type) {
	case jsast.SExpr:
		d.walkExpr(&v.Value, scope)
		s.Data = v
	case jsast.SVarDecl:
		for i := range v.Decls {
			if v.Decls[i].Value != nil {
				d.walkExpr(v.Decls[i].Value, scope)
			}
		}
		s.Data = v
	case jsast.SBlock:
		d.walkStmts(v.Body, v.ScopeIndex)
	case jsast.SIf:
		d.walkExpr(&v.Test, scope)
		d.walkStmt(&v.Yes, scope)
		if v.No != nil {
			d.walkStmt(v.No, scope)
		}
		s.Data = v
	case jsast.SSwitch:
		d.walkExpr(&v.Test, scope)
		for i := range v.Cases {
			if v.Cases[i].Test != nil {
				d.walkExpr(v.Cases[i].Test, v.ScopeIndex)
			}
			d.walkStmts(v.Cases[i].Body, v.ScopeIndex)
		}
		s.Data = v
	case jsast.SFunctionDecl:
		d.walkFunction(&v.Fn)
		s.Data = v
	case jsast.SClassDecl:
		d.walkClass(&v.Class, scope)
		s.Data = v
	case jsast.SReturn:
		if v.Value != nil {
			d.walkExpr(v.Value, scope)
		}
		s.Data = v
	case jsast.SFor:
		switch init := v.Init.(type) {
		case jsast.ForInitVarDecl:
			for i := range init.Decl.Decls {
				if init.Decl.Decls[i].Value != nil {
					d.walkExpr(init.Decl.Decls[i].Value, scope)
				}
			}
			v.Init = init
		case jsast.ForInitExpr:
			d.walkExpr(&init.Value, scope)
			v.Init = init
		}
		if v.Test != nil {
			d.walkExpr(v.Test, v.ScopeIndex)
		}
		if v.Update != nil {
			d.walkExpr(v.Update, v.ScopeIndex)
		}
		d.walkStmt(&v.Body, v.ScopeIndex)
		s.Data = v
	case jsast.SForInOf:
		d.walkExpr(&v.Object, scope)
		d.walkStmt(&v.Body, v.ScopeIndex)
		s.Data = v
	case jsast.SWhile:
		d.walkExpr(&v.Test, scope)
		d.walkStmt(&v.Body, scope)
		s.Data = v
	case jsast.SDoWhile:
		d.walkStmt(&v.Body, scope)
		d.walkExpr(&v.Test, scope)
		s.Data = v
	case jsast.SThrow:
		d.walkExpr(&v.Value, scope)
		s.Data = v
	case jsast.STry:
		d.walkStmts(v.Body, scope)
		d.walkStmts(v.CatchBody, v.CatchScopeIndex)
		d.walkStmts(v.FinallyBody, scope)
	case jsast.SLabeled:
		d.walkStmt(&v.Body, scope)
		s.Data = v
	case jsast.SExportDecl:
		d.walkStmt(&v.Decl, scope)
		s.Data = v
	case jsast.SExportDefaultExpr:
		d.walkExpr(&v.Value, scope)
		s.Data = v
	}
}

func (d *deduper) walkFunction(fn *jsast.Function) {
	d.funcByBody[fn.BodyScopeIndex] = fn
	for i := range fn.Params {
		if fn.Params[i].Default != nil {
			d.walkExpr(fn.Params[i].Default, fn.ArgsScopeIndex)
		}
	}
	if fn.ArrowExprBody != nil {
		d.walkExpr(fn.ArrowExprBody, fn.BodyScopeIndex)
		return
	}
	d.walkStmts(fn.Body, fn.BodyScopeIndex)
}

func (d *deduper) walkClass(c *jsast.EClass, scope int32) {
	if c.SuperClass != nil {
		d.walkExpr(c.SuperClass, scope)
	}
	for i := range c.Members {
		m := &c.Members[i]
		if m.KeyExpr != nil {
			d.walkExpr(m.KeyExpr, scope)
		}
		if m.Fn != nil {
			d.walkFunction(m.Fn)
		}
		if m.Value != nil {
			d.walkExpr(m.Value, scope)
		}
		d.walkStmts(m.Body, scope)
	}
}

func (d *deduper) walkExpr(e *jsast.Expr, scope int32) {
	switch v := e.Data.(type) {
	case jsast.EArray:
		for i := range v.Items {
			d.walkExpr(&v.Items[i], scope)
		}
		e.Data = v
	case jsast.EObject:
		for i := range v.Properties {
			p := &v.Properties[i]
			if p.KeyExpr != nil {
				d.walkExpr(p.KeyExpr, scope)
			}
			if p.Value != nil {
				d.walkExpr(p.Value, scope)
			}
			if p.Fn != nil {
				d.walkFunction(p.Fn)
			}
		}
		e.Data = v
	case jsast.EFunction:
		d.walkFunction(&v.Fn)
		e.Data = v
	case jsast.EArrow:
		d.walkFunction(&v.Fn)
		e.Data = v
	case jsast.ECall:
		if kind, arg := ClassifyCall(v, d.bindings); kind == IntrinsicDedupe {
			d.walkExpr(arg, scope)
			*e = *arg
			d.record(e, scope)
			return
		}
		if inner, flags, ok := UnwrapAnnotation(*e); ok && flags&AnnotationDedupe != 0 {
			*e = inner
			d.walkExpr(e, scope)
			d.record(e, scope)
			return
		}
		d.walkExpr(&v.Callee, scope)
		for i := range v.Args {
			d.walkExpr(&v.Args[i], scope)
		}
		e.Data = v
	case jsast.ENew:
		d.walkExpr(&v.Callee, scope)
		for i := range v.Args {
			d.walkExpr(&v.Args[i], scope)
		}
		e.Data = v
	case jsast.EMember:
		d.walkExpr(&v.Object, scope)
		e.Data = v
	case jsast.EIndex:
		d.walkExpr(&v.Object, scope)
		d.walkExpr(&v.Index, scope)
		e.Data = v
	case jsast.EConditional:
		d.walkExpr(&v.Test, scope)
		d.walkExpr(&v.Yes, scope)
		d.walkExpr(&v.No, scope)
		e.Data = v
	case jsast.EBinary:
		d.walkExpr(&v.Left, scope)
		d.walkExpr(&v.Right, scope)
		e.Data = v
	case jsast.EUnary:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.EUpdate:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.EAssign:
		d.walkExpr(&v.Target, scope)
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.ESequence:
		for i := range v.Exprs {
			d.walkExpr(&v.Exprs[i], scope)
		}
		e.Data = v
	case jsast.ESpread:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.EParenthesized:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.EClass:
		d.walkClass(&v, scope)
		e.Data = v
	case jsast.ETemplate:
		for i := range v.Parts {
			d.walkExpr(&v.Parts[i].Expr, scope)
		}
		e.Data = v
	case jsast.ETaggedTemplate:
		d.walkExpr(&v.Tag, scope)
		for i := range v.Literal.Parts {
			d.walkExpr(&v.Literal.Parts[i].Expr, scope)
		}
		e.Data = v
	case jsast.EAwait:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	case jsast.EYield:
		if v.Value != nil {
			d.walkExpr(v.Value, scope)
		}
		e.Data = v
	case jsast.ETSAsExpression:
		d.walkExpr(&v.Value, scope)
		e.Data = v
	}
}

// merge resolves every fingerprint bucket: groups of two or more
// structurally-equal sites are lifted to a shared const, singleton
// buckets (a dedupe() call with no actual duplicate anywhere) are left
// as their bare argument, which walkExpr has already unwrapped.
func (d *deduper) merge() {
	if !d.mergeEnabled {
		return
	}
	pendingByTarget := map[int32][]jsast.Stmt{}
	for _, sites := range d.buckets {
		groups := groupEqual(sites)
		for _, group := range groups {
			if len(group) < 2 {
				continue
			}
			target := d.targetScope(group)
			if target < 0 {
				continue // free variable would escape its declaring scope; leave duplicates in place
			}
			ref := d.ast.NewSymbol(jsast.SymbolHoistGenerated, "_dedupe", target)
			name := dedupeGeneratedName(len(pendingByTarget[target]))
			d.ast.Sym(ref).OriginalName = name
			value := *group[0].expr
			binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: ref}}
			decl := jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}}
			pendingByTarget[target] = append(pendingByTarget[target], decl)
			for _, site := range group {
				*site.expr = jsast.Expr{Loc: site.expr.Loc, Data: jsast.EIdentifier{Ref: ref, Name: name}}
			}
		}
	}
	for target, decls := range pendingByTarget {
		if fn, ok := d.funcByBody[target]; ok {
			fn.Body = append(decls, fn.Body...)
			continue
		}
		at := 0
		if d.ast.HasDirectivePrologue {
			at = 1
		}
		d.ast.Body = append(d.ast.Body[:at], append(decls, d.ast.Body[at:]...)...)
	}
}

func dedupeGeneratedName(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if n < len(letters) {
		return "_DEDUPE_" + string(letters[n])
	}
	return "_DEDUPE_" + string(letters[n%len(letters)]) + string(letters[(n/len(letters))%len(letters)])
}

// groupEqual partitions a fingerprint-bucket's sites into subgroups of
// genuinely structurally-equal expressions, guarding against hash
// collisions between unrelated expressions.
func groupEqual(sites []dedupeSite) [][]dedupeSite {
	var groups [][]dedupeSite
	for _, s := range sites {
		placed := false
		for i, g := range groups {
			if equalExpr(*g[0].expr, *s.expr) {
				groups[i] = append(groups[i], s)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []dedupeSite{s})
		}
	}
	return groups
}

// targetScope returns the least-common-ancestor scope of every site in
// group, snapped up to the nearest real hoist scope, or -1 if lifting
// there would hide a free variable the shared expression depends on.
func (d *deduper) targetScope(group []dedupeSite) int32 {
	lca := group[0].scope
	for _, s := range group[1:] {
		lca = d.lca(lca, s.scope)
	}
	target := d.ast.NearestHoistScope(lca)

	ok := true
	collectFreeRefs(*group[0].expr, func(ref jsast.Ref) {
		declared := d.ast.Sym(ref).ScopeIndex
		if !d.ast.IsAncestorScope(declared, target) {
			ok = false
		}
	})
	if !ok {
		return -1
	}
	return target
}

func (d *deduper) lca(a, b int32) int32 {
	ancestorsA := map[int32]bool{}
	for s := a; s >= 0; s = d.ast.Scopes[s].ParentIndex {
		ancestorsA[s] = true
	}
	for s := b; s >= 0; s = d.ast.Scopes[s].ParentIndex {
		if ancestorsA[s] {
			return s
		}
	}
	return 0
}
