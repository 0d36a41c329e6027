package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// Hoist implements the lift-pure-subexpression pass (original_source's
// crates/oveo/src/chunk/hoist.rs). It runs a single top-down traversal
// that does three things at once, mirroring the order free variables
// become resolvable and scope() annotations become effective in the
// Rust implementation's own single traversal:
//
//   - marks the body scope of every `scope(fn)`-annotated function as a
//     hoist target, before descending into that function so any nested
//     hoist() calls see the flag already set;
//   - tracks, per scope, whether entering it required crossing a
//     conditional boundary (if/else branches, loop bodies, switch
//     cases, catch/finally, the short-circuiting side of `&&`/`||`/`??`,
//     and each branch of `?:`) — a hoisted expression can never be
//     pulled above the first such boundary, since doing so would change
//     how many times, or whether, it runs;
//   - for every `hoist(x)` call site, climbs from its enclosing scope
//     toward the least-nested scope in which x's free variables are all
//     still visible, stopping at the first conditional boundary, then
//     snaps the result to the nearest actual hoist scope at or above
//     that point, and replaces the call with a reference to a new const
//     declared there.
//
// Free-variable reachability (which scope a hoisted expression's
// identifiers remain visible from) is approximated here as every
// EIdentifier Ref whose declared scope lies on the call site's own
// ancestor chain — an identifier a hoisted expression itself declares
// internally (e.g. an arrow function's own parameter) is not an
// ancestor of the call site and is correctly excluded.
// enabled gates only the actual lift-to-outer-scope step, the same way
// Dedupe's merge parameter gates only its lift-to-shared-const step
// (spec.md §8 invariant 1): every explicit hoist()/scope()/dedupe()/
// key() call is always unwrapped or annotated down to its argument
// regardless of enabled, but hoist() only actually relocates its value
// when enabled is true.
func Hoist(ast *jsast.AST, bindings IntrinsicBindings, moduleBindings ModuleBindings, enabled bool) {
	h := &hoister{
		ast:          ast,
		bindings:     bindings,
		moduleBindings: moduleBindings,
		scopeConditional: map[int32]bool{},
		funcByBody:   map[int32]*jsast.Function{},
		enabled:      enabled,
	}
	h.walkStmts(ast.Body, 0, false)
	h.splice()
}

type pendingDecl struct {
	targetScope int32
	ref         jsast.Ref
	value       jsast.Expr
}

type hoister struct {
	ast              *jsast.AST
	bindings         IntrinsicBindings
	moduleBindings   ModuleBindings
	scopeConditional map[int32]bool
	funcByBody       map[int32]*jsast.Function
	pending          []pendingDecl
	enabled          bool
}

func (h *hoister) enterScope(scope int32, conditional bool) {
	if conditional {
		h.scopeConditional[scope] = true
	}
}

func (h *hoister) walkStmts(body []jsast.Stmt, scope int32, conditional bool) {
	for i := range body {
		h.walkStmt(&body[i], scope, conditional)
	}
}

func (h *hoister) walkStmt(s *jsast.Stmt, scope int32, conditional bool) {
	switch d := s.Data.(type) {
	case jsast.SExpr:
		h.walkExpr(&d.Value, scope, conditional)
		s.Data = d
	case jsast.SVarDecl:
		for i := range d.Decls {
			if d.Decls[i].Value != nil {
				h.walkExpr(d.Decls[i].Value, scope, conditional)
			}
		}
		s.Data = d
	case jsast.SBlock:
		h.enterScope(d.ScopeIndex, conditional)
		h.walkStmts(d.Body, d.ScopeIndex, false)
	case jsast.SIf:
		h.walkExpr(&d.Test, scope, conditional)
		h.walkStmt(&d.Yes, scope, true)
		if d.No != nil {
			h.walkStmt(d.No, scope, true)
		}
		s.Data = d
	case jsast.SSwitch:
		h.walkExpr(&d.Test, scope, conditional)
		h.enterScope(d.ScopeIndex, conditional)
		for i := range d.Cases {
			if d.Cases[i].Test != nil {
				h.walkExpr(d.Cases[i].Test, d.ScopeIndex, true)
			}
			h.walkStmts(d.Cases[i].Body, d.ScopeIndex, true)
		}
		s.Data = d
	case jsast.SFunctionDecl:
		h.walkFunction(&d.Fn, conditional)
		s.Data = d
	case jsast.SClassDecl:
		h.walkClass(&d.Class, scope, conditional)
		s.Data = d
	case jsast.SReturn:
		if d.Value != nil {
			h.walkExpr(d.Value, scope, conditional)
		}
		s.Data = d
	case jsast.SFor:
		switch init := d.Init.(type) {
		case jsast.ForInitVarDecl:
			for i := range init.Decl.Decls {
				if init.Decl.Decls[i].Value != nil {
					h.walkExpr(init.Decl.Decls[i].Value, scope, conditional)
				}
			}
			d.Init = init
		case jsast.ForInitExpr:
			h.walkExpr(&init.Value, scope, conditional)
			d.Init = init
		}
		h.enterScope(d.ScopeIndex, conditional)
		if d.Test != nil {
			h.walkExpr(d.Test, d.ScopeIndex, true)
		}
		if d.Update != nil {
			h.walkExpr(d.Update, d.ScopeIndex, true)
		}
		h.walkStmt(&d.Body, d.ScopeIndex, true)
		s.Data = d
	case jsast.SForInOf:
		h.walkExpr(&d.Object, scope, conditional)
		h.enterScope(d.ScopeIndex, conditional)
		h.walkStmt(&d.Body, d.ScopeIndex, true)
		s.Data = d
	case jsast.SWhile:
		h.walkExpr(&d.Test, scope, conditional)
		h.walkStmt(&d.Body, scope, true)
		s.Data = d
	case jsast.SDoWhile:
		h.walkStmt(&d.Body, scope, true)
		h.walkExpr(&d.Test, scope, conditional)
		s.Data = d
	case jsast.SThrow:
		h.walkExpr(&d.Value, scope, conditional)
		s.Data = d
	case jsast.STry:
		h.walkStmts(d.Body, scope, true)
		h.enterScope(d.CatchScopeIndex, true)
		h.walkStmts(d.CatchBody, d.CatchScopeIndex, true)
		h.walkStmts(d.FinallyBody, scope, true)
	case jsast.SLabeled:
		h.walkStmt(&d.Body, scope, conditional)
		s.Data = d
	case jsast.SExportDecl:
		h.walkStmt(&d.Decl, scope, conditional)
		s.Data = d
	case jsast.SExportDefaultExpr:
		h.walkExpr(&d.Value, scope, conditional)
		s.Data = d
	}
}

func (h *hoister) walkFunction(fn *jsast.Function, conditional bool) {
	h.funcByBody[fn.BodyScopeIndex] = fn
	for i := range fn.Params {
		if fn.Params[i].Default != nil {
			h.walkExpr(fn.Params[i].Default, fn.ArgsScopeIndex, conditional)
		}
	}
	if fn.ArrowExprBody != nil {
		h.walkExpr(fn.ArrowExprBody, fn.BodyScopeIndex, false)
		return
	}
	h.walkStmts(fn.Body, fn.BodyScopeIndex, false)
	// Declarations lifted into this body are spliced in here, while fn
	// still points at the node the caller copies back into the tree.
	var decls []jsast.Stmt
	for _, pd := range h.pending {
		if pd.targetScope == fn.BodyScopeIndex {
			value := WrapAnnotation(pd.value, AnnotationDedupe)
			binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: pd.ref}}
			decls = append(decls, jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}})
		}
	}
	if len(decls) > 0 {
		fn.Body = append(decls, fn.Body...)
	}
}

func (h *hoister) walkClass(c *jsast.EClass, scope int32, conditional bool) {
	if c.SuperClass != nil {
		h.walkExpr(c.SuperClass, scope, conditional)
	}
	for i := range c.Members {
		m := &c.Members[i]
		if m.KeyExpr != nil {
			h.walkExpr(m.KeyExpr, scope, conditional)
		}
		if m.Fn != nil {
			h.walkFunction(m.Fn, conditional)
		}
		if m.Value != nil {
			h.walkExpr(m.Value, scope, conditional)
		}
		h.walkStmts(m.Body, scope, conditional)
	}
}

func (h *hoister) walkExpr(e *jsast.Expr, scope int32, conditional bool) {
	switch d := e.Data.(type) {
	case jsast.EArray:
		for i := range d.Items {
			h.walkExpr(&d.Items[i], scope, conditional)
		}
		e.Data = d
	case jsast.EObject:
		for i := range d.Properties {
			p := &d.Properties[i]
			if p.KeyExpr != nil {
				h.walkExpr(p.KeyExpr, scope, conditional)
			}
			if p.Value != nil {
				h.walkExpr(p.Value, scope, conditional)
			}
			if p.Fn != nil {
				h.walkFunction(p.Fn, conditional)
			}
		}
		e.Data = d
	case jsast.EFunction:
		h.walkFunction(&d.Fn, conditional)
		e.Data = d
	case jsast.EArrow:
		h.walkFunction(&d.Fn, conditional)
		e.Data = d
	case jsast.ECall:
		h.handleIntrinsicCall(e, &d, scope, conditional)
	case jsast.ENew:
		h.walkExpr(&d.Callee, scope, conditional)
		for i := range d.Args {
			h.walkExpr(&d.Args[i], scope, conditional)
		}
		e.Data = d
	case jsast.EMember:
		h.walkExpr(&d.Object, scope, conditional)
		e.Data = d
	case jsast.EIndex:
		h.walkExpr(&d.Object, scope, conditional)
		h.walkExpr(&d.Index, scope, conditional)
		e.Data = d
	case jsast.EConditional:
		h.walkExpr(&d.Test, scope, conditional)
		h.walkExpr(&d.Yes, scope, true)
		h.walkExpr(&d.No, scope, true)
		e.Data = d
	case jsast.EBinary:
		h.walkExpr(&d.Left, scope, conditional)
		rightConditional := conditional || d.Op == jsast.LogicalAnd || d.Op == jsast.LogicalOr || d.Op == jsast.Nullish
		h.walkExpr(&d.Right, scope, rightConditional)
		e.Data = d
	case jsast.EUnary:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.EUpdate:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.EAssign:
		h.walkExpr(&d.Target, scope, conditional)
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.ESequence:
		for i := range d.Exprs {
			h.walkExpr(&d.Exprs[i], scope, conditional)
		}
		e.Data = d
	case jsast.ESpread:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.EParenthesized:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.EClass:
		h.walkClass(&d, scope, conditional)
		e.Data = d
	case jsast.ETemplate:
		for i := range d.Parts {
			h.walkExpr(&d.Parts[i].Expr, scope, conditional)
		}
		e.Data = d
	case jsast.ETaggedTemplate:
		h.walkExpr(&d.Tag, scope, conditional)
		for i := range d.Literal.Parts {
			h.walkExpr(&d.Literal.Parts[i].Expr, scope, conditional)
		}
		e.Data = d
	case jsast.EAwait:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	case jsast.EYield:
		if d.Value != nil {
			h.walkExpr(d.Value, scope, conditional)
		}
		e.Data = d
	case jsast.ETSAsExpression:
		h.walkExpr(&d.Value, scope, conditional)
		e.Data = d
	}
}

// handleIntrinsicCall recognizes hoist()/scope()/dedupe()/key() call
// sites (explicit, or via an extern Function descriptor's per-argument
// hoist/scope flags) and rewrites them in place; any other call has its
// callee and arguments walked here. It always returns true.
func (h *hoister) handleIntrinsicCall(e *jsast.Expr, call *jsast.ECall, scope int32, conditional bool) bool {
	kind, arg := ClassifyCall(*call, h.bindings)

	switch kind {
	case IntrinsicScope:
		h.markScopeTarget(arg)
		h.walkExpr(arg, scope, conditional)
		*e = *arg
		return true
	case IntrinsicHoist:
		h.walkExpr(arg, scope, conditional)
		if !h.enabled {
			// Disabled: the call still collapses away (invariant 1 —
			// disabling a pass only strips its intrinsic wrapper), it
			// just never relocates the value.
			*e = *arg
			return true
		}
		if _, parenthesized := arg.Data.(jsast.EParenthesized); parenthesized {
			// A parenthesized argument opts out of lifting (boundary
			// case, spec.md §8): the call still collapses away so no
			// reference to the stripped "oveo" import survives, but the
			// value stays exactly where it was written.
			*e = *arg
			return true
		}
		if !isHoistCandidateType(*arg) {
			// Type gate (spec.md §4.2): only arrow functions, function
			// expressions, call/new expressions, object/array literals,
			// and tagged templates are hoistable. Anything else (e.g. a
			// plain binary expression) just collapses away unlifted.
			*e = *arg
			return true
		}
		h.hoistExpr(e, *arg, scope, conditional)
		return true
	case IntrinsicDedupe:
		// Module-phase handoff: wrap in the __oveo__ wire marker so the
		// independently-reparsed chunk phase can recognize this as a
		// dedupe candidate; the chunk-phase Dedupe pass itself decides
		// whether to actually merge it (its own merge flag), and always
		// unwraps the marker regardless.
		h.walkExpr(arg, scope, conditional)
		*e = WrapAnnotation(*arg, AnnotationDedupe)
		return true
	case IntrinsicKey:
		h.walkExpr(arg, scope, conditional)
		*e = WrapAnnotation(*arg, AnnotationKey)
		return true
	}

	argSpecs := h.externArguments(*call)
	h.walkExpr(&call.Callee, scope, conditional)
	for i := range call.Args {
		var spec ArgSpec
		if i < len(argSpecs) {
			spec = argSpecs[i]
		}
		if spec.Scope {
			// Marks this argument's function body as a hoist target
			// before descending into it, same as a direct scope(fn)
			// call site, so a nested hoist() inside it sees the flag
			// already set.
			h.markScopeTarget(&call.Args[i])
		}
		h.walkExpr(&call.Args[i], scope, conditional)
		if spec.Hoist && h.enabled {
			h.hoistCallArgument(&call.Args[i], scope, conditional)
		}
	}
	e.Data = *call
	return true
}

// externArguments returns the per-argument-position ArgSpec list an extern
// function descriptor attaches to call's callee, if any (spec.md §4.1/§4.2
// step 1, ported from externs.rs's ExternFunction.arguments /
// module/mod.rs:190-213's `for (i, meta) in f.arguments.iter().enumerate()`:
// only the specific argument position(s) flagged hoist/scope are affected,
// never the call expression's own return value).
func (h *hoister) externArguments(call jsast.ECall) []ArgSpec {
	ext, ok := h.moduleBindings.Resolve(call.Callee)
	if !ok || ext.Kind != ExternFunction {
		return nil
	}
	return ext.Arguments
}

// hoistCallArgument applies the same lifting rules a direct hoist(x) call
// site applies to its argument — parenthesization opt-out, then the
// type gate (spec.md §4.2) — to arg in place, since an extern-flagged
// argument has no intrinsic call wrapper of its own to collapse away.
func (h *hoister) hoistCallArgument(arg *jsast.Expr, scope int32, conditional bool) {
	if _, parenthesized := arg.Data.(jsast.EParenthesized); parenthesized {
		return
	}
	if !isHoistCandidateType(*arg) {
		return
	}
	h.hoistExpr(arg, *arg, scope, conditional)
}

// isHoistCandidateType reports whether e's expression shape is one hoist()
// is allowed to lift (spec.md §4.2's type gate, ported from module/mod.rs's
// exit_expression hoist-argument match arm): arrow function, function
// expression, call expression, new expression, object literal, array
// literal, tagged template. Anything else — most commonly a plain binary/
// unary/literal expression — is skipped.
func isHoistCandidateType(e jsast.Expr) bool {
	switch e.Data.(type) {
	case jsast.EArrow, jsast.EFunction, jsast.ECall, jsast.ENew,
		jsast.EObject, jsast.EArray, jsast.ETaggedTemplate:
		return true
	default:
		return false
	}
}

// markScopeTarget marks arg's function body as a hoist target, mirroring
// `scope(fn)` — arg must be an EFunction/EArrow literal for the
// annotation to have any effect; any other argument shape is left
// untouched (a no-op scope() call, not an error).
func (h *hoister) markScopeTarget(arg *jsast.Expr) {
	switch d := arg.Data.(type) {
	case jsast.EFunction:
		h.ast.Scopes[d.Fn.BodyScopeIndex].IsHoistScope = true
	case jsast.EArrow:
		h.ast.Scopes[d.Fn.BodyScopeIndex].IsHoistScope = true
	}
}

// hoistExpr computes the target scope for value (originally e's hoist()
// argument, already rewritten by a nested walk) and replaces e with a
// reference to a new const declared there. If one of value's free
// variables is not visible from that target, value is left where it was
// written instead.
func (h *hoister) hoistExpr(e *jsast.Expr, value jsast.Expr, scope int32, conditional bool) {
	target := h.targetScope(value, scope, conditional)
	visible := true
	collectFreeRefs(value, func(ref jsast.Ref) {
		declared := h.ast.Sym(ref).ScopeIndex
		if h.ast.IsAncestorScope(declared, scope) && !h.ast.IsAncestorScope(declared, target) {
			visible = false
		}
	})
	if !visible {
		*e = value
		return
	}
	ref := h.ast.NewSymbol(jsast.SymbolHoistGenerated, "_hoist", target)
	h.ast.Sym(ref).OriginalName = hoistGeneratedName(len(h.pending))
	h.pending = append(h.pending, pendingDecl{targetScope: target, ref: ref, value: value})
	*e = jsast.Expr{Loc: e.Loc, Data: jsast.EIdentifier{Ref: ref, Name: h.ast.Sym(ref).OriginalName}}
}

func hoistGeneratedName(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if n < len(letters) {
		return "_HOIST_" + string(letters[n])
	}
	return "_HOIST_" + string(letters[n%len(letters)]) + string(letters[(n/len(letters))%len(letters)])
}

func (h *hoister) targetScope(value jsast.Expr, scope int32, conditional bool) int32 {
	ancestors := h.ast.ScopeAncestors(scope)
	position := make(map[int32]int, len(ancestors))
	for i, s := range ancestors {
		position[s] = i
	}

	boundPos := len(ancestors) - 1 // default: root, loosest bound
	collectFreeRefs(value, func(ref jsast.Ref) {
		declared := h.ast.Sym(ref).ScopeIndex
		if pos, ok := position[declared]; ok && pos < boundPos {
			boundPos = pos
		}
	})

	candidate := scope
	candidatePos := 0
	if conditional {
		h.scopeConditional[candidate] = true
	}
	for h.scopeConditional[candidate] && candidatePos < boundPos {
		candidate = h.ast.Scopes[candidate].ParentIndex
		candidatePos++
	}

	if h.ast.Scopes[candidate].IsHoistScope {
		return candidate
	}
	return h.ast.NearestHoistScope(candidate)
}

// collectFreeRefs visits every EIdentifier reachable from e, including
// through nested functions/classes — an over-approximation of "free
// variables" (it also reports identifiers a nested function binds
// itself, e.g. its own parameters). Callers only act on Refs declared
// in a scope on the call site's own ancestor chain, so such internal
// bindings never constrain the target.
func collectFreeRefs(e jsast.Expr, report func(jsast.Ref)) {
	switch d := e.Data.(type) {
	case jsast.EIdentifier:
		if d.Ref.IsValid() {
			report(d.Ref)
		}
	case jsast.EArrow, jsast.EFunction, jsast.EClass:
		walkExpr(&e, refCollector{report: report})
	case jsast.EArray:
		for _, it := range d.Items {
			collectFreeRefs(it, report)
		}
	case jsast.EObject:
		for _, p := range d.Properties {
			if p.KeyExpr != nil {
				collectFreeRefs(*p.KeyExpr, report)
			}
			if p.Value != nil {
				collectFreeRefs(*p.Value, report)
			}
		}
	case jsast.ECall:
		collectFreeRefs(d.Callee, report)
		for _, a := range d.Args {
			collectFreeRefs(a, report)
		}
	case jsast.ENew:
		collectFreeRefs(d.Callee, report)
		for _, a := range d.Args {
			collectFreeRefs(a, report)
		}
	case jsast.EMember:
		collectFreeRefs(d.Object, report)
	case jsast.EIndex:
		collectFreeRefs(d.Object, report)
		collectFreeRefs(d.Index, report)
	case jsast.EConditional:
		collectFreeRefs(d.Test, report)
		collectFreeRefs(d.Yes, report)
		collectFreeRefs(d.No, report)
	case jsast.EBinary:
		collectFreeRefs(d.Left, report)
		collectFreeRefs(d.Right, report)
	case jsast.EUnary:
		collectFreeRefs(d.Value, report)
	case jsast.EUpdate:
		collectFreeRefs(d.Value, report)
	case jsast.EAssign:
		collectFreeRefs(d.Target, report)
		collectFreeRefs(d.Value, report)
	case jsast.ESequence:
		for _, it := range d.Exprs {
			collectFreeRefs(it, report)
		}
	case jsast.ESpread:
		collectFreeRefs(d.Value, report)
	case jsast.EParenthesized:
		collectFreeRefs(d.Value, report)
	case jsast.ETemplate:
		for _, p := range d.Parts {
			collectFreeRefs(p.Expr, report)
		}
	case jsast.ETaggedTemplate:
		collectFreeRefs(d.Tag, report)
		for _, p := range d.Literal.Parts {
			collectFreeRefs(p.Expr, report)
		}
	case jsast.EAwait:
		collectFreeRefs(d.Value, report)
	case jsast.EYield:
		if d.Value != nil {
			collectFreeRefs(*d.Value, report)
		}
	case jsast.ETSAsExpression:
		collectFreeRefs(d.Value, report)
	}
}

// refCollector reports every resolved EIdentifier a walk reaches.
type refCollector struct {
	BaseVisitor
	report func(jsast.Ref)
}

func (c refCollector) EnterExpr(e *jsast.Expr) {
	if d, ok := e.Data.(jsast.EIdentifier); ok && d.Ref.IsValid() {
		c.report(d.Ref)
	}
}

// splice inserts every declaration targeting the program scope into the
// program body (after any directive prologue), in the order each
// hoist() call was encountered. Declarations targeting the block body
// of a scope()-annotated function were already spliced by walkFunction.
func (h *hoister) splice() {
	byTarget := map[int32][]jsast.Stmt{}
	for i := range h.pending {
		p := h.pending[i]
		binding := jsast.Pattern{Data: jsast.PIdentifier{Ref: p.ref}}
		// Lifted expressions become dedupe candidates in the chunk
		// phase (spec.md §4.4); the marker survives because this
		// module's output text is what the chunk phase re-parses.
		value := WrapAnnotation(p.value, AnnotationDedupe)
		decl := jsast.Stmt{Data: jsast.SVarDecl{Kind: jsast.Const, Decls: []jsast.Decl{{Binding: binding, Value: &value}}}}
		byTarget[p.targetScope] = append(byTarget[p.targetScope], decl)
	}
	for target, decls := range byTarget {
		if _, ok := h.funcByBody[target]; ok {
			continue
		}
		at := 0
		if h.ast.HasDirectivePrologue {
			at = 1
		}
		h.ast.Body = append(h.ast.Body[:at], append(decls, h.ast.Body[at:]...)...)
	}
}
