package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// InlineExterns rewrites every reference to a Const extern binding (a
// plain identifier or a namespace member chain resolving through
// bindings) into a literal expression carrying the extern's JSON value,
// then prunes import specifiers left with zero remaining references
// (spec.md §4.3's "unused import pruning" edge case). Source import
// statements with no specifiers left at all are dropped entirely.
func InlineExterns(ast *jsast.AST, bindings ModuleBindings) {
	used := map[jsast.Ref]bool{}
	v := &inlineExternVisitor{ast: ast, bindings: bindings, used: used}
	Walk(ast.Body, v)
	ast.Body = pruneUnusedImportSpecifiers(ast.Body, bindings, used)
}

type inlineExternVisitor struct {
	BaseVisitor
	ast      *jsast.AST
	bindings ModuleBindings
	used     map[jsast.Ref]bool
}

func (v *inlineExternVisitor) EnterExpr(e *jsast.Expr) {
	ext, ok := v.bindings.Resolve(*e)
	if !ok {
		if ident, ok := e.Data.(jsast.EIdentifier); ok {
			if _, isExtern := v.bindings[ident.Ref]; !isExtern {
				v.used[ident.Ref] = true
			}
		}
		return
	}
	if ext.Kind != ExternConst {
		// A reference to a Function/Namespace extern outside of a call
		// site: leave it untouched, it is not a const to inline.
		markRootUsed(e, v.used)
		return
	}
	*e = literalExpr(e.Loc, ext.Literal)
}

// markRootUsed records the import binding at the root of a
// member-access chain as still referenced, so pruning doesn't discard
// an import whose namespace/function export is used even though this
// particular reference wasn't inlined.
func markRootUsed(e *jsast.Expr, used map[jsast.Ref]bool) {
	switch d := e.Data.(type) {
	case jsast.EIdentifier:
		used[d.Ref] = true
	case jsast.EMember:
		markRootUsed(&d.Object, used)
	}
}

func literalExpr(loc jsast.Loc, v any) jsast.Expr {
	switch val := v.(type) {
	case nil:
		return jsast.Expr{Loc: loc, Data: jsast.ENull{}}
	case bool:
		return jsast.Expr{Loc: loc, Data: jsast.EBoolean{Value: val}}
	case float64:
		return jsast.Expr{Loc: loc, Data: jsast.ENumber{Value: val}}
	case string:
		return jsast.Expr{Loc: loc, Data: jsast.EString{Value: val}}
	case []any:
		items := make([]jsast.Expr, len(val))
		for i, it := range val {
			items[i] = literalExpr(loc, it)
		}
		return jsast.Expr{Loc: loc, Data: jsast.EArray{Items: items}}
	case map[string]any:
		props := make([]jsast.Property, 0, len(val))
		for k, mv := range val {
			item := literalExpr(loc, mv)
			props = append(props, jsast.Property{Kind: jsast.PropertyInit, KeyName: k, KeyIsString: true, Value: &item})
		}
		return jsast.Expr{Loc: loc, Data: jsast.EObject{Properties: props}}
	default:
		return jsast.Expr{Loc: loc, Data: jsast.EIdentifier{Ref: jsast.InvalidRef, Name: "undefined"}}
	}
}

func pruneUnusedImportSpecifiers(body []jsast.Stmt, bindings ModuleBindings, used map[jsast.Ref]bool) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(body))
	for _, s := range body {
		imp, ok := s.Data.(jsast.SImport)
		if !ok {
			out = append(out, s)
			continue
		}
		var kept []jsast.ImportSpecifier
		for _, spec := range imp.Specifiers {
			if _, isExtern := bindings[spec.Local]; isExtern && !used[spec.Local] {
				continue
			}
			kept = append(kept, spec)
		}
		if len(kept) == 0 && len(imp.Specifiers) > 0 {
			continue
		}
		imp.Specifiers = kept
		out = append(out, jsast.Stmt{Loc: s.Loc, Data: imp})
	}
	return out
}
