package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// Visitor is the traversal interface the globals, inline-extern,
// rename-properties and import.meta.url rewrite passes implement, grounded on github.com/t14raptor/go-fast's ast.Visitor —
// embed BaseVisitor and override only the methods a given pass needs,
// the same no-op-embedding idiom that package uses (and which
// oxc_traverse's Traverse trait achieves in Rust via default method
// bodies). Expr/Stmt are passed by pointer so a visitor can rewrite a
// node in place.
type Visitor interface {
	EnterExpr(e *jsast.Expr)
	ExitExpr(e *jsast.Expr)
	EnterStmt(s *jsast.Stmt)
	ExitStmt(s *jsast.Stmt)
}

type BaseVisitor struct{}

func (BaseVisitor) EnterExpr(*jsast.Expr) {}
func (BaseVisitor) ExitExpr(*jsast.Expr)  {}
func (BaseVisitor) EnterStmt(*jsast.Stmt) {}
func (BaseVisitor) ExitStmt(*jsast.Stmt)  {}

// Walk visits every statement and expression reachable from body, depth
// first, calling v's Enter hook before descending into children and its
// Exit hook after. Function/class bodies are walked too: this engine
// has no part-graph like the teacher's bundler, so there is no reason
// to skip nested scopes during a rewrite pass.
func Walk(body []jsast.Stmt, v Visitor) {
	for i := range body {
		walkStmt(&body[i], v)
	}
}

func walkStmt(s *jsast.Stmt, v Visitor) {
	v.EnterStmt(s)
	switch d := s.Data.(type) {
	case jsast.SExpr:
		walkExpr(&d.Value, v)
		s.Data = d
	case jsast.SVarDecl:
		walkVarDecl(&d, v)
		s.Data = d
	case jsast.SBlock:
		Walk(d.Body, v)
	case jsast.SIf:
		walkExpr(&d.Test, v)
		walkStmt(&d.Yes, v)
		if d.No != nil {
			walkStmt(d.No, v)
		}
		s.Data = d
	case jsast.SSwitch:
		walkExpr(&d.Test, v)
		for i := range d.Cases {
			if d.Cases[i].Test != nil {
				walkExpr(d.Cases[i].Test, v)
			}
			Walk(d.Cases[i].Body, v)
		}
		s.Data = d
	case jsast.SFunctionDecl:
		walkFunction(&d.Fn, v)
		s.Data = d
	case jsast.SClassDecl:
		walkClass(&d.Class, v)
		s.Data = d
	case jsast.SReturn:
		if d.Value != nil {
			walkExpr(d.Value, v)
		}
		s.Data = d
	case jsast.SFor:
		switch init := d.Init.(type) {
		case jsast.ForInitVarDecl:
			walkVarDecl(&init.Decl, v)
			d.Init = init
		case jsast.ForInitExpr:
			walkExpr(&init.Value, v)
			d.Init = init
		}
		if d.Test != nil {
			walkExpr(d.Test, v)
		}
		if d.Update != nil {
			walkExpr(d.Update, v)
		}
		walkStmt(&d.Body, v)
		s.Data = d
	case jsast.SForInOf:
		walkExpr(&d.Object, v)
		walkStmt(&d.Body, v)
		s.Data = d
	case jsast.SWhile:
		walkExpr(&d.Test, v)
		walkStmt(&d.Body, v)
		s.Data = d
	case jsast.SDoWhile:
		walkStmt(&d.Body, v)
		walkExpr(&d.Test, v)
		s.Data = d
	case jsast.SThrow:
		walkExpr(&d.Value, v)
		s.Data = d
	case jsast.STry:
		Walk(d.Body, v)
		Walk(d.CatchBody, v)
		Walk(d.FinallyBody, v)
	case jsast.SLabeled:
		walkStmt(&d.Body, v)
		s.Data = d
	case jsast.SExportDecl:
		walkStmt(&d.Decl, v)
		s.Data = d
	case jsast.SExportDefaultExpr:
		walkExpr(&d.Value, v)
		s.Data = d
	}
	v.ExitStmt(s)
}

func walkVarDecl(d *jsast.SVarDecl, v Visitor) {
	for i := range d.Decls {
		if d.Decls[i].Value != nil {
			walkExpr(d.Decls[i].Value, v)
		}
	}
}

func walkFunction(fn *jsast.Function, v Visitor) {
	for i := range fn.Params {
		if fn.Params[i].Default != nil {
			walkExpr(fn.Params[i].Default, v)
		}
	}
	if fn.ArrowExprBody != nil {
		walkExpr(fn.ArrowExprBody, v)
	}
	Walk(fn.Body, v)
}

func walkClass(c *jsast.EClass, v Visitor) {
	if c.SuperClass != nil {
		walkExpr(c.SuperClass, v)
	}
	for i := range c.Members {
		m := &c.Members[i]
		if m.KeyExpr != nil {
			walkExpr(m.KeyExpr, v)
		}
		if m.Fn != nil {
			walkFunction(m.Fn, v)
		}
		if m.Value != nil {
			walkExpr(m.Value, v)
		}
		Walk(m.Body, v)
	}
}

func walkExpr(e *jsast.Expr, v Visitor) {
	v.EnterExpr(e)
	switch d := e.Data.(type) {
	case jsast.EArray:
		for i := range d.Items {
			walkExpr(&d.Items[i], v)
		}
		e.Data = d
	case jsast.EObject:
		for i := range d.Properties {
			p := &d.Properties[i]
			if p.KeyExpr != nil {
				walkExpr(p.KeyExpr, v)
			}
			if p.Value != nil {
				walkExpr(p.Value, v)
			}
			if p.Fn != nil {
				walkFunction(p.Fn, v)
			}
		}
		e.Data = d
	case jsast.EFunction:
		walkFunction(&d.Fn, v)
		e.Data = d
	case jsast.EArrow:
		walkFunction(&d.Fn, v)
		e.Data = d
	case jsast.ECall:
		walkExpr(&d.Callee, v)
		for i := range d.Args {
			walkExpr(&d.Args[i], v)
		}
		e.Data = d
	case jsast.ENew:
		walkExpr(&d.Callee, v)
		for i := range d.Args {
			walkExpr(&d.Args[i], v)
		}
		e.Data = d
	case jsast.EMember:
		walkExpr(&d.Object, v)
		e.Data = d
	case jsast.EIndex:
		walkExpr(&d.Object, v)
		walkExpr(&d.Index, v)
		e.Data = d
	case jsast.EConditional:
		walkExpr(&d.Test, v)
		walkExpr(&d.Yes, v)
		walkExpr(&d.No, v)
		e.Data = d
	case jsast.EBinary:
		walkExpr(&d.Left, v)
		walkExpr(&d.Right, v)
		e.Data = d
	case jsast.EUnary:
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.EUpdate:
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.EAssign:
		walkExpr(&d.Target, v)
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.ESequence:
		for i := range d.Exprs {
			walkExpr(&d.Exprs[i], v)
		}
		e.Data = d
	case jsast.ESpread:
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.EParenthesized:
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.EClass:
		walkClass(&d, v)
		e.Data = d
	case jsast.ETemplate:
		for i := range d.Parts {
			walkExpr(&d.Parts[i].Expr, v)
		}
		e.Data = d
	case jsast.ETaggedTemplate:
		walkExpr(&d.Tag, v)
		for i := range d.Literal.Parts {
			walkExpr(&d.Literal.Parts[i].Expr, v)
		}
		e.Data = d
	case jsast.EAwait:
		walkExpr(&d.Value, v)
		e.Data = d
	case jsast.EYield:
		if d.Value != nil {
			walkExpr(d.Value, v)
		}
		e.Data = d
	case jsast.ETSAsExpression:
		walkExpr(&d.Value, v)
		e.Data = d
	}
	v.ExitExpr(e)
}
