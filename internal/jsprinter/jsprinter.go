// Package jsprinter renders a jsast.AST back to JS/TS source text. It
// mirrors the teacher's internal/js_printer in spirit (a single Printer
// struct with a strings.Builder sink and one method per node kind) but
// is scoped to this engine's smaller grammar and has no source-map or
// minification concerns beyond what spec.md §6 requires.
package jsprinter

import (
	"strconv"
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
)

type Printer struct {
	ast     *jsast.AST
	sb      strings.Builder
	indent  int
	onDecl  func(ref jsast.Ref) string // symbol renderer, overridable for renamed bindings
}

// Print renders ast to source text. nameOf, if non-nil, overrides how a
// symbol's name is printed (pkg/api and the optimizer tests pass one
// that returns the symbol's OriginalName, which is where the generated
// hoist/dedupe/globals bindings keep their names); when nil the
// symbol's original name is used verbatim.
func Print(ast *jsast.AST, nameOf func(ref jsast.Ref) string) string {
	p := &Printer{ast: ast, onDecl: nameOf}
	for _, s := range ast.Body {
		p.printStmt(s)
	}
	return p.sb.String()
}

func (p *Printer) nameOf(ref jsast.Ref) string {
	if !ref.IsValid() {
		return "_"
	}
	if p.onDecl != nil {
		return p.onDecl(ref)
	}
	return p.ast.Sym(ref).OriginalName
}

func (p *Printer) write(s string) { p.sb.WriteString(s) }

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.sb.WriteString("  ")
	}
}

func (p *Printer) printStmtList(body []jsast.Stmt) {
	p.indent++
	for _, s := range body {
		p.printStmt(s)
	}
	p.indent--
}

func (p *Printer) printBlock(body []jsast.Stmt) {
	p.write("{\n")
	p.printStmtList(body)
	p.writeIndent()
	p.write("}")
}

func (p *Printer) printStmt(s jsast.Stmt) {
	p.writeIndent()
	switch d := s.Data.(type) {
	case jsast.SExpr:
		p.printExprPrec(d.Value, 0)
		p.write(";\n")
	case jsast.SEmpty:
		p.write(";\n")
	case jsast.SDirective:
		p.write(d.Raw)
		p.write(";\n")
	case jsast.SVarDecl:
		p.printVarDecl(d)
		p.write(";\n")
	case jsast.SBlock:
		p.printBlock(d.Body)
		p.write("\n")
	case jsast.SIf:
		p.write("if (")
		p.printExprPrec(d.Test, 0)
		p.write(") ")
		p.printInlineOrBlock(d.Yes)
		if d.No != nil {
			p.write(" else ")
			p.printInlineOrBlock(*d.No)
		}
		p.write("\n")
	case jsast.SSwitch:
		p.write("switch (")
		p.printExprPrec(d.Test, 0)
		p.write(") {\n")
		p.indent++
		for _, c := range d.Cases {
			p.writeIndent()
			if c.Test != nil {
				p.write("case ")
				p.printExprPrec(*c.Test, 0)
				p.write(":\n")
			} else {
				p.write("default:\n")
			}
			p.printStmtList(c.Body)
		}
		p.indent--
		p.writeIndent()
		p.write("}\n")
	case jsast.SFunctionDecl:
		p.printFunctionHeader(d.Fn, "function")
		p.write(" ")
		p.printBlock(d.Fn.Body)
		p.write("\n")
	case jsast.SClassDecl:
		p.printClass(d.Class)
		p.write("\n")
	case jsast.SReturn:
		p.write("return")
		if d.Value != nil {
			p.write(" ")
			p.printExprPrec(*d.Value, 0)
		}
		p.write(";\n")
	case jsast.SFor:
		p.write("for (")
		switch init := d.Init.(type) {
		case jsast.ForInitVarDecl:
			p.printVarDecl(init.Decl)
		case jsast.ForInitExpr:
			p.printExprPrec(init.Value, 0)
		}
		p.write("; ")
		if d.Test != nil {
			p.printExprPrec(*d.Test, 0)
		}
		p.write("; ")
		if d.Update != nil {
			p.printExprPrec(*d.Update, 0)
		}
		p.write(") ")
		p.printInlineOrBlock(d.Body)
		p.write("\n")
	case jsast.SForInOf:
		p.write("for ")
		if d.IsAwait {
			p.write("await ")
		}
		p.write("(")
		if d.Kind != nil {
			p.write(d.Kind.String())
			p.write(" ")
		}
		p.printPattern(d.Binding)
		if d.IsOf {
			p.write(" of ")
		} else {
			p.write(" in ")
		}
		p.printExprPrec(d.Object, 0)
		p.write(") ")
		p.printInlineOrBlock(d.Body)
		p.write("\n")
	case jsast.SWhile:
		p.write("while (")
		p.printExprPrec(d.Test, 0)
		p.write(") ")
		p.printInlineOrBlock(d.Body)
		p.write("\n")
	case jsast.SDoWhile:
		p.write("do ")
		p.printInlineOrBlock(d.Body)
		p.write(" while (")
		p.printExprPrec(d.Test, 0)
		p.write(");\n")
	case jsast.SThrow:
		p.write("throw ")
		p.printExprPrec(d.Value, 0)
		p.write(";\n")
	case jsast.STry:
		p.write("try ")
		p.printBlock(d.Body)
		if d.CatchScopeIndex >= 0 {
			p.write(" catch ")
			if d.CatchParam != nil {
				p.write("(")
				p.printPattern(*d.CatchParam)
				p.write(") ")
			}
			p.printBlock(d.CatchBody)
		}
		if d.FinallyBody != nil {
			p.write(" finally ")
			p.printBlock(d.FinallyBody)
		}
		p.write("\n")
	case jsast.SBreak:
		p.write("break")
		if d.Label != "" {
			p.write(" " + d.Label)
		}
		p.write(";\n")
	case jsast.SContinue:
		p.write("continue")
		if d.Label != "" {
			p.write(" " + d.Label)
		}
		p.write(";\n")
	case jsast.SLabeled:
		p.write(d.Label + ": ")
		p.indent--
		p.printStmt(d.Body)
		p.indent++
	case jsast.SImport:
		p.printImport(d)
	case jsast.SExportDecl:
		p.write("export ")
		if d.IsDefault {
			p.write("default ")
		}
		p.indent--
		p.printStmt(d.Decl)
		p.indent++
	case jsast.SExportDefaultExpr:
		p.write("export default ")
		p.printExprPrec(d.Value, 0)
		p.write(";\n")
	case jsast.SExportClause:
		p.write(d.Raw)
		p.write(";\n")
	case jsast.SRawTS:
		p.write(d.Raw)
		p.write("\n")
	}
}

func (p *Printer) printInlineOrBlock(s jsast.Stmt) {
	if b, ok := s.Data.(jsast.SBlock); ok {
		p.printBlock(b.Body)
		return
	}
	p.write("{\n")
	p.indent++
	p.printStmt(s)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) printVarDecl(d jsast.SVarDecl) {
	p.write(d.Kind.String())
	p.write(" ")
	for i, decl := range d.Decls {
		if i > 0 {
			p.write(", ")
		}
		p.printPattern(decl.Binding)
		if decl.Value != nil {
			p.write(" = ")
			p.printExprPrec(*decl.Value, 2)
		}
	}
}

func (p *Printer) printImport(d jsast.SImport) {
	if len(d.Specifiers) == 0 {
		p.write("import ")
		p.write(strconv.Quote(d.Source))
		p.write(";\n")
		return
	}
	p.write("import ")
	var named []jsast.ImportSpecifier
	first := true
	for _, s := range d.Specifiers {
		switch s.Kind {
		case jsast.ImportDefault:
			if !first {
				p.write(", ")
			}
			p.write(p.nameOf(s.Local))
			first = false
		case jsast.ImportNamespace:
			if !first {
				p.write(", ")
			}
			p.write("* as " + p.nameOf(s.Local))
			first = false
		case jsast.ImportNamed:
			named = append(named, s)
		}
	}
	if len(named) > 0 {
		if !first {
			p.write(", ")
		}
		p.write("{ ")
		for i, s := range named {
			if i > 0 {
				p.write(", ")
			}
			local := p.nameOf(s.Local)
			if s.Imported != "" && s.Imported != local {
				p.write(s.Imported + " as " + local)
			} else {
				p.write(local)
			}
		}
		p.write(" }")
	}
	p.write(" from ")
	p.write(strconv.Quote(d.Source))
	p.write(";\n")
}

func (p *Printer) printPattern(pat jsast.Pattern) {
	switch d := pat.Data.(type) {
	case jsast.PIdentifier:
		p.write(p.nameOf(d.Ref))
	case jsast.PArray:
		p.write("[")
		for i, it := range d.Items {
			if i > 0 {
				p.write(", ")
			}
			if it.Binding == nil {
				continue
			}
			if it.IsRest {
				p.write("...")
			}
			p.printPattern(*it.Binding)
			if it.Default != nil {
				p.write(" = ")
				p.printExprPrec(*it.Default, 2)
			}
		}
		p.write("]")
	case jsast.PObject:
		p.write("{ ")
		for i, prop := range d.Properties {
			if i > 0 {
				p.write(", ")
			}
			p.printPropKey(prop.KeyName, prop.KeyIsString, prop.KeyExpr)
			if !prop.Shorthand {
				p.write(": ")
				p.printPattern(prop.Value)
			}
			if prop.Default != nil {
				p.write(" = ")
				p.printExprPrec(*prop.Default, 2)
			}
		}
		if d.HasRest {
			if len(d.Properties) > 0 {
				p.write(", ")
			}
			p.write("...")
			p.printPattern(*d.RestBinding)
		}
		p.write(" }")
	}
}

func (p *Printer) printPropKey(name string, isString bool, computed *jsast.Expr) {
	if computed != nil {
		p.write("[")
		p.printExprPrec(*computed, 0)
		p.write("]")
		return
	}
	if isString {
		p.write(strconv.Quote(name))
		return
	}
	p.write(name)
}

func (p *Printer) printFunctionHeader(fn jsast.Function, keyword string) {
	if fn.IsAsync {
		p.write("async ")
	}
	p.write(keyword)
	if fn.IsGenerator {
		p.write("*")
	}
	if fn.Name != "" {
		p.write(" " + fn.Name)
	} else {
		p.write(" ")
	}
	p.printParams(fn.Params)
}

func (p *Printer) printParams(params []jsast.Param) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		if param.IsRest {
			p.write("...")
		}
		p.printPattern(param.Binding)
		if param.Default != nil {
			p.write(" = ")
			p.printExprPrec(*param.Default, 2)
		}
	}
	p.write(")")
}

func (p *Printer) printClass(c jsast.EClass) {
	p.write("class")
	if c.Name != "" {
		p.write(" " + c.Name)
	}
	if c.SuperClass != nil {
		p.write(" extends ")
		p.printExprPrec(*c.SuperClass, 0)
	}
	p.write(" {\n")
	p.indent++
	for _, m := range c.Members {
		p.writeIndent()
		p.printClassMember(m)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) printClassMember(m jsast.ClassMember) {
	if m.Kind == jsast.ClassStaticBlock {
		p.write("static ")
		p.printBlock(m.Body)
		p.write("\n")
		return
	}
	if m.IsStatic {
		p.write("static ")
	}
	keyText := m.KeyName
	if m.IsPrivate && !strings.HasPrefix(keyText, "#") {
		keyText = "#" + keyText
	}
	if m.Kind == jsast.ClassField {
		p.printPropKey(keyText, false, m.KeyExpr)
		if m.Value != nil {
			p.write(" = ")
			p.printExprPrec(*m.Value, 2)
		}
		p.write(";\n")
		return
	}
	switch m.Kind {
	case jsast.ClassGet:
		p.write("get ")
	case jsast.ClassSet:
		p.write("set ")
	}
	if m.Fn.IsAsync {
		p.write("async ")
	}
	if m.Fn.IsGenerator {
		p.write("*")
	}
	p.printPropKey(keyText, false, m.KeyExpr)
	p.printParams(m.Fn.Params)
	p.write(" ")
	p.printBlock(m.Fn.Body)
	p.write("\n")
}
