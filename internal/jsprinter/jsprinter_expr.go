package jsprinter

import (
	"strconv"

	"github.com/localvoid/oveo/internal/jsast"
)

const (
	precSequence = 0
	precAssign   = 2
	precCond     = 3
	precNullish  = 4
	precOr       = 4
	precAnd      = 5
	precBitOr    = 6
	precBitXor   = 7
	precBitAnd   = 8
	precEquality = 9
	precRelation = 10
	precShift    = 11
	precAdditive = 12
	precMultiply = 13
	precExponent = 14
	precUnary    = 15
	precPostfix  = 16
	precCall     = 17
	precPrimary  = 18
)

func binaryPrec(op jsast.Token) int {
	switch op {
	case jsast.LogicalOr, jsast.Nullish:
		return precOr
	case jsast.LogicalAnd:
		return precAnd
	case jsast.BitOr:
		return precBitOr
	case jsast.BitXor:
		return precBitXor
	case jsast.BitAnd:
		return precBitAnd
	case jsast.EqEq, jsast.NotEq, jsast.EqEqEq, jsast.NotEqEq:
		return precEquality
	case jsast.Lt, jsast.Le, jsast.Gt, jsast.Ge, jsast.In, jsast.InstanceOf:
		return precRelation
	case jsast.Shl, jsast.Shr, jsast.UShr:
		return precShift
	case jsast.Add, jsast.Sub:
		return precAdditive
	case jsast.Mul, jsast.Div, jsast.Mod:
		return precMultiply
	case jsast.Pow:
		return precExponent
	}
	return precPrimary
}

// printExprPrec prints e, wrapping it in parentheses if its own
// precedence is lower than minPrec — the standard precedence-climbing
// printer technique, mirroring how the teacher's js_printer decides
// when to emit parens rather than always trusting EParenthesized nodes
// (which this AST keeps only to record the author's explicit choice,
// per spec.md §4.2's parenthesization opt-out rule).
func (p *Printer) printExprPrec(e jsast.Expr, minPrec int) {
	prec, wrap := p.exprPrecAndWrap(e, minPrec)
	if wrap {
		p.write("(")
	}
	p.printExprNode(e)
	_ = prec
	if wrap {
		p.write(")")
	}
}

func (p *Printer) exprPrecAndWrap(e jsast.Expr, minPrec int) (int, bool) {
	prec := precPrimary
	switch d := e.Data.(type) {
	case jsast.EBinary:
		prec = binaryPrec(d.Op)
	case jsast.EConditional:
		prec = precCond
	case jsast.EAssign:
		prec = precAssign
	case jsast.ESequence:
		prec = precSequence
	case jsast.EUnary, jsast.EAwait:
		prec = precUnary
	case jsast.EYield:
		prec = precAssign
	case jsast.EUpdate:
		if d.Prefix {
			prec = precUnary
		} else {
			prec = precPostfix
		}
	case jsast.ECall, jsast.ENew, jsast.EMember, jsast.EIndex, jsast.ETaggedTemplate:
		prec = precCall
	}
	return prec, prec < minPrec
}

func (p *Printer) printExprNode(e jsast.Expr) {
	switch d := e.Data.(type) {
	case jsast.EMissing:
		// nothing: array hole
	case jsast.ENull:
		p.write("null")
	case jsast.EThis:
		p.write("this")
	case jsast.ESuper:
		p.write("super")
	case jsast.EBoolean:
		if d.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case jsast.ENumber:
		if d.Raw != "" {
			p.write(d.Raw)
		} else {
			p.write(strconv.FormatFloat(d.Value, 'g', -1, 64))
		}
	case jsast.EBigInt:
		p.write(d.Raw + "n")
	case jsast.EString:
		p.write(strconv.Quote(d.Value))
	case jsast.ERegExp:
		p.write(d.Raw)
	case jsast.ETemplate:
		p.printTemplate(d)
	case jsast.ETaggedTemplate:
		p.printExprPrec(d.Tag, precCall)
		p.printTemplate(d.Literal)
	case jsast.EIdentifier:
		if d.Ref.IsValid() {
			p.write(p.nameOf(d.Ref))
		} else {
			p.write(d.Name)
		}
	case jsast.EArray:
		p.printArrayLiteral(d)
	case jsast.EObject:
		p.printObjectLiteral(d)
	case jsast.EFunction:
		p.printFunctionHeader(d.Fn, "function")
		p.write(" ")
		p.printBlock(d.Fn.Body)
	case jsast.EArrow:
		p.printArrow(d.Fn)
	case jsast.ECall:
		p.printCall(d)
	case jsast.ENew:
		p.write("new ")
		p.printExprPrec(d.Callee, precCall)
		if d.HasArgs || len(d.Args) > 0 {
			p.printArgs(d.Args)
		}
	case jsast.EMember:
		p.printExprPrec(d.Object, precCall)
		if d.OptionalChain {
			p.write("?.")
		} else {
			p.write(".")
		}
		p.write(d.Name)
	case jsast.EIndex:
		p.printExprPrec(d.Object, precCall)
		if d.OptionalChain {
			p.write("?.")
		}
		p.write("[")
		p.printExprPrec(d.Index, 0)
		p.write("]")
	case jsast.EConditional:
		p.printExprPrec(d.Test, precCond+1)
		p.write(" ? ")
		p.printExprPrec(d.Yes, precAssign)
		p.write(" : ")
		p.printExprPrec(d.No, precAssign)
	case jsast.EBinary:
		prec := binaryPrec(d.Op)
		leftMin := prec
		if d.Op == jsast.Pow {
			leftMin = prec + 1
		}
		p.printExprPrec(d.Left, leftMin)
		p.write(" " + string(d.Op) + " ")
		rightMin := prec + 1
		if d.Op == jsast.Pow {
			rightMin = prec
		}
		p.printExprPrec(d.Right, rightMin)
	case jsast.EUnary:
		p.printUnary(d)
	case jsast.EUpdate:
		if d.Prefix {
			p.write(string(d.Op))
			p.printExprPrec(d.Value, precUnary)
		} else {
			p.printExprPrec(d.Value, precPostfix)
			p.write(string(d.Op))
		}
	case jsast.EAssign:
		p.printExprPrec(d.Target, precCall)
		p.write(" " + string(d.Op) + " ")
		p.printExprPrec(d.Value, precAssign)
	case jsast.ESequence:
		for i, sub := range d.Exprs {
			if i > 0 {
				p.write(", ")
			}
			p.printExprPrec(sub, precAssign)
		}
	case jsast.ESpread:
		p.write("...")
		p.printExprPrec(d.Value, precAssign)
	case jsast.EParenthesized:
		p.write("(")
		p.printExprPrec(d.Value, 0)
		p.write(")")
	case jsast.EClass:
		p.printClass(d)
	case jsast.EJSXElement:
		p.write(d.Raw)
	case jsast.ETSAsExpression:
		p.printExprPrec(d.Value, precRelation)
		p.write(" " + d.Keyword + " " + d.TypeRaw)
	case jsast.EAwait:
		p.write("await ")
		p.printExprPrec(d.Value, precUnary)
	case jsast.EYield:
		p.write("yield")
		if d.Delegate {
			p.write("*")
		}
		if d.Value != nil {
			p.write(" ")
			p.printExprPrec(*d.Value, precAssign)
		}
	case jsast.EMetaProperty:
		p.write(d.Meta + "." + d.Property)
	}
}

func (p *Printer) printUnary(d jsast.EUnary) {
	switch d.Op {
	case jsast.Not:
		p.write("!")
	case jsast.BitNot:
		p.write("~")
	case jsast.Neg:
		p.write("-")
	case jsast.Pos:
		p.write("+")
	case jsast.Typeof:
		p.write("typeof ")
	case jsast.Void:
		p.write("void ")
	case jsast.Delete:
		p.write("delete ")
	}
	p.printExprPrec(d.Value, precUnary)
}

func (p *Printer) printArrayLiteral(d jsast.EArray) {
	p.write("[")
	for i, it := range d.Items {
		if i > 0 {
			p.write(", ")
		}
		if _, ok := it.Data.(jsast.EMissing); ok {
			continue
		}
		p.printExprPrec(it, precAssign)
	}
	p.write("]")
}

func (p *Printer) printObjectLiteral(d jsast.EObject) {
	p.write("{ ")
	for i, prop := range d.Properties {
		if i > 0 {
			p.write(", ")
		}
		p.printProperty(prop)
	}
	p.write(" }")
}

func (p *Printer) printProperty(prop jsast.Property) {
	switch prop.Kind {
	case jsast.PropertySpread:
		p.write("...")
		p.printExprPrec(*prop.Value, precAssign)
		return
	case jsast.PropertyMethod, jsast.PropertyGet, jsast.PropertySet:
		if prop.Kind == jsast.PropertyGet {
			p.write("get ")
		} else if prop.Kind == jsast.PropertySet {
			p.write("set ")
		}
		if prop.Fn.IsAsync {
			p.write("async ")
		}
		if prop.Fn.IsGenerator {
			p.write("*")
		}
		p.printPropKey(prop.KeyName, prop.KeyIsString, prop.KeyExpr)
		p.printParams(prop.Fn.Params)
		p.write(" ")
		p.printBlock(prop.Fn.Body)
		return
	}
	if prop.Shorthand {
		p.printExprPrec(*prop.Value, precAssign)
		return
	}
	p.printPropKey(prop.KeyName, prop.KeyIsString, prop.KeyExpr)
	p.write(": ")
	p.printExprPrec(*prop.Value, precAssign)
}

func (p *Printer) printArrow(fn jsast.Function) {
	if fn.IsAsync {
		p.write("async ")
	}
	p.printParams(fn.Params)
	p.write(" => ")
	if fn.ArrowExprBody != nil {
		p.printExprPrec(*fn.ArrowExprBody, precAssign)
	} else {
		p.printBlock(fn.Body)
	}
}

func (p *Printer) printCall(d jsast.ECall) {
	p.printExprPrec(d.Callee, precCall)
	if d.OptionalChain {
		p.write("?.")
	}
	p.printArgs(d.Args)
}

func (p *Printer) printArgs(args []jsast.Expr) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExprPrec(a, precAssign)
	}
	p.write(")")
}

func (p *Printer) printTemplate(t jsast.ETemplate) {
	p.write(t.HeadRaw)
	for i, part := range t.Parts {
		p.printExprPrec(part.Expr, 0)
		p.write(part.Raw)
		_ = i
	}
}
