// Package optimizer implements the six semantic passes described by
// this engine's module/chunk pipeline: hoist, inline-extern, dedupe,
// globals/singletons, rename-properties, plus the extern/property-map
// I/O that backs them. It is grounded on original_source/crates/oveo
// (the Rust implementation this package ports) and written in the
// teacher's (evanw-esbuild) idiom: small files per concern, value-typed
// AST rewrites returned bottom-up rather than mutated through an arena.
package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// Intrinsic names the engine recognizes when imported from the virtual
// "oveo" module (original_source/crates/oveo/src/module/intrinsics.rs).
type Intrinsic uint8

const (
	IntrinsicNone Intrinsic = iota
	IntrinsicHoist
	IntrinsicScope
	IntrinsicDedupe
	IntrinsicKey
)

// IntrinsicBindings maps a locally bound Ref back to which "oveo"
// export it came from.
type IntrinsicBindings map[jsast.Ref]Intrinsic

var intrinsicNames = map[string]Intrinsic{
	"hoist":  IntrinsicHoist,
	"scope":  IntrinsicScope,
	"dedupe": IntrinsicDedupe,
	"key":    IntrinsicKey,
}

// CollectIntrinsics scans ast's top-level imports for `from "oveo"` and
// returns the local bindings of any of the four annotation intrinsics it
// imports. Non-"oveo" imports are ignored.
func CollectIntrinsics(ast *jsast.AST) IntrinsicBindings {
	out := IntrinsicBindings{}
	for _, s := range ast.Body {
		imp, ok := s.Data.(jsast.SImport)
		if !ok || imp.Source != "oveo" {
			continue
		}
		for _, spec := range imp.Specifiers {
			if spec.Kind != jsast.ImportNamed {
				continue
			}
			if kind, ok := intrinsicNames[spec.Imported]; ok {
				out[spec.Local] = kind
			}
		}
	}
	return out
}

// ClassifyCall reports which intrinsic, if any, e invokes directly
// (`hoist(x)`, `scope(fn)`, `dedupe(x)`, `key(x)`), and the single
// argument expression passed to it. Calls with zero or more than one
// argument are never classified — every intrinsic is unary.
func ClassifyCall(e jsast.ECall, bindings IntrinsicBindings) (Intrinsic, *jsast.Expr) {
	ident, ok := e.Callee.Data.(jsast.EIdentifier)
	if !ok || len(e.Args) != 1 {
		return IntrinsicNone, nil
	}
	kind, ok := bindings[ident.Ref]
	if !ok {
		return IntrinsicNone, nil
	}
	return kind, &e.Args[0]
}

// AnnotationMarkerName is the callee name of the wire-format marker
// call module-phase passes emit into their returned source so a later,
// independent chunk-phase parse of the concatenated output can recover
// which expressions carry which annotation flags — the module and
// chunk phases never share an AST, only the text one returns and the
// other re-parses (original_source/crates/oveo/src/annotation.rs).
const AnnotationMarkerName = "__oveo__"

// AnnotationDedupe is the one flag bit annotation.rs defines: the
// wrapped expression is an implicit dedupe candidate even though no
// explicit `dedupe(...)` call wraps it at the chunk-phase source level
// (every hoist() target qualifies, per spec.md §4.4).
const AnnotationDedupe uint32 = 1 << 0

// AnnotationKey marks the wrapped expression as a property-map lookup
// target (supplemented feature, SPEC_FULL.md §4/§9: the `key(x)`
// intrinsic) even though its call site is a computed-member argument
// rather than a static property name. rename_properties.go recognizes
// this bit and renames the wrapped string literal the same way it
// renames any other property name.
const AnnotationKey uint32 = 1 << 1

// WrapAnnotation builds a `__oveo__(value, flags)` marker call around
// value, carrying flags across the module/chunk text boundary.
func WrapAnnotation(value jsast.Expr, flags uint32) jsast.Expr {
	return jsast.Expr{Loc: value.Loc, Data: jsast.ECall{
		Callee: jsast.Expr{Data: jsast.EIdentifier{Ref: jsast.InvalidRef, Name: AnnotationMarkerName}},
		Args:   []jsast.Expr{value, {Loc: value.Loc, Data: jsast.ENumber{Value: float64(flags)}}},
	}}
}

// UnwrapAnnotation recognizes a `__oveo__(value, flags)` marker call —
// callee is an unresolved identifier (never in scope, since no import
// declares it) named AnnotationMarkerName — and returns its wrapped
// value and flags.
func UnwrapAnnotation(e jsast.Expr) (value jsast.Expr, flags uint32, ok bool) {
	call, ok := e.Data.(jsast.ECall)
	if !ok || len(call.Args) != 2 {
		return jsast.Expr{}, 0, false
	}
	ident, ok := call.Callee.Data.(jsast.EIdentifier)
	if !ok || ident.Ref.IsValid() || ident.Name != AnnotationMarkerName {
		return jsast.Expr{}, 0, false
	}
	num, ok := call.Args[1].Data.(jsast.ENumber)
	if !ok {
		return jsast.Expr{}, 0, false
	}
	return call.Args[0], uint32(num.Value), true
}

// StripIntrinsicImport removes the `import {...} from "oveo"` statement
// itself once its call sites have all been rewritten away — the
// runtime module `oveo` described in spec.md's GLOSSARY never actually
// ships, so a reference to it surviving into output would be a bug.
func StripIntrinsicImport(body []jsast.Stmt) []jsast.Stmt {
	out := make([]jsast.Stmt, 0, len(body))
	for _, s := range body {
		if imp, ok := s.Data.(jsast.SImport); ok && imp.Source == "oveo" {
			continue
		}
		out = append(out, s)
	}
	return out
}
