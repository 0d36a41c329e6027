package optimizer

import (
	"regexp"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/propmap"
)

// RenameProperties implements the identifier-based property renamer
// (original_source/crates/oveo/src/property_names/mod.rs): every
// syntactic property name — object-literal key, `.name` member access,
// computed-member access with a string-literal argument, class member
// name, method shorthand key — is looked up in the map first, then
// against pattern if the map has no entry, allocating a fresh name on
// a pattern match. Private `#name` members, string literals anywhere
// else, destructuring patterns, and import/export bindings are never
// touched.
func RenameProperties(ast *jsast.AST, pattern *regexp.Regexp, allocator *propmap.Allocator) {
	r := &propertyRenamer{pattern: pattern, allocator: allocator}
	Walk(ast.Body, r)
}

type propertyRenamer struct {
	BaseVisitor
	pattern   *regexp.Regexp
	allocator *propmap.Allocator
}

func (r *propertyRenamer) rename(name string) string {
	if v, ok := r.allocator.Map.Get(name); ok {
		return v
	}
	if r.pattern != nil && r.pattern.MatchString(name) {
		return r.allocator.Rename(name)
	}
	return name
}

func (r *propertyRenamer) EnterStmt(s *jsast.Stmt) {
	if d, ok := s.Data.(jsast.SClassDecl); ok {
		r.renameClassMembers(d.Class.Members)
	}
}

func (r *propertyRenamer) EnterExpr(e *jsast.Expr) {
	if inner, flags, ok := UnwrapAnnotation(*e); ok && flags&AnnotationKey != 0 {
		// The key() intrinsic (SPEC_FULL.md §4/§9): a dynamic
		// computed-member argument the module phase marked as a
		// property-map lookup even though it isn't a static property
		// name. A string-literal value is renamed exactly like any
		// other property name; anything else just loses the marker,
		// since there is no literal name here to rename.
		if str, ok := inner.Data.(jsast.EString); ok {
			*e = jsast.Expr{Loc: e.Loc, Data: jsast.EString{Value: r.rename(str.Value)}}
		} else {
			*e = inner
		}
		return
	}
	switch d := e.Data.(type) {
	case jsast.EMember:
		if !d.IsPrivate {
			d.Name = r.rename(d.Name)
			e.Data = d
		}
	case jsast.EIndex:
		if str, ok := d.Index.Data.(jsast.EString); ok {
			d.Index = jsast.Expr{Loc: d.Index.Loc, Data: jsast.EString{Value: r.rename(str.Value)}}
			e.Data = d
		}
	case jsast.EObject:
		for i := range d.Properties {
			p := &d.Properties[i]
			if p.KeyExpr == nil && p.Kind != jsast.PropertySpread {
				renamed := r.rename(p.KeyName)
				if renamed != p.KeyName {
					// A renamed shorthand `{ x }` prints as `{ a: x }`.
					p.Shorthand = false
				}
				p.KeyName = renamed
			}
		}
		e.Data = d
	case jsast.EClass:
		r.renameClassMembers(d.Members)
		e.Data = d
	}
}

func (r *propertyRenamer) renameClassMembers(members []jsast.ClassMember) {
	for i := range members {
		m := &members[i]
		if m.IsPrivate || m.KeyExpr != nil {
			continue
		}
		m.KeyName = r.rename(m.KeyName)
	}
}
