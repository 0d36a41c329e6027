package optimizer

import "github.com/localvoid/oveo/internal/jsast"

// ExternsCatalog holds one ExternValue tree per external module source
// the host has described (spec.md §4.3 and §6's ImportExterns call).
type ExternsCatalog map[string]map[string]*ExternValue

// ModuleBindings maps a module's locally bound import Refs to the
// ExternValue each one resolves to, resolved against catalog for this
// one module's own import statements (original_source's
// module/externs.rs — per-module resolution, not global).
type ModuleBindings map[jsast.Ref]*ExternValue

// ResolveModuleExterns walks ast's top-level imports and, for every
// source present in catalog, binds each imported local Ref to the
// ExternValue it names. A default import binds to the catalog's "default"
// entry if present; a namespace import binds to a synthetic namespace
// wrapping the whole module's exports, so `ns.FOO` can resolve through
// EMember lookups during inlining.
func ResolveModuleExterns(ast *jsast.AST, catalog ExternsCatalog) ModuleBindings {
	out := ModuleBindings{}
	for _, s := range ast.Body {
		imp, ok := s.Data.(jsast.SImport)
		if !ok {
			continue
		}
		exports, ok := catalog[imp.Source]
		if !ok {
			continue
		}
		for _, spec := range imp.Specifiers {
			switch spec.Kind {
			case jsast.ImportNamed:
				if v, ok := exports[spec.Imported]; ok {
					out[spec.Local] = v
				}
			case jsast.ImportDefault:
				if v, ok := exports["default"]; ok {
					out[spec.Local] = v
				}
			case jsast.ImportNamespace:
				out[spec.Local] = &ExternValue{Kind: ExternNamespace, Members: exports}
			}
		}
	}
	return out
}

// Resolve follows a (possibly nested) member-access chain rooted at an
// identifier already bound in bindings, e.g. `ns.Sub.FOO`, returning the
// ExternValue the full chain names. ok is false if any step of the
// chain isn't a known extern (a plain runtime property access, which
// this pass must leave untouched).
func (b ModuleBindings) Resolve(e jsast.Expr) (*ExternValue, bool) {
	switch d := e.Data.(type) {
	case jsast.EIdentifier:
		v, ok := b[d.Ref]
		return v, ok
	case jsast.EMember:
		base, ok := b.Resolve(d.Object)
		if !ok || base.Kind != ExternNamespace {
			return nil, false
		}
		v, ok := base.Members[d.Name]
		return v, ok
	default:
		return nil, false
	}
}
