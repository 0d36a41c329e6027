package optimizer

import (
	"regexp"
	"strings"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/propmap"
)

// RunChunkPasses applies every enabled chunk-phase pass to ast.
// chunk/mod.rs runs these as one combined oxc_traverse pass; this port
// runs them as separate sequential AST rewrites instead (this engine's
// passes are independent value-typed rewrites rather than callback
// methods on one Traverse visitor, see DESIGN.md), in an order chosen
// to match chunk/mod.rs's net effect: the URL rewrite and annotation
// handling run first (chunk/mod.rs's enter_expression), dedupe runs as
// its own second traversal once every __oveo__ marker and explicit
// dedupe() site has been collected (matching optimize_chunk's own
// second traverse_mut for Dedupe), then globals, then rename-properties
// last since it is independent of scope and of every earlier pass's
// output.
func RunChunkPasses(ast *jsast.AST, bindings IntrinsicBindings, opts ChunkOptions) {
	if opts.URLBase != "" {
		RewriteImportMetaURL(ast, opts.URLBase)
	}

	Dedupe(ast, bindings, opts.Dedupe)

	if opts.Globals != nil {
		Globals(ast, opts.Globals)
	}

	if opts.RenameProperties != nil {
		RenameProperties(ast, opts.RenameProperties.Pattern, opts.RenameProperties.Allocator)
	}
}

// ChunkOptions gathers the subset of Options (pkg/api) that apply to
// chunk-phase parses, already resolved to the concrete values each pass
// needs (a built GlobalsTable rather than a list of category names, an
// Allocator rather than a map path) so this package stays free of the
// host-facing option-parsing concerns that belong to pkg/api.
type ChunkOptions struct {
	Dedupe           bool
	Globals          *GlobalsTable
	RenameProperties *RenamePropertiesOptions
	URLBase          string
}

type RenamePropertiesOptions struct {
	Pattern   *regexp.Regexp
	Allocator *propmap.Allocator
}

// RewriteImportMetaURL replaces every `new URL("./rel", import.meta.url).href`
// expression with the absolute string literal `base + rel` (supplemented
// feature, SPEC_FULL.md §9; ported from chunk/mod.rs's inline URL-rewrite
// block and its is_import_meta_url helper). The relative path's leading
// "./" is stripped before concatenation, matching the Rust strip_prefix.
func RewriteImportMetaURL(ast *jsast.AST, base string) {
	Walk(ast.Body, urlRewriter{base: base})
}

type urlRewriter struct {
	BaseVisitor
	base string
}

func (r urlRewriter) EnterExpr(e *jsast.Expr) {
	mem, ok := e.Data.(jsast.EMember)
	if !ok || mem.Name != "href" {
		return
	}
	newExpr, ok := mem.Object.Data.(jsast.ENew)
	if !ok || len(newExpr.Args) != 2 {
		return
	}
	relLit, ok := newExpr.Args[0].Data.(jsast.EString)
	if !ok || !isImportMetaURL(newExpr.Args[1]) {
		return
	}
	rel := strings.TrimPrefix(relLit.Value, "./")
	*e = jsast.Expr{Loc: e.Loc, Data: jsast.EString{Value: r.base + rel}}
}

func isImportMetaURL(e jsast.Expr) bool {
	mem, ok := e.Data.(jsast.EMember)
	if !ok || mem.Name != "url" {
		return false
	}
	meta, ok := mem.Object.Data.(jsast.EMetaProperty)
	return ok && meta.Meta == "import" && meta.Property == "meta"
}
