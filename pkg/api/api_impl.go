package api

import (
	"regexp"

	"github.com/localvoid/oveo/internal/jsast"
	"github.com/localvoid/oveo/internal/jsparser"
	"github.com/localvoid/oveo/internal/jsprinter"
	"github.com/localvoid/oveo/internal/logger"
	"github.com/localvoid/oveo/internal/optimizer"
	"github.com/localvoid/oveo/internal/propmap"
)

// PropertyMapFormatError is propmap's own format error under the name
// spec.md §7 gives it at the engine boundary; the parsing logic it
// describes lives once, in internal/propmap.
type PropertyMapFormatError = propmap.FormatError

// ExternsFormatError is internal/optimizer's own format error, re-exported
// under the engine-boundary name spec.md §7 gives it.
type ExternsFormatError = optimizer.ExternsFormatError

// ParseError and InvariantViolation are re-exported the same way.
type ParseError = optimizer.ParseError
type InvariantViolation = optimizer.InvariantViolation

// Optimizer is one stateful engine instance (spec.md §3's "Optimizer
// instance"): configuration, extern registry, property map state, and
// the property-name allocator, held across any number of Transform and
// RenderChunk calls. It holds no reference to any prior call's AST —
// each call parses its own arena-equivalent *jsast.AST that is discarded
// when the call returns.
type Optimizer struct {
	options Options

	externs optimizer.ExternsCatalog

	propertyMap    *propmap.Map
	propertyAllocator *propmap.Allocator
	renamePattern  *regexp.Regexp

	globalsTable *optimizer.GlobalsTable
}

// New constructs an Optimizer from options, compiling its regex pattern
// and building its globals table once so later calls don't repeat that
// work (spec.md §3, §6).
func New(options Options) *Optimizer {
	o := &Optimizer{
		options:     options,
		externs:     optimizer.ExternsCatalog{},
		propertyMap: propmap.NewMap(),
	}
	o.propertyAllocator = propmap.NewAllocator(o.propertyMap)

	if options.RenameProperties.Pattern != "" {
		// Panics on a malformed host-supplied pattern are acceptable here:
		// an invalid regex is a construction-time configuration error, not
		// a per-call data error the spec's error kinds (§7) describe.
		o.renamePattern = regexp.MustCompile(options.RenameProperties.Pattern)
	}

	if len(options.Globals.Include) > 0 || options.Globals.Hoist || options.Globals.Singletons {
		o.globalsTable = optimizer.BuildGlobalsTable(options.Globals.Include, options.Globals.Hoist, options.Globals.Singletons)
	}

	return o
}

// Transform runs the module phase: parse sourceText as moduleType, run
// every enabled module-phase pass (inline-extern, then hoist — spec.md
// §4.3's ordering requirement), emit rewritten source (spec.md §2, §6).
func (o *Optimizer) Transform(sourceText string, moduleType ModuleType) (Result, []Warning, error) {
	log := logger.NewLog()
	ast := jsparser.Parse(sourceText, toParserModuleType(moduleType), log)
	if log.HasErrors() {
		return Result{}, nil, &ParseError{Msgs: log.Msgs()}
	}

	intrinsics := optimizer.CollectIntrinsics(ast)
	moduleBindings := optimizer.ResolveModuleExterns(ast, o.externs)

	if o.options.Externs.InlineConstValues {
		optimizer.InlineExterns(ast, moduleBindings)
	}
	// Always runs, even with Hoist off: hoist()/scope()/dedupe()/key()
	// call sites must still collapse to their bare argument (or, for
	// dedupe()/key(), hand off to the chunk phase via the __oveo__
	// marker) so no reference to the about-to-be-stripped "oveo" import
	// survives (spec.md §8 invariant 1). o.options.Hoist only gates
	// whether hoist() actually relocates its value.
	optimizer.Hoist(ast, intrinsics, moduleBindings, o.options.Hoist)

	ast.Body = optimizer.StripIntrinsicImport(ast.Body)

	code := jsprinter.Print(ast, func(ref jsast.Ref) string { return ast.Sym(ref).OriginalName })
	return Result{Code: code}, nil, nil
}

// RenderChunk runs the chunk phase: parse the host's already-concatenated
// module output, run every enabled chunk-phase pass, emit rewritten
// source (spec.md §2, §4.4–§4.6, §6).
func (o *Optimizer) RenderChunk(sourceText string) (Result, []Warning, error) {
	log := logger.NewLog()
	ast := jsparser.Parse(sourceText, jsparser.JS, log)
	if log.HasErrors() {
		return Result{}, nil, &ParseError{Msgs: log.Msgs()}
	}

	intrinsics := optimizer.CollectIntrinsics(ast)

	var renameOpts *optimizer.RenamePropertiesOptions
	if o.options.RenameProperties.Enabled {
		renameOpts = &optimizer.RenamePropertiesOptions{
			Pattern:   o.renamePattern,
			Allocator: o.propertyAllocator,
		}
	}

	optimizer.RunChunkPasses(ast, intrinsics, optimizer.ChunkOptions{
		Dedupe:           o.options.Dedupe,
		Globals:          o.globalsTable,
		RenameProperties: renameOpts,
		URLBase:          o.options.URL,
	})

	ast.Body = optimizer.StripIntrinsicImport(ast.Body)

	code := jsprinter.Print(ast, func(ref jsast.Ref) string { return ast.Sym(ref).OriginalName })
	return Result{Code: code}, nil, nil
}

// ImportExterns parses a JSON externs descriptor file — possibly naming
// several module specifiers at once — and merges it into the registry
// (spec.md §4.3, §6, §7). The registry is left unchanged if any one
// module's descriptor is malformed.
func (o *Optimizer) ImportExterns(data []byte) error {
	catalog, err := optimizer.ParseExterns("externs", data)
	if err != nil {
		return err
	}
	for specifier, exports := range catalog {
		o.externs[specifier] = exports
	}
	return nil
}

// ImportPropertyMap loads a persisted property map, replacing the
// allocator's prior state (spec.md §4.7, §6, §7). Malformed input leaves
// the previous map and allocator untouched.
func (o *Optimizer) ImportPropertyMap(data []byte) error {
	m, err := propmap.Parse(data)
	if err != nil {
		return err
	}
	o.propertyMap = m
	o.propertyAllocator = propmap.NewAllocator(m)
	return nil
}

// UpdatePropertyMap serializes the current map if the allocator assigned
// at least one new entry since the last import/update, else returns nil
// (spec.md §4.7, §6, §8 invariant 8).
func (o *Optimizer) UpdatePropertyMap() []byte {
	if !o.propertyAllocator.Dirty() {
		return nil
	}
	o.propertyAllocator.ClearDirty()
	return o.propertyMap.Serialize()
}

// ExportPropertyMap serializes the current map unconditionally
// (spec.md §6).
func (o *Optimizer) ExportPropertyMap() []byte {
	return o.propertyMap.Serialize()
}

func toParserModuleType(m ModuleType) jsparser.ModuleType {
	switch m {
	case JSX:
		return jsparser.JSX
	case TS:
		return jsparser.TS
	case TSX:
		return jsparser.TSX
	default:
		return jsparser.JS
	}
}
