// Package api is the thin, host-facing surface of the oveo optimizer
// engine (spec.md §6's "Engine API"). It owns option parsing and result
// shaping only; every actual pass lives in internal/optimizer,
// internal/jsparser, internal/jsprinter, and internal/propmap, mirroring
// the teacher's pkg/api → internal/bundler split (pkg/api/api.go holds
// the option/result vocabulary, api_impl.go holds the Optimizer itself).
package api

// ModuleType selects which module-phase grammar transform parses with
// (spec.md §6).
type ModuleType uint8

const (
	JS ModuleType = iota
	JSX
	TS
	TSX
)

// GlobalsOptions configures the chunk-phase globals/singletons pass
// (spec.md §4.5, §6). Include names one or more built-in global tables
// ("js", "web", "web:battery", ...; internal/optimizer/globals_tables.go
// lists every category this engine knows). Hoist and Singletons are
// independent: either may run without the other.
type GlobalsOptions struct {
	Include    []string
	Hoist      bool
	Singletons bool
}

// ExternsOptions configures the module-phase inline-extern pass
// (spec.md §4.3, §6). The actual extern descriptor bytes are supplied
// out of band via Optimizer.ImportExterns — InlineConstValues only turns
// the pass on or off.
type ExternsOptions struct {
	InlineConstValues bool
}

// RenamePropertiesOptions configures the chunk-phase rename-properties
// pass (spec.md §4.6, §6). Enabled turns the pass on regardless of
// Pattern — a loaded map with no Pattern still renames every name the
// map already covers, it just never allocates a new entry for one it
// doesn't. The persisted map's bytes arrive out of band via
// Optimizer.ImportPropertyMap.
type RenamePropertiesOptions struct {
	Enabled bool
	Pattern string
}

// Options are the construction-time settings of one Optimizer instance
// (spec.md §6's option table). Every sub-struct's zero value disables
// that pass, so the zero Options value is "everything disabled" —
// matching spec.md §8 invariant 1's codegen-only round-trip contract.
type Options struct {
	Hoist            bool
	Dedupe           bool
	Globals          GlobalsOptions
	Externs          ExternsOptions
	RenameProperties RenamePropertiesOptions
	// URL is the supplemented import.meta.url-relative rewrite's base
	// (SPEC_FULL.md §9); empty disables it.
	URL string
}

// Result is one transform/renderChunk call's output (spec.md §6).
type Result struct {
	Code string
	Map  string // source map JSON; always empty, no source map is generated
}

// WarningKind mirrors spec.md §7's PassWarning: a non-fatal condition
// where an annotation could not be honored.
type WarningKind uint8

const (
	WarningHoistSkipped WarningKind = iota
	WarningPropertyNotRenamed
)

type Warning struct {
	Kind WarningKind
	Text string
}
