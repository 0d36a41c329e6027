// Package propmap implements the persistent property-name map: its
// line-oriented INI-like file format, the deterministic short-name
// allocator backing the rename-properties pass, and the reserved-word
// set that allocator must never hand out.
package propmap

// base54Head is the set of characters a generated name may start with;
// identifier-start characters that aren't digits. base54Tail extends it with
// digits for every character after the first. This is the same
// fixed-alphabet numbering scheme as the teacher's
// internal/js_ast.DefaultNameMinifier, without its frequency-sorted
// variant — property names need a stable, input-independent ordering
// across incremental rebuilds, not maximum compression.
const (
	base54Head = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_$"
	base54Tail = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_$"
)

// base54 is the n-th name in the numbering scheme, matching
// original_source/crates/oveo/src/property_names/base54.rs's
// generation order (0, 1, 2, ... -> "a", "b", "c", ...).
func base54(n int) string {
	j := n % 54
	name := string(base54Head[j])
	n /= 54

	for n > 0 {
		n--
		j := n % 64
		name += string(base54Tail[j])
		n /= 64
	}
	return name
}
