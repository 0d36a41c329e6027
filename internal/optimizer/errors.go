package optimizer

import (
	"fmt"

	"github.com/localvoid/oveo/internal/logger"
)

// ParseError reports that a transform/renderChunk call's source text
// failed to parse (spec.md §7). It carries every error message the
// frontend accumulated, not just the first, since a single malformed
// input commonly produces several cascading parse errors.
type ParseError struct {
	Msgs []logger.Msg
}

func (e *ParseError) Error() string {
	if len(e.Msgs) == 0 {
		return "parse error"
	}
	return e.Msgs[0].String()
}

// InvariantViolation reports an internal bug — a scope or symbol lookup
// that should always succeed but didn't (spec.md §7). Unlike
// PassWarning, this is never expected in normal operation; it signals
// the engine's own bookkeeping is inconsistent, not that a user
// annotation couldn't be honored.
type InvariantViolation struct {
	Context string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Context)
}
